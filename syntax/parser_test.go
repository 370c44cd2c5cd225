package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timothyrenner/svl/ir"
	"github.com/timothyrenner/svl/location"
	"github.com/timothyrenner/svl/syntax"
)

func testSource(src string) location.SourceID {
	return location.MustNewSourceID("test://parser/case.svl")
}

func mustParse(t *testing.T, src string) ir.Visualization {
	t.Helper()
	v, err := syntax.Parse(testSource(src), src)
	require.NoError(t, err)
	return v
}

func onlyLeaf(t *testing.T, v ir.Visualization) ir.Plot {
	t.Helper()
	require.Equal(t, ir.LayoutVCat, v.Layout.Kind)
	require.Len(t, v.Layout.Children, 1)
	leaf := v.Layout.Children[0]
	require.Equal(t, ir.LayoutLeaf, leaf.Kind)
	require.NotNil(t, leaf.Leaf)
	return *leaf.Leaf
}

func TestParse_LineChart(t *testing.T) {
	src := `
	DATASETS
		bigfoot "data/bigfoot_sightings.csv"
	LINE bigfoot
		X date BY YEAR LABEL "Year"
		Y date COUNT LABEL "Number of Sightings"
		SPLIT BY classification
		TITLE "Bigfoot Sightings by Year and Classification"
		FILTER "date > '1990-01-01'"
	`
	v := mustParse(t, src)

	assert.Equal(t, ir.NewFileDataset("data/bigfoot_sightings.csv"), v.Datasets["bigfoot"])

	plot := onlyLeaf(t, v)
	assert.Equal(t, ir.ChartLine, plot.Type)
	assert.Equal(t, "bigfoot", plot.Data)
	assert.Equal(t, "Bigfoot Sightings by Year and Classification", plot.Title)
	assert.Equal(t, "date > '1990-01-01'", plot.Filter)

	require.NotNil(t, plot.Axes.X)
	assert.Equal(t, "date", plot.Axes.X.Field)
	assert.Equal(t, ir.TemporalYear, plot.Axes.X.Temporal)
	assert.Equal(t, "Year", plot.Axes.X.Label)

	require.NotNil(t, plot.Axes.Y)
	assert.Equal(t, "date", plot.Axes.Y.Field)
	assert.Equal(t, ir.AggCount, plot.Axes.Y.Agg)
	assert.Equal(t, "Number of Sightings", plot.Axes.Y.Label)

	require.NotNil(t, plot.Axes.SplitBy)
	assert.Equal(t, "classification", plot.Axes.SplitBy.Field)
}

func TestParse_BarChart(t *testing.T) {
	src := `
	DATASETS
		bigfoot "data/bigfoot_sightings.csv"
	BAR bigfoot
		X classification
		Y classification COUNT
	`
	plot := onlyLeaf(t, mustParse(t, src))
	assert.Equal(t, ir.ChartBar, plot.Type)
	assert.Equal(t, "classification", plot.Axes.X.Field)
	assert.Equal(t, "classification", plot.Axes.Y.Field)
	assert.Equal(t, ir.AggCount, plot.Axes.Y.Agg)
}

func TestParse_HistogramStep(t *testing.T) {
	src := `
	DATASETS
		bigfoot "data/bigfoot_sightings.csv"
	HISTOGRAM bigfoot
		X temperature_mid
		STEP 5
	`
	plot := onlyLeaf(t, mustParse(t, src))
	assert.Equal(t, ir.ChartHistogram, plot.Type)
	assert.Equal(t, "temperature_mid", plot.Axes.X.Field)
	assert.True(t, plot.HasStep)
	assert.Equal(t, 5.0, plot.Step)
	assert.False(t, plot.HasBins)
}

func TestParse_HistogramBins(t *testing.T) {
	src := `
	DATASETS
		bigfoot "data/bigfoot_sightings.csv"
	HISTOGRAM bigfoot
		TITLE "Bigfoot Sighting Humidity"
		BINS 25
		Y humidity LABEL "Humidity"
	`
	plot := onlyLeaf(t, mustParse(t, src))
	assert.Equal(t, "Bigfoot Sighting Humidity", plot.Title)
	assert.True(t, plot.HasBins)
	assert.Equal(t, 25, plot.Bins)
	assert.Equal(t, "humidity", plot.Axes.Y.Field)
	assert.Equal(t, "Humidity", plot.Axes.Y.Label)
}

func TestParse_Pie(t *testing.T) {
	src := `
	DATASETS
		bigfoot "data/bigfoot_sightings.csv"
	PIE bigfoot
		TITLE "Bigfoot Sightings with Location"
		HOLE 0.3
		AXIS TRANSFORM "CASE WHEN latitude IS NULL THEN 'no_location' ELSE 'has_location' END"
	`
	plot := onlyLeaf(t, mustParse(t, src))
	assert.Equal(t, ir.ChartPie, plot.Type)
	assert.True(t, plot.HasHole)
	assert.Equal(t, 0.3, plot.Hole)
	require.NotNil(t, plot.Axes.PieAxis)
	assert.True(t, plot.Axes.PieAxis.HasTransform())
	assert.Equal(t, "CASE WHEN latitude IS NULL THEN 'no_location' ELSE 'has_location' END", plot.Axes.PieAxis.Transform)
}

func TestParse_Scatter(t *testing.T) {
	src := `
	DATASETS
		bigfoot "data/bigfoot_sightings.csv"
	SCATTER bigfoot
		X latitude
		Y temperature_mid
		SPLIT BY classification
	`
	plot := onlyLeaf(t, mustParse(t, src))
	assert.Equal(t, ir.ChartScatter, plot.Type)
	assert.Equal(t, "latitude", plot.Axes.X.Field)
	assert.Equal(t, "temperature_mid", plot.Axes.Y.Field)
}

func TestParse_CaseInsensitivity(t *testing.T) {
	src := `
	DATASETS
		bigfoot "data/bigfoot_sightings.csv"
	bar bigfoot
		x classification
		y classification CoUnT
	`
	plot := onlyLeaf(t, mustParse(t, src))
	assert.Equal(t, ir.ChartBar, plot.Type)
	assert.Equal(t, ir.AggCount, plot.Axes.Y.Agg)
}

func TestParse_Comment(t *testing.T) {
	src := `
	DATASETS
		-- Time to go squatchin.
		bigfoot "data/bigfoot_sightings.csv"
	HISTOGRAM bigfoot
		X temperature_mid
		STEP 5 -- Every five degrees should be granular enough.
	`
	plot := onlyLeaf(t, mustParse(t, src))
	assert.Equal(t, 5.0, plot.Step)
}

func TestParse_Concat(t *testing.T) {
	src := `
	DATASETS
		bigfoot "data/bigfoot_sightings.csv"
	CONCAT(
		SCATTER bigfoot
			X latitude
			Y temperature_mid
		BAR bigfoot
			X classification
			Y classification COUNT
	)
	`
	v := mustParse(t, src)
	require.Equal(t, ir.LayoutVCat, v.Layout.Kind)
	require.Len(t, v.Layout.Children, 1)
	hcat := v.Layout.Children[0]
	require.Equal(t, ir.LayoutHCat, hcat.Kind)
	require.Len(t, hcat.Children, 2)
	assert.Equal(t, ir.ChartScatter, hcat.Children[0].Leaf.Type)
	assert.Equal(t, ir.ChartBar, hcat.Children[1].Leaf.Type)
}

func TestParse_ImplicitVCat(t *testing.T) {
	src := `
	DATASETS
		bigfoot "data/bigfoot_sightings.csv"
	(
		SCATTER bigfoot
			X latitude
			Y temperature_mid
		BAR bigfoot
			X classification
			Y classification COUNT
	)
	`
	v := mustParse(t, src)
	inner := v.Layout.Children[0]
	require.Equal(t, ir.LayoutVCat, inner.Kind)
	require.Len(t, inner.Children, 2)
}

func TestParse_SQLDataset(t *testing.T) {
	src := `
	DATASETS
		bigfoot "bigfoot_sightings.csv"
		recent_bigfoot_sightings SQL
			"SELECT * FROM bigfoot WHERE date >= '2008-01-01'"
	HISTOGRAM recent_bigfoot_sightings
		X temperature_mid
	`
	v := mustParse(t, src)
	assert.Equal(t, ir.NewSQLDataset("SELECT * FROM bigfoot WHERE date >= '2008-01-01'"), v.Datasets["recent_bigfoot_sightings"])
}

func TestParse_NoDatasets(t *testing.T) {
	src := `
	HISTOGRAM bigfoot
		X temperature_mid
		SPLIT BY classification
	`
	v := mustParse(t, src)
	assert.Empty(t, v.Datasets)
	plot := onlyLeaf(t, v)
	assert.Equal(t, "bigfoot", plot.Data)
}

func TestParse_Sort(t *testing.T) {
	src := `
	DATASETS
		bigfoot "bigfoot_sightings.csv"
	BAR bigfoot
		X classification SORT ASC
		Y classification COUNT
	`
	plot := onlyLeaf(t, mustParse(t, src))
	assert.Equal(t, ir.SortAsc, plot.Axes.X.Sort)
}

func TestParse_ColorBy(t *testing.T) {
	src := `
	DATASETS
		bigfoot "bigfoot_sightings.csv"
	LINE bigfoot
		X date BY YEAR
		Y report_id COUNT LABEL "Number of Sightings"
		COLOR BY temperature_mid AVG "Jet" LABEL "Average Temperature (F)"
	`
	plot := onlyLeaf(t, mustParse(t, src))
	require.NotNil(t, plot.Axes.ColorBy)
	assert.Equal(t, "temperature_mid", plot.Axes.ColorBy.Field)
	assert.Equal(t, ir.AggAvg, plot.Axes.ColorBy.Agg)
	assert.Equal(t, "Jet", plot.Axes.ColorBy.ColorScale)
	assert.Equal(t, "Average Temperature (F)", plot.Axes.ColorBy.Label)
}

func TestParse_SplitByTransform(t *testing.T) {
	src := `
	DATASETS
		bigfoot "bigfoot_sightings.csv"
	LINE bigfoot
		X date BY YEAR
		Y report_id COUNT
		SPLIT BY TRANSFORM "CASE WHEN temperature > 85 THEN 'hot' ELSE 'not_hot' END"
	`
	plot := onlyLeaf(t, mustParse(t, src))
	require.NotNil(t, plot.Axes.SplitBy)
	assert.True(t, plot.Axes.SplitBy.HasTransform())
	assert.Equal(t, "CASE WHEN temperature > 85 THEN 'hot' ELSE 'not_hot' END", plot.Axes.SplitBy.Transform)
}

func TestParse_SplitByTemporal(t *testing.T) {
	src := `
	DATASETS bigfoot "bigfoot_sightings.csv"
	BAR bigfoot
		X classification
		Y report_number COUNT
		SPLIT BY date BY YEAR
	`
	plot := onlyLeaf(t, mustParse(t, src))
	require.NotNil(t, plot.Axes.SplitBy)
	assert.Equal(t, "date", plot.Axes.SplitBy.Field)
	assert.Equal(t, ir.TemporalYear, plot.Axes.SplitBy.Temporal)
}

func TestParse_SplitByLabel(t *testing.T) {
	src := `
	DATASETS bigfoot "bigfoot_sightings.csv"
	HISTOGRAM bigfoot
		X temperature
		SPLIT BY classification LABEL "Classification"
	`
	plot := onlyLeaf(t, mustParse(t, src))
	require.NotNil(t, plot.Axes.SplitBy)
	assert.Equal(t, "classification", plot.Axes.SplitBy.Field)
	assert.Equal(t, "Classification", plot.Axes.SplitBy.Label)
}

func TestParse_ErrorMissingValue(t *testing.T) {
	src := `
	DATASETS
		bigfoot "bigfoot_sightings.csv"
	BAR bigfoot
		X classification
		Y classification COUNT
		TITLE
	`
	_, err := syntax.Parse(testSource(src), src)
	require.Error(t, err)
	pe, ok := err.(*syntax.ParseError)
	require.True(t, ok)
	assert.Equal(t, "E_SVL_MISSING_VALUE", syntax.Classify(pe).String())
}

func TestParse_ErrorMissingParen(t *testing.T) {
	src := `
	DATASETS
		bigfoot "bigfoot_sightings.csv"
	CONCAT(
		BAR bigfoot
			X classification
			Y classification COUNT
	`
	_, err := syntax.Parse(testSource(src), src)
	require.Error(t, err)
	pe, ok := err.(*syntax.ParseError)
	require.True(t, ok)
	assert.Equal(t, "E_SVL_MISSING_PAREN", syntax.Classify(pe).String())
}

func TestParse_ErrorInvalidTimeUnit(t *testing.T) {
	src := `
	DATASETS
		bigfoot "bigfoot_sightings.csv"
	LINE bigfoot
		X date BY FORTNIGHT
		Y date COUNT
	`
	_, err := syntax.Parse(testSource(src), src)
	require.Error(t, err)
	pe, ok := err.(*syntax.ParseError)
	require.True(t, ok)
	assert.Equal(t, "E_SVL_INVALID_TIME_UNIT", syntax.Classify(pe).String())
}

func TestParse_ErrorInvalidSort(t *testing.T) {
	src := `
	DATASETS
		bigfoot "bigfoot_sightings.csv"
	BAR bigfoot
		X classification SORT SIDEWAYS
		Y classification COUNT
	`
	_, err := syntax.Parse(testSource(src), src)
	require.Error(t, err)
	pe, ok := err.(*syntax.ParseError)
	require.True(t, ok)
	assert.Equal(t, "E_SVL_INVALID_SORT", syntax.Classify(pe).String())
}

func TestParse_ErrorTypeMismatchBins(t *testing.T) {
	src := `
	DATASETS
		bigfoot "bigfoot_sightings.csv"
	HISTOGRAM bigfoot
		X temperature_mid
		BINS 2.5
	`
	_, err := syntax.Parse(testSource(src), src)
	require.Error(t, err)
	pe, ok := err.(*syntax.ParseError)
	require.True(t, ok)
	assert.Equal(t, "E_SVL_TYPE", syntax.Classify(pe).String())
}
