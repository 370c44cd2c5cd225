package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timothyrenner/svl/diag"
)

func TestAnalyze_ValidDocumentHasNoDiagnostics(t *testing.T) {
	src := `
	DATASETS
		bigfoot "data/bigfoot_sightings.csv"
	LINE bigfoot
		X date BY YEAR LABEL "Year"
		Y date COUNT LABEL "Number of Sightings"
	`
	a := NewAnalyzer(nil)
	snap := a.Analyze("file:///test.svl", 1, src)

	assert.True(t, snap.Parsed)
	assert.Empty(t, snap.Diagnostics)
}

func TestAnalyze_SyntaxErrorProducesDiagnosticAtSpan(t *testing.T) {
	src := `
	DATASETS
		bigfoot "data/bigfoot_sightings.csv"
	LINE bigfoot
		X date BY YEAR LABEL
	`
	a := NewAnalyzer(nil)
	snap := a.Analyze("file:///test.svl", 1, src)

	require.False(t, snap.Parsed)
	require.Len(t, snap.Diagnostics, 1)

	d := snap.Diagnostics[0]
	require.NotNil(t, d.Code)
	assert.NotEmpty(t, d.Code.Value)
	assert.NotEmpty(t, d.Message)
	// The error is raised at end of input (1-based line 6), not at 0:0.
	assert.Equal(t, 5, int(d.Range.Start.Line))
}

func TestAnalyze_MissingDatasetProducesSpanlessDiagnostic(t *testing.T) {
	src := `
	DATASETS
		bigfoot "data/bigfoot_sightings.csv"
	LINE sasquatch
		X date BY YEAR
		Y date COUNT
	`
	a := NewAnalyzer(nil)
	snap := a.Analyze("file:///test.svl", 1, src)

	require.True(t, snap.Parsed)
	require.Len(t, snap.Diagnostics, 1)

	d := snap.Diagnostics[0]
	require.NotNil(t, d.Code)
	assert.Equal(t, diag.E_SVL_MISSING_DATASET.String(), d.Code.Value)
	assert.Equal(t, 0, int(d.Range.Start.Line))
	assert.Equal(t, 0, int(d.Range.Start.Character))
}

func TestAnalyze_VersionIsPreservedOnSnapshot(t *testing.T) {
	src := `
	DATASETS
		bigfoot "data/bigfoot_sightings.csv"
	LINE bigfoot
		X date BY YEAR
		Y date COUNT
	`
	a := NewAnalyzer(nil)
	snap := a.Analyze("file:///test.svl", 7, src)

	assert.Equal(t, 7, snap.Version)
	assert.Equal(t, "file:///test.svl", snap.URI)
}
