// Package render implements the plot specification emitter (C8): it turns a
// positioned plot and its shaped data (shape.Result) into the plotly trace
// and layout dictionaries the HTML template renders, following the title,
// axis-label, binning, and split-by/color-by rules of spec.md §4.8.
package render

import (
	"fmt"

	"github.com/timothyrenner/svl/ir"
	"github.com/timothyrenner/svl/shape"
)

// fieldName renders an axis the way a user would read it in a default
// title or label: the transform text if set, else the field, else "*".
func fieldName(a *ir.Axis) string {
	if a == nil {
		return "*"
	}
	if s := a.DisplayField(); s != "" {
		return s
	}
	return "*"
}

// title returns p's explicit title, or one of the three chart-family
// defaults spec.md §4.8 names.
func title(p ir.Plot) string {
	if p.HasTitle() {
		return p.Title
	}
	switch {
	case p.Type == ir.ChartPie:
		return fmt.Sprintf("%s: %s", p.Data, fieldName(p.Axes.PieAxis))
	case p.Type == ir.ChartHistogram:
		axis := p.Axes.X
		if axis == nil {
			axis = p.Axes.Y
		}
		return fmt.Sprintf("%s: %s", p.Data, fieldName(axis))
	default:
		return fmt.Sprintf("%s: %s - %s", p.Data, fieldName(p.Axes.X), fieldName(p.Axes.Y))
	}
}

// axisLabel returns the axis's explicit label, or the "{field} ({AGG})"
// aggregated default, or the bare field name.
func axisLabel(a *ir.Axis) string {
	if a == nil {
		return ""
	}
	if a.Label != "" {
		return a.Label
	}
	if a.HasAgg() {
		return fmt.Sprintf("%s (%s)", fieldName(a), a.Agg)
	}
	return fieldName(a)
}

// bins returns the plotly bin specifier for a histogram: a fixed step size,
// an explicit bin count, or autobinning when neither is declared.
func bins(p ir.Plot) map[string]any {
	axis := "x"
	if p.Axes.X == nil {
		axis = "y"
	}
	switch {
	case p.HasStep:
		return map[string]any{axis + "bins": map[string]any{"size": p.Step}}
	case p.HasBins:
		return map[string]any{"nbins" + axis: p.Bins}
	default:
		return map[string]any{"autobin" + axis: true}
	}
}

// colorSpec returns the plotly marker/colorbar spec for a color_by axis,
// reading the already-extracted color values out of data's "color_by"
// column. It returns nil when the plot has no color_by.
func colorSpec(p ir.Plot, data map[string][]any) map[string]any {
	if p.Axes.ColorBy == nil {
		return nil
	}
	var scale any
	if p.Axes.ColorBy.ColorScale != "" {
		scale = p.Axes.ColorBy.ColorScale
	}
	return map[string]any{
		"marker": map[string]any{
			"color": data["color_by"],
			"colorbar": map[string]any{
				"title": axisLabel(p.Axes.ColorBy),
			},
			"colorscale": scale,
		},
	}
}

// traces returns one plotly data dict per split_by value, in lexicographic
// order, when p declares split_by, or a single un-named trace otherwise.
// The un-named trace still carries "color_by" (if present); callers read it
// through colorSpec before dropping it with dissociate.
func traces(r shape.Result) (names []string, datas []map[string][]any) {
	if r.Kind == shape.KindSplit {
		keys := r.SortedKeys()
		out := make([]map[string][]any, len(keys))
		for i, k := range keys {
			out[i] = r.Splits[k]
		}
		return keys, out
	}
	return []string{""}, []map[string][]any{r.Flat}
}

// dissociate returns a copy of d with its "color_by" column removed: plotly
// consumes color_by through the marker/colorbar spec, not as a trace field.
func dissociate(d map[string][]any) map[string][]any {
	out := make(map[string][]any, len(d))
	for k, v := range d {
		if k == "color_by" {
			continue
		}
		out[k] = v
	}
	return out
}

func merge(dicts ...map[string]any) map[string]any {
	out := map[string]any{}
	for _, d := range dicts {
		for k, v := range d {
			if v == nil {
				continue
			}
			out[k] = v
		}
	}
	return out
}

func dataDict(d map[string][]any) map[string]any {
	out := make(map[string]any, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Plot is the emitted spec for one positioned chart: its 1-indexed grid
// span (CSS grid lines are 1-indexed, unlike the zero-indexed layout
// planner's intervals) plus the plotly layout/data dicts.
type Plot struct {
	RowStart, RowEnd       int
	ColumnStart, ColumnEnd int
	Layout                 map[string]any
	Data                   []map[string]any
}

// Emit builds the plotly layout/data spec for one positioned plot given its
// shaped result, per spec.md §4.8's per-chart-family rules.
func Emit(pp ir.PositionedPlot, r shape.Result) (Plot, error) {
	p := pp.Plot

	var layout map[string]any
	var data []map[string]any

	switch {
	case p.Type == ir.ChartHistogram:
		axis := "x"
		if p.Axes.X == nil {
			axis = "y"
		}
		layout = map[string]any{
			"title":        title(p),
			axis + "axis": map[string]any{"title": axisLabel(axisOf(p, axis))},
		}
		names, partitions := traces(r)
		if p.Axes.SplitBy != nil {
			layout["barmode"] = "overlay"
			for i, part := range partitions {
				data = append(data, merge(
					map[string]any{"type": "histogram", "name": names[i], "opacity": 0.6},
					dataDict(part), bins(p)))
			}
		} else {
			for _, part := range partitions {
				data = append(data, merge(map[string]any{"type": "histogram"}, dataDict(part), bins(p)))
			}
		}

	case p.Type == ir.ChartPie:
		layout = map[string]any{"title": title(p)}
		hole := 0.0
		if p.HasHole {
			hole = p.Hole
		}
		data = []map[string]any{{
			"type":   "pie",
			"labels": r.Labels,
			"values": r.Values,
			"hole":   hole,
		}}

	case p.Type.IsXY():
		layout = map[string]any{
			"title": title(p),
			"xaxis": map[string]any{"title": axisLabel(p.Axes.X)},
			"yaxis": map[string]any{"title": axisLabel(p.Axes.Y)},
		}
		plotType := xyPlotType(p.Type)
		names, partitions := traces(r)
		if p.Axes.SplitBy != nil {
			if p.Type == ir.ChartBar {
				layout["barmode"] = "group"
			}
			for i, part := range partitions {
				data = append(data, merge(plotType, map[string]any{"name": names[i]}, dataDict(part)))
			}
		} else {
			color := colorSpec(p, partitions[0])
			for _, part := range partitions {
				data = append(data, merge(plotType, color, dataDict(dissociate(part))))
			}
		}

	default:
		return Plot{}, fmt.Errorf("render: unsupported chart type %s", p.Type)
	}

	return Plot{
		RowStart:    pp.Row.Start + 1,
		RowEnd:      pp.Row.End + 1,
		ColumnStart: pp.Column.Start + 1,
		ColumnEnd:   pp.Column.End + 1,
		Layout:      layout,
		Data:        data,
	}, nil
}

func axisOf(p ir.Plot, alias string) *ir.Axis {
	if alias == "x" {
		return p.Axes.X
	}
	return p.Axes.Y
}

// xyPlotType returns the plotly trace "type" (and, for line/scatter, its
// "mode") for each of the three XY chart families.
func xyPlotType(t ir.ChartType) map[string]any {
	switch t {
	case ir.ChartBar:
		return map[string]any{"type": "bar"}
	case ir.ChartLine:
		return map[string]any{"type": "scatter", "mode": "lines+markers"}
	case ir.ChartScatter:
		return map[string]any{"type": "scatter", "mode": "markers"}
	default:
		return nil
	}
}
