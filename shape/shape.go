// Package shape implements the result shaper (C7): it turns the flat rows a
// query (C6) returns into the column-oriented structure the plot
// specification emitter (C8) renders traces from. Rows are the query
// result's aliased columns (x, y, split_by, color_by, label, value) keyed by
// alias exactly as C6 names them.
package shape

import (
	"fmt"
	"sort"

	"github.com/timothyrenner/svl/ir"
)

// ErrEmptyResult is returned when a query's result set has no rows; spec.md
// §4.7 treats this as a hard failure rather than an empty plot.
var ErrEmptyResult = fmt.Errorf("empty result set")

// Kind tags which of Result's fields are populated.
type Kind int

const (
	KindFlat Kind = iota
	KindSplit
	KindPie
)

// Result is the shaped output for one plot. Flat holds parallel sequences
// keyed by SELECT alias for the ungrouped case; Splits holds the same shape
// nested one level under the split_by value, for the split-by case; Pie
// holds the label/value sequence pair pie charts always produce.
type Result struct {
	Kind   Kind
	Flat   map[string][]any
	Splits map[string]map[string][]any
	Labels []any
	Values []any
}

// Shape dispatches on chart family and reshapes rows into a Result, per
// spec.md §4.7. An empty row set is always an error regardless of chart
// type.
func Shape(p ir.Plot, rows []map[string]any) (Result, error) {
	if len(rows) == 0 {
		return Result{}, ErrEmptyResult
	}

	switch {
	case p.Type.IsXY():
		return shapeXY(rows)
	case p.Type == ir.ChartHistogram:
		return shapeHistogram(p, rows)
	case p.Type == ir.ChartPie:
		return shapePie(rows)
	default:
		return Result{}, fmt.Errorf("shape: unsupported chart type %s", p.Type)
	}
}

func hasColumn(rows []map[string]any, col string) bool {
	_, ok := rows[0][col]
	return ok
}

func shapeXY(rows []map[string]any) (Result, error) {
	if !hasColumn(rows, "split_by") {
		flat := map[string][]any{}
		for col := range rows[0] {
			flat[col] = nil
		}
		for _, row := range rows {
			for col, v := range row {
				flat[col] = append(flat[col], v)
			}
		}
		return Result{Kind: KindFlat, Flat: flat}, nil
	}

	splits := map[string]map[string][]any{}
	for _, row := range rows {
		key := fmt.Sprint(row["split_by"])
		part, ok := splits[key]
		if !ok {
			part = map[string][]any{"x": nil, "y": nil}
			splits[key] = part
		}
		part["x"] = append(part["x"], row["x"])
		part["y"] = append(part["y"], row["y"])
	}
	return Result{Kind: KindSplit, Splits: splits}, nil
}

func shapeHistogram(p ir.Plot, rows []map[string]any) (Result, error) {
	axis := "x"
	if p.Axes.X == nil {
		axis = "y"
	}

	if !hasColumn(rows, "split_by") {
		values := make([]any, 0, len(rows))
		for _, row := range rows {
			values = append(values, row[axis])
		}
		return Result{Kind: KindFlat, Flat: map[string][]any{axis: values}}, nil
	}

	splits := map[string]map[string][]any{}
	for _, row := range rows {
		key := fmt.Sprint(row["split_by"])
		part, ok := splits[key]
		if !ok {
			part = map[string][]any{axis: nil}
			splits[key] = part
		}
		part[axis] = append(part[axis], row[axis])
	}
	return Result{Kind: KindSplit, Splits: splits}, nil
}

func shapePie(rows []map[string]any) (Result, error) {
	labels := make([]any, 0, len(rows))
	values := make([]any, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, row["label"])
		values = append(values, row["value"])
	}
	return Result{Kind: KindPie, Labels: labels, Values: values}, nil
}

// SortedKeys returns a Split result's split values in the lexicographic
// order both this package and render (C8) zip traces against, so that
// trace order is deterministic across runs.
func (r Result) SortedKeys() []string {
	keys := make([]string, 0, len(r.Splits))
	for k := range r.Splits {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
