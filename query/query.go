// Package query implements the query synthesizer (C6): it turns a validated
// ir.Plot into the SQL text that retrieves the rows the plot needs.
//
// Field resolution follows one precedence for every axis: a verbatim
// transform expression, else a temporal bucket wrapping the field, else the
// bare field, else "*" for an axis the grammar allows to go unset. Grouped
// by chart family, synthesis produces exactly the SELECT/FROM/WHERE/GROUP
// BY/ORDER BY shape spec.md §4.6 and §8's worked scenarios specify.
package query

import (
	"fmt"
	"strings"

	"github.com/timothyrenner/svl/ir"
)

// temporalConverters maps each Temporal bucket to the STRFTIME format string
// spec.md §6 names for it. "%s" is the field expression's insertion point.
var temporalConverters = map[ir.Temporal]string{
	ir.TemporalYear:   "STRFTIME('%%Y', %s)",
	ir.TemporalMonth:  "STRFTIME('%%Y-%%m', %s)",
	ir.TemporalDay:    "STRFTIME('%%Y-%%m-%%D', %s)",
	ir.TemporalHour:   "STRFTIME('%%Y-%%m-%%DT%%H', %s)",
	ir.TemporalMinute: "STRFTIME('%%Y-%%m-%%DT%%H:%%M', %s)",
	ir.TemporalSecond: "STRFTIME('%%Y-%%m-%%DT%%H:%%M:%%S', %s)",
}

// fieldExpr resolves an axis to the relational expression it contributes to
// a query, in the fixed precedence transform > temporal > field > "*".
func fieldExpr(a *ir.Axis) string {
	if a == nil {
		return "*"
	}
	switch {
	case a.HasTransform():
		return a.Transform
	case a.HasTemporal():
		return fmt.Sprintf(temporalConverters[a.Temporal], a.Field)
	case a.HasField():
		return a.Field
	default:
		return "*"
	}
}

// Synthesize produces the SQL text that retrieves the data for p, dispatched
// on chart family exactly as C9's pipeline driver does.
func Synthesize(p ir.Plot) (string, error) {
	switch {
	case p.Type.IsXY():
		return synthesizeXY(p), nil
	case p.Type == ir.ChartHistogram:
		return synthesizeHistogram(p), nil
	case p.Type == ir.ChartPie:
		return synthesizePie(p), nil
	default:
		return "", fmt.Errorf("query: cannot synthesize a query for chart type %s", p.Type)
	}
}

// synthesizeXY builds the query for line/bar/scatter plots: a SELECT list
// over whichever of x/y/split_by/color_by are present (aggregated axes
// wrapped in their function), an optional WHERE, a GROUP BY derived from
// whichever axis did *not* take the aggregation (plus split_by, never
// color_by), and an ORDER BY that puts split_by first so each split value's
// rows stay contiguous.
func synthesizeXY(p ir.Plot) string {
	type namedAxis struct {
		alias string
		axis  *ir.Axis
	}
	axes := []namedAxis{
		{"x", p.Axes.X},
		{"y", p.Axes.Y},
		{"split_by", p.Axes.SplitBy},
		{"color_by", p.Axes.ColorBy},
	}

	var selectFields []string
	for _, na := range axes {
		if na.axis == nil {
			continue
		}
		field := fieldExpr(na.axis)
		if na.axis.HasAgg() {
			selectFields = append(selectFields, fmt.Sprintf("%s(%s) AS %s", na.axis.Agg, field, na.alias))
		} else {
			selectFields = append(selectFields, fmt.Sprintf("%s AS %s", field, na.alias))
		}
	}

	var groupAxis *ir.Axis
	switch {
	case p.Axes.X != nil && p.Axes.X.HasAgg():
		groupAxis = p.Axes.Y
	case p.Axes.Y != nil && p.Axes.Y.HasAgg():
		groupAxis = p.Axes.X
	}

	var groupFields []string
	if groupAxis != nil {
		groupFields = append(groupFields, fieldExpr(groupAxis))
		if p.Axes.SplitBy != nil {
			groupFields = append(groupFields, fieldExpr(p.Axes.SplitBy))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(selectFields, ", "), p.Data)
	if p.HasFilter() {
		fmt.Fprintf(&b, " WHERE %s", p.Filter)
	}
	if groupAxis != nil {
		fmt.Fprintf(&b, " GROUP BY %s", strings.Join(groupFields, ", "))
	}

	var sortAxis, sortAlias string
	switch {
	case p.Axes.X != nil && p.Axes.X.HasSort():
		sortAxis, sortAlias = p.Axes.X.Sort.String(), "x"
	case p.Axes.Y != nil && p.Axes.Y.HasSort():
		sortAxis, sortAlias = p.Axes.Y.Sort.String(), "y"
	}
	if sortAxis != "" {
		var orderFields []string
		if p.Axes.SplitBy != nil {
			orderFields = append(orderFields, "split_by")
		}
		orderFields = append(orderFields, sortAlias)
		fmt.Fprintf(&b, " ORDER BY %s %s", strings.Join(orderFields, ", "), sortAxis)
	}

	return b.String()
}

// synthesizeHistogram builds the query for histogram plots: the single
// present value axis (plus split_by, if any) with no grouping — the
// binning itself happens client-side in the plot specification emitter.
func synthesizeHistogram(p ir.Plot) string {
	axis, alias := p.Axes.X, "x"
	if axis == nil {
		axis, alias = p.Axes.Y, "y"
	}

	selectFields := []string{fmt.Sprintf("%s AS %s", fieldExpr(axis), alias)}
	if p.Axes.SplitBy != nil {
		selectFields = append(selectFields, fmt.Sprintf("%s AS split_by", fieldExpr(p.Axes.SplitBy)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(selectFields, ", "), p.Data)
	if p.HasFilter() {
		fmt.Fprintf(&b, " WHERE %s", p.Filter)
	}
	return b.String()
}

// synthesizePie builds the query for pie charts: a label/value pair grouped
// by the single categorical axis.
func synthesizePie(p ir.Plot) string {
	field := fieldExpr(p.Axes.PieAxis)

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s AS label, COUNT(*) AS value FROM %s", field, p.Data)
	if p.HasFilter() {
		fmt.Fprintf(&b, " WHERE %s", p.Filter)
	}
	fmt.Fprintf(&b, " GROUP BY %s", field)
	return b.String()
}
