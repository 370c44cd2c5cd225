// Package layout implements the grid layout planner (C5): it converts a
// recursive tree of horizontal/vertical concatenations into absolute,
// half-open grid coordinates while preserving the relative proportions
// implied by the source tree's nesting.
//
// The algorithm is grounded in the original svl/layout.py tree_to_grid pass:
// each HCat/VCat computes a least-common-multiple "unit" across its
// children's breadths along the cat axis, stretches each child to that
// unit, and shifts children along the cat axis by their cumulative breadth.
package layout

import "github.com/timothyrenner/svl/ir"

// Plan assigns grid intervals to every leaf of root and returns them in
// source order (left-to-right / top-to-bottom, depth-first).
func Plan(root ir.LayoutNode) []ir.PositionedPlot {
	return planNode(root)
}

// GridExtent returns the total number of rows and columns spanned by a set
// of positioned plots, i.e. the maximum row_end and column_end across all
// of them. An empty slice has zero extent.
func GridExtent(plots []ir.PositionedPlot) (rows, columns int) {
	for _, p := range plots {
		if p.Row.End > rows {
			rows = p.Row.End
		}
		if p.Column.End > columns {
			columns = p.Column.End
		}
	}
	return rows, columns
}

func planNode(n ir.LayoutNode) []ir.PositionedPlot {
	switch n.Kind {
	case ir.LayoutLeaf:
		if n.Leaf == nil {
			return nil
		}
		return []ir.PositionedPlot{{
			Plot:   *n.Leaf,
			Row:    ir.Interval{Start: 0, End: 1},
			Column: ir.Interval{Start: 0, End: 1},
		}}
	case ir.LayoutHCat:
		return planCat(n.Children, true)
	case ir.LayoutVCat:
		return planCat(n.Children, false)
	default:
		return nil
	}
}

// planCat implements both HCat (horizontal=true) and VCat (horizontal=false)
// by swapping which axis is the "cat axis" (the one children are stretched
// to a common unit along and then shifted along) versus the "cross axis"
// (stretched to a common unit but never shifted).
func planCat(children []ir.LayoutNode, horizontal bool) []ir.PositionedPlot {
	childPlots := make([][]ir.PositionedPlot, len(children))
	catBreadth := make([]int, len(children))
	crossBreadth := make([]int, len(children))

	for i, child := range children {
		plots := planNode(child)
		childPlots[i] = plots
		rows, cols := GridExtent(plots)
		if horizontal {
			// HCat: columns are the cat axis, rows the cross axis.
			catBreadth[i] = cols
			crossBreadth[i] = rows
		} else {
			// VCat: rows are the cat axis, columns the cross axis.
			catBreadth[i] = rows
			crossBreadth[i] = cols
		}
	}

	catUnit := lcmAll(catBreadth)
	crossUnit := lcmAll(crossBreadth)

	var out []ir.PositionedPlot
	catShift := 0
	for i, plots := range childPlots {
		catStretch := 1
		if catBreadth[i] > 0 {
			catStretch = catUnit / catBreadth[i]
		}
		crossStretch := 1
		if crossBreadth[i] > 0 {
			crossStretch = crossUnit / crossBreadth[i]
		}

		for _, p := range plots {
			shifted := p
			if horizontal {
				shifted.Column = stretch(p.Column, catStretch, catShift)
				shifted.Row = stretch(p.Row, crossStretch, 0)
			} else {
				shifted.Row = stretch(p.Row, catStretch, catShift)
				shifted.Column = stretch(p.Column, crossStretch, 0)
			}
			out = append(out, shifted)
		}

		catShift += catStretch * catBreadth[i]
	}

	return out
}

func stretch(iv ir.Interval, factor, shift int) ir.Interval {
	return ir.Interval{
		Start: factor*iv.Start + shift,
		End:   factor*iv.End + shift,
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	g := gcd(a, b)
	return a / g * b
}

func lcmAll(values []int) int {
	if len(values) == 0 {
		return 1
	}
	result := values[0]
	for _, v := range values[1:] {
		result = lcm(result, v)
	}
	if result == 0 {
		return 1
	}
	return result
}
