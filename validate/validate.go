// Package validate implements the semantic validator (C4): the sixteen
// fixed rules of §4.4, each modeled as a (applicable chart types, predicate,
// message) triple that fires when its predicate evaluates true against a
// plot. All firing rules are collected and joined rather than short
// circuiting on the first failure, matching the spec's "(ok,
// concatenated_messages)" contract.
package validate

import (
	"strings"

	"github.com/timothyrenner/svl/ir"
)

// rule is one entry of the fixed sixteen-rule table.
type rule struct {
	applies func(ir.ChartType) bool
	fires   func(ir.Plot) bool
	message string
}

func isXY(t ir.ChartType) bool          { return t.IsXY() }
func isHistogram(t ir.ChartType) bool   { return t == ir.ChartHistogram }
func isPie(t ir.ChartType) bool         { return t == ir.ChartPie }
func isHistOrPie(t ir.ChartType) bool   { return t == ir.ChartHistogram || t == ir.ChartPie }
func isLineOrBar(t ir.ChartType) bool   { return t == ir.ChartLine || t == ir.ChartBar }

var rules = []rule{
	{ // 1
		applies: isXY,
		fires:   func(p ir.Plot) bool { return p.Axes.X == nil || p.Axes.Y == nil },
		message: "XY plot is missing x or y",
	},
	{ // 2
		applies: isHistogram,
		fires:   func(p ir.Plot) bool { return p.HasStep && p.HasBins },
		message: "histogram declares both step and bins",
	},
	{ // 3
		applies: isXY,
		fires: func(p ir.Plot) bool {
			return p.Axes.X != nil && p.Axes.Y != nil && p.Axes.X.HasAgg() && p.Axes.Y.HasAgg()
		},
		message: "XY plot has agg on both x and y",
	},
	{ // 4
		applies: isHistOrPie,
		fires: func(p ir.Plot) bool {
			return anyAxis(p, func(a *ir.Axis) bool { return a.HasAgg() })
		},
		message: "histogram or pie declares agg on an axis",
	},
	{ // 5
		applies: isHistOrPie,
		fires: func(p ir.Plot) bool {
			return anyAxis(p, func(a *ir.Axis) bool { return a.HasTemporal() })
		},
		message: "histogram or pie declares temporal on an axis",
	},
	{ // 6
		applies: isHistogram,
		fires:   func(p ir.Plot) bool { return p.Axes.X != nil && p.Axes.Y != nil },
		message: "histogram declares both x and y",
	},
	{ // 7
		applies: isHistogram,
		fires:   func(p ir.Plot) bool { return p.Axes.X == nil && p.Axes.Y == nil },
		message: "histogram declares neither x nor y",
	},
	{ // 8
		applies: isPie,
		fires:   func(p ir.Plot) bool { return p.Axes.PieAxis == nil },
		message: "pie lacks axis",
	},
	{ // 9
		applies: isLineOrBar,
		fires: func(p ir.Plot) bool {
			return p.Axes.X != nil && p.Axes.Y != nil && p.Axes.X.HasSort() && p.Axes.Y.HasSort()
		},
		message: "line or bar declares sort on both x and y",
	},
	{ // 10
		applies: isPie,
		fires:   func(p ir.Plot) bool { return p.HasHole && (p.Hole < 0 || p.Hole > 1) },
		message: "pie hole is outside [0, 1]",
	},
	{ // 11
		applies: isHistogram,
		fires:   func(p ir.Plot) bool { return p.HasStep && p.Step <= 0 },
		message: "histogram step is not positive",
	},
	{ // 12
		applies: isHistogram,
		fires:   func(p ir.Plot) bool { return p.HasBins && p.Bins <= 0 },
		message: "histogram bins is not positive",
	},
	{ // 13
		applies: isHistOrPie,
		fires:   func(p ir.Plot) bool { return p.Axes.ColorBy != nil },
		message: "histogram or pie declares color_by",
	},
	{ // 14
		applies: isPie,
		fires:   func(p ir.Plot) bool { return p.Axes.SplitBy != nil },
		message: "pie declares split_by",
	},
	{ // 15
		applies: isXY,
		fires: func(p ir.Plot) bool {
			return p.Axes.SplitBy != nil && p.Axes.ColorBy != nil
		},
		message: "line, bar, or scatter declares both split_by and color_by",
	},
	{ // 16
		applies: isXY,
		fires: func(p ir.Plot) bool {
			xyAgg := (p.Axes.X != nil && p.Axes.X.HasAgg()) || (p.Axes.Y != nil && p.Axes.Y.HasAgg())
			return xyAgg && p.Axes.ColorBy != nil && !p.Axes.ColorBy.HasAgg()
		},
		message: "XY plot aggregates x or y but color_by has no agg",
	},
}

func anyAxis(p ir.Plot, pred func(*ir.Axis) bool) bool {
	for _, a := range []*ir.Axis{p.Axes.X, p.Axes.Y, p.Axes.SplitBy, p.Axes.ColorBy, p.Axes.PieAxis} {
		if a != nil && pred(a) {
			return true
		}
	}
	return false
}

// Plot runs all sixteen rules applicable to p.Type against p and reports
// whether it is valid, plus the "; "-joined messages of every rule that
// fired (empty when ok is true).
func Plot(p ir.Plot) (ok bool, messages string) {
	var fired []string
	for _, r := range rules {
		if !r.applies(p.Type) {
			continue
		}
		if r.fires(p) {
			fired = append(fired, r.message)
		}
	}
	if len(fired) == 0 {
		return true, ""
	}
	return false, strings.Join(fired, "; ")
}
