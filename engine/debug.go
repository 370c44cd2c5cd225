package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/timothyrenner/svl/ir"
)

// prettyPrint renders vis as an indented tree, standing in for --debug's
// pretty-printed parse tree: since C1+C2 fold straight into ir.Visualization
// with no separate concrete tree materialized (see package syntax's doc
// comment), the IR itself is what there is to print.
func prettyPrint(vis ir.Visualization) string {
	var b strings.Builder
	fmt.Fprintln(&b, "datasets:")
	names := make([]string, 0, len(vis.Datasets))
	for name := range vis.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ds := vis.Datasets[name]
		if ds.Kind == ir.DatasetFile {
			fmt.Fprintf(&b, "  %s: file %s\n", name, ds.Path)
		} else {
			fmt.Fprintf(&b, "  %s: sql %s\n", name, ds.SQL)
		}
	}
	fmt.Fprintln(&b, "layout:")
	printLayoutNode(&b, vis.Layout, 1)
	return b.String()
}

func printLayoutNode(b *strings.Builder, n ir.LayoutNode, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case ir.LayoutLeaf:
		fmt.Fprintf(b, "%splot %s: %s\n", indent, n.Leaf.Type, n.Leaf.Data)
	case ir.LayoutHCat:
		fmt.Fprintf(b, "%shcat\n", indent)
		for _, child := range n.Children {
			printLayoutNode(b, child, depth+1)
		}
	case ir.LayoutVCat:
		fmt.Fprintf(b, "%svcat\n", indent)
		for _, child := range n.Children {
			printLayoutNode(b, child, depth+1)
		}
	}
}
