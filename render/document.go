package render

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

// plotlyJS is the vendored offline bundle embedded when Options.OfflineJS is
// set, per the supplemented --offline-js behavior of spec.md's original CLI.
//
//go:embed assets/plotly.min.js
var plotlyJS string

const plotlyCDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// Options configures Document rendering: which backend to target (only
// "plotly" is implemented; "vega" is accepted by the CLI and always fails
// with E_SVL_NOT_IMPLEMENTED before reaching here) and whether to embed the
// plotting library's JS instead of linking the CDN build.
type Options struct {
	OfflineJS bool
}

// Document is the fully emitted output: the grid extent and every
// positioned plot's spec, ready to render into one self-contained HTML page.
type Document struct {
	NumRows    int
	NumColumns int
	Plots      []Plot
	Options    Options
}

var pageTemplate = template.Must(template.New("svl").Funcs(template.FuncMap{
	"json": func(v any) (template.JS, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return template.JS(b), nil
	},
}).Parse(pageTemplateSource))

const pageTemplateSource = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>SVL</title>
{{if .Options.OfflineJS}}
<script>{{.PlotlyJS}}</script>
{{else}}
<script src="{{.PlotlyCDN}}"></script>
{{end}}
<style>
  body { margin: 0; }
  #svl-grid {
    display: grid;
    grid-template-rows: repeat({{.NumRows}}, 1fr);
    grid-template-columns: repeat({{.NumColumns}}, 1fr);
    height: 100vh;
  }
  .svl-cell { min-width: 0; min-height: 0; }
</style>
</head>
<body>
<div id="svl-grid">
{{range $i, $plot := .Plots}}
  <div id="svl-plot-{{$i}}" class="svl-cell" style="grid-row: {{$plot.RowStart}} / {{$plot.RowEnd}}; grid-column: {{$plot.ColumnStart}} / {{$plot.ColumnEnd}};"></div>
{{end}}
</div>
<script>
{{range $i, $plot := .Plots}}
Plotly.newPlot(
  "svl-plot-{{$i}}",
  {{json $plot.Data}},
  {{json $plot.Layout}},
  {responsive: true}
);
{{end}}
</script>
</body>
</html>
`

// RenderHTML executes the page template over doc, producing the single
// self-contained HTML document spec.md §1 names as SVL's one deliverable.
func RenderHTML(doc Document) (string, error) {
	var b strings.Builder
	vars := struct {
		Document
		PlotlyJS  string
		PlotlyCDN string
	}{Document: doc, PlotlyJS: plotlyJS, PlotlyCDN: plotlyCDN}
	if err := pageTemplate.Execute(&b, vars); err != nil {
		return "", fmt.Errorf("render: executing page template: %w", err)
	}
	return b.String(), nil
}
