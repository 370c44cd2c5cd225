// Package engine implements the pipeline driver (C9): it threads one SVL
// source through parsing, validation, layout, dataset materialization,
// query synthesis and execution, result shaping, and plot emission, in the
// exact sequence original_source/svl/compiler/compiler.py's svl() function
// drives, raising the matching diagnostic code at whichever stage fails.
package engine

import (
	"fmt"
	"os"
	"strings"

	"github.com/timothyrenner/svl/diag"
	"github.com/timothyrenner/svl/ir"
	"github.com/timothyrenner/svl/layout"
	"github.com/timothyrenner/svl/location"
	"github.com/timothyrenner/svl/query"
	"github.com/timothyrenner/svl/render"
	"github.com/timothyrenner/svl/shape"
	"github.com/timothyrenner/svl/syntax"
	"github.com/timothyrenner/svl/validate"
)

// Options configures one Compile run, mirroring cli.py's flags.
type Options struct {
	// Backend selects the render target. Only "plotly" is implemented;
	// "vega" is accepted and always fails with E_SVL_NOT_IMPLEMENTED.
	Backend string
	// Datasets are "name=path" overrides merged into the parsed AST's
	// dataset map, overriding or adding entries before file-existence
	// checks run.
	Datasets []string
	// OfflineJS embeds the plotting library instead of linking the CDN.
	OfflineJS bool
	// Debug short-circuits to a pretty-printed parse tree before any other
	// stage runs, including dataset-override validation.
	Debug bool
}

// Compile runs the full pipeline over src and returns the rendered HTML
// document (or, when Options.Debug is set, a pretty-printed parse tree).
func Compile(sourceID location.SourceID, src string, opts Options) (string, error) {
	if opts.Debug {
		vis, err := syntax.Parse(sourceID, src)
		if err != nil {
			return "", syntaxError(err)
		}
		return prettyPrint(vis), nil
	}

	overrides, err := parseDatasetOverrides(opts.Datasets)
	if err != nil {
		return "", err
	}

	vis, err := syntax.Parse(sourceID, src)
	if err != nil {
		return "", syntaxError(err)
	}
	mergeOverrides(&vis, overrides)

	if len(vis.FileDatasets()) == 0 {
		return "", newError(diag.E_SVL_MISSING_DATASET, "at least one file dataset is required")
	}

	if err := checkFilesExist(vis.Datasets); err != nil {
		return "", err
	}

	plots := layout.Plan(vis.Layout)
	numRows, numColumns := layout.GridExtent(plots)

	for _, pp := range plots {
		if _, ok := vis.Datasets[pp.Plot.Data]; !ok {
			return "", newError(diag.E_SVL_MISSING_DATASET,
				"dataset %s is not in provided datasets %s", pp.Plot.Data, datasetNames(vis.Datasets))
		}
		if ok, msg := validate.Plot(pp.Plot); !ok {
			return "", newError(diag.E_SVL_PLOT, "%s", msg)
		}
	}

	sess, err := materialize(vis.Datasets)
	if err != nil {
		return "", err
	}

	plots_, err := queryAndShape(sess, plots)
	if err != nil {
		return "", err
	}

	switch opts.Backend {
	case "plotly", "":
		return renderDocument(plots_, numRows, numColumns, opts)
	default:
		return "", newError(diag.E_SVL_NOT_IMPLEMENTED, "unable to use %s as a backend", opts.Backend)
	}
}

func syntaxError(err error) error {
	if pe, ok := err.(*syntax.ParseError); ok {
		return newError(syntax.Classify(pe), "%s", pe.Error())
	}
	return newError(diag.E_SVL_SYNTAX, "%s", err.Error())
}

// parseDatasetOverrides validates the "name=path" form of each --dataset
// flag and returns them as a name-to-path map, per _extract_additional_datasets.
func parseDatasetOverrides(specs []string) (map[string]string, error) {
	overrides := make(map[string]string, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, "=")
		if len(parts) != 2 {
			return nil, &DatasetSpecError{Spec: spec}
		}
		overrides[parts[0]] = parts[1]
	}
	return overrides, nil
}

func mergeOverrides(vis *ir.Visualization, overrides map[string]string) {
	if vis.Datasets == nil {
		vis.Datasets = map[string]ir.DatasetSource{}
	}
	for name, path := range overrides {
		vis.Datasets[name] = ir.NewFileDataset(path)
	}
}

func checkFilesExist(datasets map[string]ir.DatasetSource) error {
	for _, ds := range datasets {
		if ds.Kind != ir.DatasetFile {
			continue
		}
		if _, err := os.Stat(ds.Path); err != nil {
			return newError(diag.E_SVL_MISSING_FILE, "file %s does not exist", ds.Path)
		}
	}
	return nil
}

func datasetNames(datasets map[string]ir.DatasetSource) string {
	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// emittedPlot pairs one positioned plot's emitted spec with its row/column
// grid bounds, ready for the document template.
type emittedPlot = render.Plot

// queryAndShape runs C6/C7/C8 for every positioned plot: synthesize SQL,
// execute it, reshape the rows, then emit the plotly trace/layout spec.
func queryAndShape(sess *session, plots []ir.PositionedPlot) ([]emittedPlot, error) {
	out := make([]emittedPlot, 0, len(plots))
	for _, pp := range plots {
		sqlText, err := query.Synthesize(pp.Plot)
		if err != nil {
			return nil, newError(diag.E_SVL_DATA_PROCESSING, "%s", err)
		}

		rows, err := sess.run(sqlText)
		if err != nil {
			return nil, newError(diag.E_SVL_DATA_PROCESSING, "error processing plot data: %s", err)
		}

		shaped, err := shape.Shape(pp.Plot, rows)
		if err != nil {
			return nil, newError(diag.E_SVL_DATA_PROCESSING, "error processing plot data: %s", err)
		}

		spec, err := render.Emit(pp, shaped)
		if err != nil {
			return nil, newError(diag.E_SVL_DATA_PROCESSING, "%s", err)
		}
		out = append(out, spec)
	}
	return out, nil
}

func renderDocument(plots []emittedPlot, numRows, numColumns int, opts Options) (string, error) {
	doc := render.Document{
		NumRows:    numRows,
		NumColumns: numColumns,
		Plots:      plots,
		Options:    render.Options{OfflineJS: opts.OfflineJS},
	}
	html, err := render.RenderHTML(doc)
	if err != nil {
		return "", fmt.Errorf("engine: %w", err)
	}
	return html, nil
}
