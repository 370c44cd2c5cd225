package lsp

import (
	"fmt"
	"log/slog"
	"time"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/timothyrenner/svl/diag"
	"github.com/timothyrenner/svl/ir"
	"github.com/timothyrenner/svl/layout"
	"github.com/timothyrenner/svl/location"
	"github.com/timothyrenner/svl/syntax"
	"github.com/timothyrenner/svl/validate"
)

// Snapshot is an immutable analysis result for one open .svl document. SVL
// source is single-file (no import graph), so a snapshot only ever covers
// the document it was computed from.
type Snapshot struct {
	CreatedAt time.Time
	URI       string
	Version   int

	// Visualization is the parsed program, or the zero value if parsing
	// failed before C1/C2 could produce one.
	Visualization ir.Visualization
	Parsed        bool

	Diagnostics []protocol.Diagnostic
}

// Analyzer runs the compiler's parse and validate passes (C1-C4) against
// in-memory document text, the same passes Compile runs against a file on
// disk.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates a new analyzer. If logger is nil, slog.Default() is used.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger.With(slog.String("component", "analyzer"))}
}

// Analyze parses and validates text and returns a snapshot of diagnostics.
// It never returns an error: a parse failure is reported as a diagnostic,
// not a Go error, since the LSP server publishes findings rather than
// aborting on them.
func (a *Analyzer) Analyze(uri string, version int, text string) *Snapshot {
	sourceID := location.NewSourceID(uri)

	snap := &Snapshot{CreatedAt: time.Now(), URI: uri, Version: version}

	vis, err := syntax.Parse(sourceID, text)
	if err != nil {
		parseErr, ok := err.(*syntax.ParseError)
		if !ok {
			a.logger.Warn("unexpected parse error type", slog.String("uri", uri), slog.String("error", err.Error()))
			snap.Diagnostics = append(snap.Diagnostics, spanlessDiagnostic(diag.E_SVL_SYNTAX, err.Error()))
			return snap
		}
		snap.Diagnostics = append(snap.Diagnostics, parseErrorDiagnostic(parseErr))
		return snap
	}

	snap.Visualization = vis
	snap.Parsed = true

	for _, pp := range layout.Plan(vis.Layout) {
		if _, ok := vis.Datasets[pp.Plot.Data]; !ok {
			snap.Diagnostics = append(snap.Diagnostics, spanlessDiagnostic(
				diag.E_SVL_MISSING_DATASET,
				fmt.Sprintf("plot references unknown dataset %q", pp.Plot.Data),
			))
			continue
		}
		if ok, msg := validate.Plot(pp.Plot); !ok {
			snap.Diagnostics = append(snap.Diagnostics, spanlessDiagnostic(diag.E_SVL_PLOT, msg))
		}
	}

	a.logger.Debug("analysis complete",
		slog.String("uri", uri),
		slog.Int("diagnostics", len(snap.Diagnostics)),
	)
	return snap
}

// parseErrorDiagnostic converts a syntax.ParseError, which carries a real
// source span, into an LSP diagnostic at that span.
func parseErrorDiagnostic(err *syntax.ParseError) protocol.Diagnostic {
	code := syntax.Classify(err).String()
	severity := protocol.DiagnosticSeverityError
	rng := spanToRange(err.Span)
	return protocol.Diagnostic{
		Range:    rng,
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: code},
		Source:   strPtr("svl"),
		Message:  err.Error(),
	}
}

// spanlessDiagnostic builds a diagnostic for checks (C4's plot/dataset
// validation) that have no source span of their own, anchoring it at the
// document start so it still surfaces in the editor's Problems panel.
func spanlessDiagnostic(code diag.Code, message string) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 0},
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: code.String()},
		Source:   strPtr("svl"),
		Message:  message,
	}
}

// spanToRange converts a location.Span's 1-based line/column positions to
// an LSP Range's 0-based ones. A zero span falls back to the document start.
func spanToRange(span location.Span) protocol.Range {
	if span.IsZero() || !span.Start.IsKnown() {
		return protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 0},
		}
	}
	end := span.End
	if !end.IsKnown() {
		end = span.Start
	}
	return protocol.Range{
		Start: protocol.Position{Line: toUInteger(span.Start.Line - 1), Character: toUInteger(span.Start.Column - 1)},
		End:   protocol.Position{Line: toUInteger(end.Line - 1), Character: toUInteger(end.Column - 1)},
	}
}

func strPtr(s string) *string { return &s }

// toUInteger safely converts an int to protocol.UInteger (uint32). Negative
// values are clamped to 0.
func toUInteger(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) //nolint:gosec // clamped to non-negative
}
