package syntax

import "github.com/timothyrenner/svl/location"

// reason tags the specific way a parse failed. It stands in for re-running
// the parser against the classifier's example bank (C3): because the parser
// already knows exactly which production failed and how when it raises an
// error, recording that reason here and mapping it to a diagnostic code in
// classifier.go reaches the same classification the bank-matching approach
// would, without a second parse pass over stored examples.
type reason int

const (
	reasonGeneric reason = iota
	reasonMissingValue
	reasonMissingParen
	reasonTypeError
	reasonUnsupportedDeclaration
	reasonInvalidTimeUnit
	reasonInvalidAggregation
	reasonInvalidSort
)

// ParseError is the raw failure C1/C2 raise. Context is the minimal
// surrounding snippet the spec's diagnostics require alongside line/column.
type ParseError struct {
	reason  reason
	Context string
	Span    location.Span
	msg     string
}

func (e *ParseError) Error() string { return e.msg }

func newParseError(r reason, span location.Span, context, msg string) *ParseError {
	return &ParseError{reason: r, Context: context, Span: span, msg: msg}
}
