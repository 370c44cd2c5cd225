package syntax

import "github.com/timothyrenner/svl/diag"

// Classify maps a ParseError's reason to its diagnostic code per the error
// taxonomy in §4.3/§7: Missing Value, Missing Paren, Type Error, Unsupported
// Declaration, Invalid Time Unit, Invalid Aggregation, Invalid Sort, falling
// back to the generic syntax code when no more specific reason applies.
func Classify(err *ParseError) diag.Code {
	switch err.reason {
	case reasonMissingValue:
		return diag.E_SVL_MISSING_VALUE
	case reasonMissingParen:
		return diag.E_SVL_MISSING_PAREN
	case reasonTypeError:
		return diag.E_SVL_TYPE
	case reasonUnsupportedDeclaration:
		return diag.E_SVL_UNSUPPORTED_DECLARATION
	case reasonInvalidTimeUnit:
		return diag.E_SVL_INVALID_TIME_UNIT
	case reasonInvalidAggregation:
		return diag.E_SVL_INVALID_AGGREGATION
	case reasonInvalidSort:
		return diag.E_SVL_INVALID_SORT
	default:
		return diag.E_SVL_SYNTAX
	}
}

// ToIssue renders a ParseError as a diagnostic Issue ready for a Collector.
func ToIssue(err *ParseError) diag.Issue {
	return diag.NewIssue(diag.Error, Classify(err), err.Error()).
		WithSpan(err.Span).
		WithDetail("context", err.Context).
		Build()
}
