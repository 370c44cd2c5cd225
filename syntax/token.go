// Package syntax implements the grammar, lexer and parser (C1) together with
// the AST-to-IR fold (C2) and the parse-failure error classifier (C3).
//
// The lexer produces a flat token stream; the parser is a hand-written
// recursive-descent reader that folds directly into ir.Visualization as it
// goes, following the bottom-up fold contracts of C2 (datasets merge into a
// mapping, chart rules inject a type tag and merge their children, temporal/
// aggregation/sort tokens uppercase, transform/filter/title/label/color_scale
// strip their enclosing quotes while preserving case). Keeping C1 and C2 in
// one pass avoids materializing an intermediate concrete tree that nothing
// else in this module consumes.
package syntax

import "github.com/timothyrenner/svl/location"

// TokenKind classifies a lexeme. Keywords are not their own kind: they lex
// as Ident and the parser compares the upper-cased text against the fixed
// keyword set, mirroring the case-insensitive keyword folding C2 performs
// on temporal/aggregation/sort values.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenString
	TokenNumber
	TokenLParen
	TokenRParen
)

// String renders the token kind for diagnostics.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "identifier"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	default:
		return "unknown"
	}
}

// Token is a single lexeme with its source span. Text holds the raw
// original-case lexeme for Ident/Number; for String it holds the literal
// with its enclosing quotes still attached (ConvertString strips them).
type Token struct {
	Kind TokenKind
	Text string
	Span location.Span
}

// keyword set from the grammar in §4.1. Keys are always upper-cased.
var keywords = map[string]bool{
	"DATASETS": true, "SQL": true, "LINE": true, "BAR": true, "SCATTER": true,
	"HISTOGRAM": true, "PIE": true, "CONCAT": true, "X": true, "Y": true,
	"AXIS": true, "BY": true, "COUNT": true, "MIN": true, "MAX": true,
	"AVG": true, "YEAR": true, "MONTH": true, "DAY": true, "HOUR": true,
	"MINUTE": true, "SECOND": true, "STEP": true, "BINS": true, "HOLE": true,
	"LABEL": true, "TITLE": true, "FILTER": true, "SPLIT": true,
	"COLOR": true, "TRANSFORM": true, "SORT": true, "ASC": true, "DESC": true,
}

// isKeyword reports whether upper is one of the reserved words in §4.1.
func isKeyword(upper string) bool {
	return keywords[upper]
}
