package syntax

import (
	"fmt"
	"strings"

	"github.com/timothyrenner/svl/location"
)

// lexError is returned by Lex for malformed input (an unterminated string or
// a byte the grammar has no token for). The parser's error classifier (C3)
// treats it the same as any other parse failure.
type lexError struct {
	msg  string
	span location.Span
}

func (e *lexError) Error() string { return e.msg }

// Lex tokenizes src into a flat stream terminated by a TokenEOF. Source
// positions are 1-indexed lines and columns, matching location.Range.
func Lex(sourceID location.SourceID, src string) ([]Token, error) {
	l := &lexer{sourceID: sourceID, src: src, line: 1, col: 1}
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

type lexer struct {
	sourceID location.SourceID
	src      string
	pos      int
	line     int
	col      int
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.src) {
		c := l.peek()
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			l.advance()
			continue
		}
		if c == '-' && l.peekAt(1) == '-' {
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		break
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (l *lexer) next() (Token, error) {
	l.skipWhitespaceAndComments()
	if l.pos >= len(l.src) {
		p := location.Point(l.sourceID, l.line, l.col)
		return Token{Kind: TokenEOF, Span: p}, nil
	}

	startLine, startCol := l.line, l.col
	c := l.peek()

	switch {
	case c == '(':
		l.advance()
		return Token{Kind: TokenLParen, Text: "(", Span: location.Range(l.sourceID, startLine, startCol, l.line, l.col)}, nil
	case c == ')':
		l.advance()
		return Token{Kind: TokenRParen, Text: ")", Span: location.Range(l.sourceID, startLine, startCol, l.line, l.col)}, nil
	case c == '"' || c == '\'':
		return l.lexString(startLine, startCol)
	case isDigit(c):
		return l.lexNumber(startLine, startCol)
	case isIdentStart(c):
		return l.lexIdent(startLine, startCol)
	default:
		return Token{}, &lexError{
			msg:  fmt.Sprintf("unexpected character %q", c),
			span: location.Range(l.sourceID, startLine, startCol, l.line, l.col+1),
		}
	}
}

func (l *lexer) lexString(startLine, startCol int) (Token, error) {
	quote := l.advance()
	var sb strings.Builder
	sb.WriteByte(quote)
	for {
		if l.pos >= len(l.src) {
			return Token{}, &lexError{
				msg:  "unterminated string literal",
				span: location.Range(l.sourceID, startLine, startCol, l.line, l.col),
			}
		}
		c := l.peek()
		if c == '\\' && l.peekAt(1) != 0 {
			sb.WriteByte(l.advance())
			sb.WriteByte(l.advance())
			continue
		}
		if c == quote {
			sb.WriteByte(l.advance())
			break
		}
		sb.WriteByte(l.advance())
	}
	return Token{
		Kind: TokenString,
		Text: sb.String(),
		Span: location.Range(l.sourceID, startLine, startCol, l.line, l.col),
	}, nil
}

func (l *lexer) lexNumber(startLine, startCol int) (Token, error) {
	var sb strings.Builder
	for l.pos < len(l.src) && isDigit(l.peek()) {
		sb.WriteByte(l.advance())
	}
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		sb.WriteByte(l.advance())
		for l.pos < len(l.src) && isDigit(l.peek()) {
			sb.WriteByte(l.advance())
		}
	}
	return Token{
		Kind: TokenNumber,
		Text: sb.String(),
		Span: location.Range(l.sourceID, startLine, startCol, l.line, l.col),
	}, nil
}

func (l *lexer) lexIdent(startLine, startCol int) (Token, error) {
	var sb strings.Builder
	for l.pos < len(l.src) && isIdentCont(l.peek()) {
		sb.WriteByte(l.advance())
	}
	return Token{
		Kind: TokenIdent,
		Text: sb.String(),
		Span: location.Range(l.sourceID, startLine, startCol, l.line, l.col),
	}, nil
}
