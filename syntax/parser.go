package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/timothyrenner/svl/internal/textlit"
	"github.com/timothyrenner/svl/ir"
	"github.com/timothyrenner/svl/location"
)

// chartKeywords names the five chart-type leading keywords.
var chartKeywords = map[string]ir.ChartType{
	"LINE":      ir.ChartLine,
	"BAR":       ir.ChartBar,
	"SCATTER":   ir.ChartScatter,
	"HISTOGRAM": ir.ChartHistogram,
	"PIE":       ir.ChartPie,
}

// clauseKeywords names the chart-body declaration keywords.
var clauseKeywords = map[string]bool{
	"X": true, "Y": true, "AXIS": true, "SPLIT": true, "COLOR": true,
	"TITLE": true, "FILTER": true, "STEP": true, "BINS": true, "HOLE": true,
}

// Parse lexes and parses src into a Visualization, folding C1's concrete
// productions directly into C2's plot IR as each rule completes.
func Parse(sourceID location.SourceID, src string) (ir.Visualization, error) {
	tokens, err := Lex(sourceID, src)
	if err != nil {
		if le, ok := err.(*lexError); ok {
			return ir.Visualization{}, newParseError(reasonGeneric, le.span, le.msg, le.msg)
		}
		return ir.Visualization{}, err
	}
	p := &parser{tokens: tokens, src: src}
	return p.parseProgram()
}

type parser struct {
	tokens []Token
	pos    int
	src    string
}

func (p *parser) cur() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) upper() string {
	return strings.ToUpper(p.cur().Text)
}

func (p *parser) atKeyword(kw string) bool {
	return p.cur().Kind == TokenIdent && p.upper() == kw
}

// context builds the minimal surrounding-snippet diagnostic text: the
// offending token's own text, or "end of input" at EOF.
func (p *parser) context() string {
	t := p.cur()
	if t.Kind == TokenEOF {
		return "end of input"
	}
	return t.Text
}

func (p *parser) errf(r reason, format string, args ...any) *ParseError {
	msg := fmt.Sprintf(format, args...)
	return newParseError(r, p.cur().Span, p.context(), msg)
}

func (p *parser) parseProgram() (ir.Visualization, error) {
	datasets := map[string]ir.DatasetSource{}
	if p.atKeyword("DATASETS") {
		if err := p.parseDatasets(datasets); err != nil {
			return ir.Visualization{}, err
		}
	}

	var items []ir.LayoutNode
	for p.cur().Kind != TokenEOF {
		item, err := p.parseItem()
		if err != nil {
			return ir.Visualization{}, err
		}
		items = append(items, item)
	}

	return ir.Visualization{
		Datasets: datasets,
		Layout:   ir.NewVCat(items...),
	}, nil
}

func (p *parser) parseDatasets(datasets map[string]ir.DatasetSource) error {
	p.advance() // DATASETS
	for p.cur().Kind == TokenIdent && !isKeyword(p.upper()) {
		name := p.advance().Text
		if p.atKeyword("SQL") {
			p.advance()
			if p.cur().Kind != TokenString {
				return p.errf(reasonMissingValue, "dataset %q: expected SQL text after SQL", name)
			}
			sqlText, err := p.unquote()
			if err != nil {
				return err
			}
			datasets[name] = ir.NewSQLDataset(sqlText)
			continue
		}
		if p.cur().Kind != TokenString {
			return p.errf(reasonMissingValue, "dataset %q: expected a file path string", name)
		}
		path, err := p.unquote()
		if err != nil {
			return err
		}
		datasets[name] = ir.NewFileDataset(path)
	}
	return nil
}

// parseItem parses one top-level or nested layout element: a CONCAT(...)
// group (HCat), a bare (...) group (VCat), or a single chart (Leaf).
func (p *parser) parseItem() (ir.LayoutNode, error) {
	switch {
	case p.atKeyword("CONCAT"):
		p.advance()
		children, err := p.parseParenGroup()
		if err != nil {
			return ir.LayoutNode{}, err
		}
		return ir.NewHCat(children...), nil
	case p.cur().Kind == TokenLParen:
		children, err := p.parseParenGroup()
		if err != nil {
			return ir.LayoutNode{}, err
		}
		return ir.NewVCat(children...), nil
	case p.cur().Kind == TokenIdent && isChartKeyword(p.upper()):
		plot, err := p.parseChart()
		if err != nil {
			return ir.LayoutNode{}, err
		}
		return ir.NewLeaf(plot), nil
	default:
		return ir.LayoutNode{}, p.errf(reasonUnsupportedDeclaration,
			"unexpected token %q: expected a chart type, CONCAT, or (", p.context())
	}
}

func isChartKeyword(upper string) bool {
	_, ok := chartKeywords[upper]
	return ok
}

func (p *parser) parseParenGroup() ([]ir.LayoutNode, error) {
	if p.cur().Kind != TokenLParen {
		return nil, p.errf(reasonMissingParen, "expected ( to open a group")
	}
	p.advance()
	var items []ir.LayoutNode
	for p.cur().Kind != TokenRParen {
		if p.cur().Kind == TokenEOF {
			return nil, p.errf(reasonMissingParen, "unterminated group: missing )")
		}
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	p.advance() // )
	return items, nil
}

func (p *parser) parseChart() (ir.Plot, error) {
	ct := chartKeywords[p.upper()]
	p.advance()

	if p.cur().Kind != TokenIdent {
		return ir.Plot{}, p.errf(reasonMissingValue, "expected a dataset name after %s", ct)
	}
	data := p.advance().Text

	plot := ir.Plot{Type: ct, Data: data}

	for p.cur().Kind == TokenIdent && clauseKeywords[p.upper()] {
		if err := p.parseClause(&plot); err != nil {
			return ir.Plot{}, err
		}
	}
	return plot, nil
}

func (p *parser) parseClause(plot *ir.Plot) error {
	switch p.upper() {
	case "X":
		p.advance()
		axis, err := p.parseAxis(false)
		if err != nil {
			return err
		}
		plot.Axes.X = axis
	case "Y":
		p.advance()
		axis, err := p.parseAxis(false)
		if err != nil {
			return err
		}
		plot.Axes.Y = axis
	case "AXIS":
		p.advance()
		axis, err := p.parseAxis(false)
		if err != nil {
			return err
		}
		plot.Axes.PieAxis = axis
	case "SPLIT":
		p.advance()
		if !p.atKeyword("BY") {
			return p.errf(reasonMissingValue, "expected BY after SPLIT")
		}
		p.advance()
		axis, err := p.parseAxis(false)
		if err != nil {
			return err
		}
		plot.Axes.SplitBy = axis
	case "COLOR":
		p.advance()
		if !p.atKeyword("BY") {
			return p.errf(reasonMissingValue, "expected BY after COLOR")
		}
		p.advance()
		axis, err := p.parseAxis(true)
		if err != nil {
			return err
		}
		plot.Axes.ColorBy = axis
	case "TITLE":
		p.advance()
		s, err := p.unquote()
		if err != nil {
			return err
		}
		plot.Title = s
	case "FILTER":
		p.advance()
		s, err := p.unquote()
		if err != nil {
			return err
		}
		plot.Filter = s
	case "STEP":
		p.advance()
		v, err := p.number()
		if err != nil {
			return err
		}
		plot.Step = v
		plot.HasStep = true
	case "BINS":
		p.advance()
		v, err := p.integer()
		if err != nil {
			return err
		}
		plot.Bins = v
		plot.HasBins = true
	case "HOLE":
		p.advance()
		v, err := p.number()
		if err != nil {
			return err
		}
		plot.Hole = v
		plot.HasHole = true
	}
	return nil
}

// parseAxis reads an axis's field/transform head followed by any of its
// optional modifiers: BY <temporal>, an aggregation keyword, a bare color
// scale string (only when allowColorScale), LABEL <string>, SORT <dir>.
func (p *parser) parseAxis(allowColorScale bool) (*ir.Axis, error) {
	var axis ir.Axis
	switch {
	case p.atKeyword("TRANSFORM"):
		p.advance()
		s, err := p.unquote()
		if err != nil {
			return nil, err
		}
		axis = ir.NewTransformAxis(s)
	case p.cur().Kind == TokenIdent && !isKeyword(p.upper()):
		axis = ir.NewFieldAxis(p.advance().Text)
	default:
		return nil, p.errf(reasonMissingValue, "expected a field name or TRANSFORM")
	}

loop:
	for {
		switch {
		case p.atKeyword("BY"):
			p.advance()
			if p.cur().Kind != TokenIdent {
				return nil, p.errf(reasonInvalidTimeUnit, "expected a time unit after BY")
			}
			unit := p.upper()
			t, ok := ir.ParseTemporal(unit)
			if !ok {
				return nil, p.errf(reasonInvalidTimeUnit, "%q is not a valid time unit", p.cur().Text)
			}
			p.advance()
			axis.Temporal = t
		case p.cur().Kind == TokenIdent && isAggKeyword(p.upper()):
			agg, _ := ir.ParseAggregation(p.upper())
			axis.Agg = agg
			p.advance()
		case p.atKeyword("LABEL"):
			p.advance()
			s, err := p.unquote()
			if err != nil {
				return nil, err
			}
			axis.Label = s
		case p.atKeyword("SORT"):
			p.advance()
			if p.cur().Kind != TokenIdent {
				return nil, p.errf(reasonInvalidSort, "expected ASC or DESC after SORT")
			}
			dir, ok := ir.ParseSort(p.upper())
			if !ok {
				return nil, p.errf(reasonInvalidSort, "%q is not a valid sort direction", p.cur().Text)
			}
			p.advance()
			axis.Sort = dir
		case allowColorScale && p.cur().Kind == TokenString && axis.ColorScale == "":
			s, err := p.unquote()
			if err != nil {
				return nil, err
			}
			axis.ColorScale = s
		default:
			break loop
		}
	}
	return &axis, nil
}

func isAggKeyword(upper string) bool {
	_, ok := ir.ParseAggregation(upper)
	return ok
}

func (p *parser) unquote() (string, error) {
	if p.cur().Kind != TokenString {
		return "", p.errf(reasonMissingValue, "expected a string literal, found %q", p.context())
	}
	raw := p.advance().Text
	s, err := textlit.ConvertString(raw)
	if err != nil {
		return "", p.errf(reasonTypeError, "invalid string literal %q: %v", raw, err)
	}
	return s, nil
}

func (p *parser) number() (float64, error) {
	if p.cur().Kind != TokenNumber {
		return 0, p.errf(reasonMissingValue, "expected a number, found %q", p.context())
	}
	raw := p.advance().Text
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, p.errf(reasonTypeError, "invalid number %q", raw)
	}
	return v, nil
}

func (p *parser) integer() (int, error) {
	if p.cur().Kind != TokenNumber {
		return 0, p.errf(reasonMissingValue, "expected an integer, found %q", p.context())
	}
	raw := p.cur().Text
	if strings.Contains(raw, ".") {
		p.advance()
		return 0, p.errf(reasonTypeError, "expected an integer, found decimal %q", raw)
	}
	p.advance()
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, p.errf(reasonTypeError, "invalid integer %q", raw)
	}
	return v, nil
}
