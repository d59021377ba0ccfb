package parser

import (
	"strings"

	"github.com/metaphox/dhall-go/ast"
)

// ── Operator precedence ───────────────────────────────────────────────────────

// spelling is one way to write a binary operator.
type spelling struct {
	text  string
	not   string // the operator does not match when text is followed by this
	whsp1 bool   // whitespace after the operator is mandatory
}

// opLevel is one precedence level, loosest first. Every level is
// left-associative.
type opLevel struct {
	op        ast.Operator
	spellings []spelling
}

var opLevels = [...]opLevel{
	{ast.OpEquivalent, []spelling{{text: "==="}, {text: "≡"}}},
	{ast.OpImportAlt, []spelling{{text: "?", whsp1: true}}},
	{ast.OpOr, []spelling{{text: "||"}}},
	{ast.OpPlus, []spelling{{text: "+", whsp1: true}}},
	{ast.OpTextAppend, []spelling{{text: "++"}}},
	{ast.OpListAppend, []spelling{{text: "#"}}},
	{ast.OpAnd, []spelling{{text: "&&"}}},
	{ast.OpCombine, []spelling{{text: `/\`}, {text: "∧"}}},
	{ast.OpPrefer, []spelling{{text: "//", not: `\\`}, {text: "⫽"}}},
	{ast.OpCombineTypes, []spelling{{text: `//\\`}, {text: "⩓"}}},
	{ast.OpTimes, []spelling{{text: "*"}}},
	{ast.OpEqual, []spelling{{text: "==", not: "="}}},
	{ast.OpNotEqual, []spelling{{text: "!="}}},
}

// acceptOperator consumes an operator of the given level and the whitespace
// that must follow it.
func (p *Parser) acceptOperator(level int) bool {
	for _, s := range opLevels[level].spellings {
		if !p.l.HasPrefix(s.text) {
			continue
		}
		if s.not != "" && strings.HasPrefix(p.l.Rest()[len(s.text):], s.not) {
			continue
		}
		p.l.Advance(len(s.text))
		if s.whsp1 {
			return p.l.Whsp1()
		}
		p.l.Whsp()
		return true
	}
	return false
}

// parseOperators parses the operator levels from level upward. seed, when
// non-nil, is the already parsed leftmost application head.
func (p *Parser) parseOperators(level int, seed ast.Expr) (ast.Expr, error) {
	if level == len(opLevels) {
		return p.parseApplication(seed)
	}
	left, err := p.parseOperators(level+1, seed)
	if err != nil {
		return nil, err
	}
	for {
		mark := p.l.Offset()
		p.l.Whsp()
		if !p.acceptOperator(level) {
			p.l.Reset(mark)
			return left, nil
		}
		right, err := p.parseOperators(level+1, nil)
		if err == errNoMatch {
			p.l.Reset(mark)
			return left, nil
		}
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Loc: left.Pos(), Op: opLevels[level].op, Left: left, Right: right}
	}
}

// ── Application ───────────────────────────────────────────────────────────────

// parseApplication parses `first-application *(whsp1 import-expression)`.
func (p *Parser) parseApplication(seed ast.Expr) (ast.Expr, error) {
	fn := seed
	if fn == nil {
		var err error
		if fn, err = p.parseFirstApplication(); err != nil {
			return nil, err
		}
	}
	for {
		mark := p.l.Offset()
		if !p.l.Whsp1() {
			return fn, nil
		}
		arg, err := p.parseImportExpression()
		if err == errNoMatch {
			p.l.Reset(mark)
			return fn, nil
		}
		if err != nil {
			return nil, err
		}
		fn = &ast.App{Loc: fn.Pos(), Fn: fn, Arg: arg}
	}
}

// parseFirstApplication parses the head of an application: merge, Some,
// toMap or an import expression.
func (p *Parser) parseFirstApplication() (ast.Expr, error) {
	start := p.l.Offset()
	switch {
	case p.peekWord("merge"):
		return p.parseMerge(start, false)
	case p.peekWord("toMap"):
		return p.parseToMap(start, false)
	case p.word("Some"):
		defer p.push("Some")()
		if err := p.whsp1(); err != nil {
			return nil, err
		}
		v, err := p.parseImportExpression()
		if err != nil {
			return nil, cut(err)
		}
		return &ast.Some{Loc: p.pos(start), Value: v}, nil
	}
	return p.parseImportExpression()
}

// ── Import, completion and selector expressions ───────────────────────────────

// parseImportExpression parses an import or a completion expression.
func (p *Parser) parseImportExpression() (ast.Expr, error) {
	imp, err := p.parseImport()
	if err != errNoMatch {
		return imp, err
	}
	return p.parseCompletion()
}

// parseCompletion parses `selector [whsp :: whsp selector]`.
func (p *Parser) parseCompletion() (ast.Expr, error) {
	start := p.l.Offset()
	typ, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	mark := p.l.Offset()
	p.l.Whsp()
	if !p.l.Accept("::") {
		p.l.Reset(mark)
		return typ, nil
	}
	p.l.Whsp()
	rec, err := p.parseSelector()
	if err == errNoMatch {
		p.l.Reset(mark)
		return typ, nil
	}
	if err != nil {
		return nil, err
	}
	return &ast.Completion{Loc: p.pos(start), Type: typ, Record: rec}, nil
}

// parseSelector parses a primitive expression followed by any number of
// `.label`, `.{labels}` and `.(type)` selectors.
func (p *Parser) parseSelector() (ast.Expr, error) {
	start := p.l.Offset()
	e, err := p.parsePrimitive()
	if err != nil {
		return nil, err
	}
	for {
		mark := p.l.Offset()
		p.l.Whsp()
		if !p.l.Accept(".") {
			p.l.Reset(mark)
			return e, nil
		}
		p.l.Whsp()
		switch p.l.Peek() {
		case '{':
			labels, err := p.parseProjectionLabels()
			if err != nil {
				return nil, err
			}
			e = &ast.Project{Loc: p.pos(start), Record: e, Labels: labels}
		case '(':
			t, err := p.parseProjectionType()
			if err != nil {
				return nil, err
			}
			e = &ast.ProjectType{Loc: p.pos(start), Record: e, Type: t}
		default:
			name, err := p.parseAnyLabelOrSome()
			if err == errNoMatch {
				p.l.Reset(mark)
				return e, nil
			}
			if err != nil {
				return nil, err
			}
			e = &ast.FieldAccess{Loc: p.pos(start), Record: e, Label: name}
		}
	}
}

// .{ a, b }
func (p *Parser) parseProjectionLabels() ([]string, error) {
	defer p.push("projection")()
	p.l.Accept("{")
	p.l.Whsp()
	if p.l.Accept(",") {
		p.l.Whsp()
	}
	labels := []string{}
	if p.l.Accept("}") {
		return labels, nil
	}
	for {
		name, err := p.parseAnyLabelOrSome()
		if err != nil {
			p.fail(`"}"`)
			return nil, cut(err)
		}
		labels = append(labels, name)
		p.l.Whsp()
		if p.l.Accept("}") {
			return labels, nil
		}
		if err := p.expect(","); err != nil {
			p.fail(`"}"`)
			return nil, err
		}
		p.l.Whsp()
		if p.l.Accept("}") {
			return labels, nil
		}
	}
}

// .( T )
func (p *Parser) parseProjectionType() (ast.Expr, error) {
	defer p.push("projection")()
	p.l.Accept("(")
	p.l.Whsp()
	t, err := p.parseExpression()
	if err != nil {
		return nil, cut(err)
	}
	p.l.Whsp()
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return t, nil
}
