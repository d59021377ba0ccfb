package parser

import (
	"github.com/metaphox/dhall-go/ast"
)

// ── Expressions ───────────────────────────────────────────────────────────────

// parseExpression parses the `expression` rule: the keyword-led forms,
// empty lists, with-expressions, function types and annotations.
func (p *Parser) parseExpression() (ast.Expr, error) {
	err := p.enter()
	defer p.leave()
	if err != nil {
		return nil, err
	}

	start := p.l.Offset()
	switch {
	case p.l.HasPrefix(`\`) || p.l.HasPrefix("λ"):
		return p.parseLambda(start)
	case p.peekWord("if"):
		return p.parseIf(start)
	case p.peekWord("let"):
		return p.parseLet(start)
	case p.peekWord("forall") || p.l.HasPrefix("∀"):
		return p.parseForall(start)
	case p.peekWord("assert"):
		return p.parseAssert(start)
	case p.peekWord("merge"):
		m, err := p.parseMerge(start, true)
		if err != nil {
			return nil, err
		}
		if m.Annotation != nil {
			return m, nil
		}
		return p.continueOperators(start, m)
	case p.peekWord("toMap"):
		t, err := p.parseToMap(start, true)
		if err != nil {
			return nil, err
		}
		if t.Annotation != nil {
			return t, nil
		}
		return p.continueOperators(start, t)
	case p.l.Peek() == '[':
		if e, ok, err := p.parseEmptyList(start); ok || err != nil {
			return e, err
		}
	}

	var seed ast.Expr
	if !p.peekWord("Some") {
		ie, err := p.parseImportExpression()
		if err != nil {
			return nil, err
		}
		mark := p.l.Offset()
		if p.l.Whsp1() && p.peekWord("with") {
			return p.parseWith(start, ie)
		}
		p.l.Reset(mark)
		seed = ie
	}
	return p.continueOperators(start, seed)
}

// continueOperators parses an operator-expression whose leftmost operand
// may already be known, then an optional `-> expression` or `: expression`.
func (p *Parser) continueOperators(start int, seed ast.Expr) (ast.Expr, error) {
	op, err := p.parseOperators(0, seed)
	if err != nil {
		return nil, err
	}

	mark := p.l.Offset()
	p.l.Whsp()
	if p.arrow() {
		p.l.Whsp()
		body, err := p.parseExpression()
		if err != nil {
			return nil, cut(err)
		}
		return &ast.Pi{Loc: p.pos(start), ParamType: op, Body: body}, nil
	}
	if p.l.HasPrefix(":") && !p.l.HasPrefix("::") {
		p.l.Advance(1)
		if !p.l.Whsp1() {
			p.fail("whitespace")
			p.l.Reset(mark)
			return op, nil
		}
		typ, err := p.parseExpression()
		if err != nil {
			return nil, cut(err)
		}
		return &ast.Annot{Loc: p.pos(start), Expr: op, Type: typ}, nil
	}
	p.l.Reset(mark)
	return op, nil
}

func (p *Parser) arrow() bool { return p.acceptAny("->", "→") }

// \ ( x : T ) -> body
func (p *Parser) parseLambda(start int) (ast.Expr, error) {
	defer p.push("lambda")()
	p.acceptAny(`\`, "λ")
	name, typ, err := p.parseBinder()
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, cut(err)
	}
	return &ast.Lambda{Loc: p.pos(start), Param: name, ParamType: typ, Body: body}, nil
}

// forall ( x : T ) -> body
func (p *Parser) parseForall(start int) (ast.Expr, error) {
	defer p.push("forall")()
	if !p.word("forall") {
		p.l.Accept("∀")
	}
	name, typ, err := p.parseBinder()
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, cut(err)
	}
	return &ast.Pi{Loc: p.pos(start), Param: name, ParamType: typ, Body: body}, nil
}

// parseBinder parses `whsp ( whsp label whsp : whsp1 expr whsp ) whsp -> whsp`,
// the part shared by lambdas and foralls.
func (p *Parser) parseBinder() (string, ast.Expr, error) {
	p.l.Whsp()
	if err := p.expect("("); err != nil {
		return "", nil, err
	}
	p.l.Whsp()
	name, err := p.parseLabel()
	if err != nil {
		return "", nil, cut(err)
	}
	p.l.Whsp()
	if err := p.expect(":"); err != nil {
		return "", nil, err
	}
	if err := p.whsp1(); err != nil {
		return "", nil, err
	}
	typ, err := p.parseExpression()
	if err != nil {
		return "", nil, cut(err)
	}
	p.l.Whsp()
	if err := p.expect(")"); err != nil {
		return "", nil, err
	}
	p.l.Whsp()
	if !p.arrow() {
		return "", nil, p.fatal(`"->"`)
	}
	p.l.Whsp()
	return name, typ, nil
}

// if c then a else b
func (p *Parser) parseIf(start int) (ast.Expr, error) {
	defer p.push("if expression")()
	p.word("if")
	var parts [3]ast.Expr
	for i, kw := range [...]string{"", "then", "else"} {
		if kw != "" {
			p.l.Whsp()
			if !p.word(kw) {
				return nil, p.fatal(`"` + kw + `"`)
			}
		}
		if err := p.whsp1(); err != nil {
			return nil, err
		}
		e, err := p.parseExpression()
		if err != nil {
			return nil, cut(err)
		}
		parts[i] = e
	}
	return &ast.If{Loc: p.pos(start), Cond: parts[0], Then: parts[1], Else: parts[2]}, nil
}

// let x [: T] = v ... in body. Consecutive lets share one node.
func (p *Parser) parseLet(start int) (ast.Expr, error) {
	defer p.push("let binding")()
	var bindings []ast.Binding
	for {
		bstart := p.l.Offset()
		if !p.word("let") {
			break
		}
		if err := p.whsp1(); err != nil {
			return nil, err
		}
		name, err := p.parseLabel()
		if err != nil {
			return nil, cut(err)
		}
		b := ast.Binding{Loc: p.pos(bstart), Name: name}
		p.l.Whsp()
		if p.l.Accept(":") {
			if err := p.whsp1(); err != nil {
				return nil, err
			}
			if b.Annotation, err = p.parseExpression(); err != nil {
				return nil, cut(err)
			}
			p.l.Whsp()
		}
		if err := p.expect("="); err != nil {
			return nil, err
		}
		p.l.Whsp()
		if b.Value, err = p.parseExpression(); err != nil {
			return nil, cut(err)
		}
		if err := p.whsp1(); err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
		if !p.peekWord("let") && !p.peekWord("in") {
			return nil, p.fatal(`"let"`, `"in"`)
		}
	}
	if !p.word("in") {
		return nil, p.fatal(`"in"`)
	}
	if err := p.whsp1(); err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, cut(err)
	}
	return &ast.Let{Loc: p.pos(start), Bindings: bindings, Body: body}, nil
}

// assert : T
func (p *Parser) parseAssert(start int) (ast.Expr, error) {
	defer p.push("assert")()
	p.word("assert")
	p.l.Whsp()
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	if err := p.whsp1(); err != nil {
		return nil, err
	}
	t, err := p.parseExpression()
	if err != nil {
		return nil, cut(err)
	}
	return &ast.Assert{Loc: p.pos(start), Annotation: t}, nil
}

// parseMerge parses `merge h u`. With annotated set it also takes a
// following `: T`, T being any expression; only the expression level may do
// so, elsewhere the annotation belongs to the enclosing expression.
func (p *Parser) parseMerge(start int, annotated bool) (*ast.Merge, error) {
	defer p.push("merge")()
	p.word("merge")
	if err := p.whsp1(); err != nil {
		return nil, err
	}
	handler, err := p.parseImportExpression()
	if err != nil {
		return nil, cut(err)
	}
	if err := p.whsp1(); err != nil {
		return nil, err
	}
	union, err := p.parseImportExpression()
	if err != nil {
		return nil, cut(err)
	}
	m := &ast.Merge{Loc: p.pos(start), Handler: handler, Union: union}
	if !annotated {
		return m, nil
	}
	m.Annotation, err = p.parseTrailingAnnotation()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// parseToMap parses `toMap r` and, like parseMerge, an optional `: T`.
func (p *Parser) parseToMap(start int, annotated bool) (*ast.ToMap, error) {
	defer p.push("toMap")()
	p.word("toMap")
	if err := p.whsp1(); err != nil {
		return nil, err
	}
	record, err := p.parseImportExpression()
	if err != nil {
		return nil, cut(err)
	}
	t := &ast.ToMap{Loc: p.pos(start), Record: record}
	if !annotated {
		return t, nil
	}
	t.Annotation, err = p.parseTrailingAnnotation()
	if err != nil {
		return nil, err
	}
	return t, nil
}

// parseTrailingAnnotation parses an optional `whsp : whsp1 expression`.
// It returns nil without consuming input when there is none.
func (p *Parser) parseTrailingAnnotation() (ast.Expr, error) {
	mark := p.l.Offset()
	p.l.Whsp()
	if !p.l.HasPrefix(":") || p.l.HasPrefix("::") {
		p.l.Reset(mark)
		return nil, nil
	}
	p.l.Advance(1)
	if !p.l.Whsp1() {
		p.fail("whitespace")
		p.l.Reset(mark)
		return nil, nil
	}
	t, err := p.parseExpression()
	if err != nil {
		return nil, cut(err)
	}
	return t, nil
}

// parseEmptyList parses `[ ] : T`. ok is false, with the cursor restored,
// when the brackets hold anything other than an optional comma.
func (p *Parser) parseEmptyList(start int) (ast.Expr, bool, error) {
	p.l.Accept("[")
	p.l.Whsp()
	if p.l.Accept(",") {
		p.l.Whsp()
	}
	if !p.l.Accept("]") {
		p.l.Reset(start)
		return nil, false, nil
	}
	defer p.push("empty list")()
	p.l.Whsp()
	if err := p.expect(":"); err != nil {
		return nil, true, err
	}
	if err := p.whsp1(); err != nil {
		return nil, true, err
	}
	t, err := p.parseApplication(nil)
	if err != nil {
		return nil, true, cut(err)
	}
	return &ast.EmptyList{Loc: p.pos(start), Type: t}, true, nil
}

// parseWith parses one or more `with path = value` clauses after record.
// The cursor sits on the first `with`.
func (p *Parser) parseWith(start int, record ast.Expr) (ast.Expr, error) {
	defer p.push("with expression")()
	w := &ast.With{Loc: p.pos(start), Record: record}
	for {
		p.word("with")
		if err := p.whsp1(); err != nil {
			return nil, err
		}
		clause, err := p.parseWithClause()
		if err != nil {
			return nil, err
		}
		w.Clauses = append(w.Clauses, clause)

		mark := p.l.Offset()
		if !p.l.Whsp1() || !p.peekWord("with") {
			p.l.Reset(mark)
			return w, nil
		}
	}
}

func (p *Parser) parseWithClause() (ast.WithClause, error) {
	c := ast.WithClause{Loc: p.pos(p.l.Offset())}
	for {
		comp, err := p.parseWithComponent()
		if err != nil {
			return c, cut(err)
		}
		c.Path = append(c.Path, comp)
		p.l.Whsp()
		if !p.l.Accept(".") {
			break
		}
		p.l.Whsp()
	}
	if err := p.expect("="); err != nil {
		return c, err
	}
	p.l.Whsp()
	v, err := p.parseOperators(0, nil)
	if err != nil {
		return c, cut(err)
	}
	c.Value = v
	return c, nil
}

func (p *Parser) parseWithComponent() (ast.WithComponent, error) {
	if p.l.Accept("?") {
		return ast.WithComponent{Optional: true}, nil
	}
	name, err := p.parseAnyLabelOrSome()
	if err != nil {
		p.fail(`"?"`)
		return ast.WithComponent{}, err
	}
	return ast.WithComponent{Label: name}, nil
}
