package parser

import (
	"math/big"

	"github.com/metaphox/dhall-go/ast"
	"github.com/metaphox/dhall-go/lexer"
)

// ── Primitive expressions ─────────────────────────────────────────────────────

// parsePrimitive parses the tightest-binding forms: literals, identifiers,
// records, unions, non-empty lists and parenthesized expressions. It
// dispatches on the first character; numeric and temporal literals are
// tried longest-form first.
func (p *Parser) parsePrimitive() (ast.Expr, error) {
	start := p.l.Offset()
	c := p.l.Peek()
	switch {
	case c == '"':
		return p.parseDoubleQuotedText(start)
	case p.l.HasPrefix("''"):
		return p.parseSingleQuotedText(start)
	case p.l.HasPrefix(`0x"`):
		return p.parseBytes(start)
	case c == '{' && !p.l.HasPrefix("{-"):
		return p.parseRecord(start)
	case c == '<':
		return p.parseUnion(start)
	case c == '[':
		return p.parseNonEmptyList(start)
	case c == '(':
		return p.parseParens(start)
	case lexer.IsDigit(c) || c == '+' || c == '-':
		return p.parseNumeric(start)
	case p.peekWord("Infinity") || p.peekWord("NaN"):
		return p.parseNumeric(start)
	case lexer.IsSimpleLabelFirst(c) || c == '`':
		return p.parseIdentifier(start)
	}
	return nil, p.fail("expression")
}

// parseNumeric tries temporal, double, natural and integer literals in that
// order, so the longest form wins.
func (p *Parser) parseNumeric(start int) (ast.Expr, error) {
	if e, err := p.parseTemporal(start); err != errNoMatch {
		return e, err
	}
	if e, err := p.parseDouble(start); err != errNoMatch {
		return e, err
	}
	if e, err := p.parseNatural(start); err != errNoMatch {
		return e, err
	}
	if e, err := p.parseInteger(start); err != errNoMatch {
		return e, err
	}
	return nil, p.fail("expression")
}

// parseIdentifier parses a variable, builtin or boolean.
func (p *Parser) parseIdentifier(start int) (ast.Expr, error) {
	quoted := p.l.Peek() == '`'
	name, ok := p.scanLabel()
	if !ok {
		return nil, p.fail("expression")
	}
	if !quoted {
		switch {
		case name == "True" || name == "False":
			return &ast.BoolLit{Loc: p.pos(start), Value: name == "True"}, nil
		case ast.IsBuiltin(name):
			return &ast.Builtin{Loc: p.pos(start), Name: name}, nil
		}
	}
	v := &ast.Var{Loc: p.pos(start), Name: name}

	mark := p.l.Offset()
	p.l.Whsp()
	if !p.l.Accept("@") {
		p.l.Reset(mark)
		return v, nil
	}
	p.l.Whsp()
	idxStart := p.l.Offset()
	n, err := p.scanNatural()
	if err != nil {
		p.l.Reset(mark)
		return v, nil
	}
	if !n.IsInt64() || n.Int64() > int64(maxIndex) {
		return nil, p.fatalMsg(idxStart, "variable index %s is too large", n)
	}
	v.Index = int(n.Int64())
	return v, nil
}

const maxIndex = 1<<31 - 1

// ── Labels ────────────────────────────────────────────────────────────────────

// parseLabel parses a simple label that is not a keyword, or any quoted
// label. On failure nothing is consumed.
func (p *Parser) parseLabel() (string, error) {
	name, ok := p.scanLabel()
	if !ok {
		return "", p.fail("label")
	}
	return name, nil
}

// scanLabel is parseLabel without failure bookkeeping.
func (p *Parser) scanLabel() (string, bool) {
	start := p.l.Offset()
	if p.l.Accept("`") {
		for lexer.IsQuotedLabelChar(p.l.Peek()) {
			p.l.Advance(1)
		}
		name := p.l.Slice(start+1, p.l.Offset())
		if name == "" || !p.l.Accept("`") {
			p.l.Reset(start)
			return "", false
		}
		return name, true
	}
	end := lexer.ScanSimpleLabel(p.l.Input(), start)
	if end == start {
		return "", false
	}
	name := p.l.Slice(start, end)
	if ast.IsKeyword(name) {
		return "", false
	}
	p.l.Reset(end)
	return name, true
}

// parseAnyLabelOrSome parses a label, additionally accepting `Some`. Field
// names may be Some even though it is a keyword.
func (p *Parser) parseAnyLabelOrSome() (string, error) {
	if p.word("Some") {
		return "Some", nil
	}
	return p.parseLabel()
}

// ── Records ───────────────────────────────────────────────────────────────────

// parseRecord parses a record type `{ a : T }` or a record literal
// `{ a = v }`. The first entry decides which one; {} and {=} are the empty
// record literal.
func (p *Parser) parseRecord(start int) (ast.Expr, error) {
	p.l.Accept("{")
	p.l.Whsp()
	if p.l.Accept(",") {
		p.l.Whsp()
	}
	if p.l.Accept("}") {
		return &ast.RecordLit{Loc: p.pos(start), Fields: []ast.Field{}}, nil
	}
	if p.l.Accept("=") {
		defer p.push("record literal")()
		mark := p.l.Offset()
		p.l.Whsp()
		if !p.l.Accept(",") {
			p.l.Reset(mark)
		}
		p.l.Whsp()
		if err := p.expect("}"); err != nil {
			return nil, err
		}
		return &ast.RecordLit{Loc: p.pos(start), Fields: []ast.Field{}}, nil
	}

	defer p.push("record")()
	first := p.l.Offset()
	label, err := p.parseAnyLabelOrSome()
	if err != nil {
		p.fail(`"}"`, `"="`)
		return nil, cut(err)
	}
	mark := p.l.Offset()
	p.l.Whsp()
	isType := p.l.HasPrefix(":")
	p.l.Reset(mark)

	if isType {
		defer p.push("record type")()
		f, err := p.finishTypeField(first, label)
		if err != nil {
			return nil, err
		}
		fields, err := p.parseEntries([]ast.Field{f}, "}", func() (ast.Field, error) {
			off := p.l.Offset()
			label, err := p.parseAnyLabelOrSome()
			if err != nil {
				return ast.Field{}, cut(err)
			}
			return p.finishTypeField(off, label)
		})
		if err != nil {
			return nil, err
		}
		return &ast.RecordType{Loc: p.pos(start), Fields: fields}, nil
	}

	defer p.push("record literal")()
	f, err := p.finishLiteralField(first, label)
	if err != nil {
		return nil, err
	}
	fields, err := p.parseEntries([]ast.Field{f}, "}", func() (ast.Field, error) {
		off := p.l.Offset()
		label, err := p.parseAnyLabelOrSome()
		if err != nil {
			return ast.Field{}, cut(err)
		}
		return p.finishLiteralField(off, label)
	})
	if err != nil {
		return nil, err
	}
	return &ast.RecordLit{Loc: p.pos(start), Fields: fields}, nil
}

// finishTypeField parses `whsp : whsp1 expression` after a record type label.
func (p *Parser) finishTypeField(off int, label string) (ast.Field, error) {
	p.l.Whsp()
	if err := p.expect(":"); err != nil {
		return ast.Field{}, err
	}
	if err := p.whsp1(); err != nil {
		return ast.Field{}, err
	}
	t, err := p.parseExpression()
	if err != nil {
		return ast.Field{}, cut(err)
	}
	return ast.Field{Loc: p.pos(off), Label: label, Value: t}, nil
}

// finishLiteralField parses the rest of a record literal entry. A dotted key
// `a.b.c = v` becomes `a = { b = { c = v } }`; a bare label `a` is short for
// `a = a`.
func (p *Parser) finishLiteralField(off int, label string) (ast.Field, error) {
	path := []string{label}
	for {
		mark := p.l.Offset()
		p.l.Whsp()
		if !p.l.Accept(".") {
			p.l.Reset(mark)
			break
		}
		p.l.Whsp()
		next, err := p.parseAnyLabelOrSome()
		if err != nil {
			return ast.Field{}, cut(err)
		}
		path = append(path, next)
	}

	mark := p.l.Offset()
	p.l.Whsp()
	if !p.l.Accept("=") {
		if len(path) == 1 && (p.l.HasPrefix(",") || p.l.HasPrefix("}")) {
			p.l.Reset(mark)
			return ast.Field{
				Loc:   p.pos(off),
				Label: label,
				Value: &ast.Var{Loc: p.pos(off), Name: label},
			}, nil
		}
		if len(path) == 1 {
			return ast.Field{}, p.fatal(`"="`, `"."`, `","`, `"}"`)
		}
		return ast.Field{}, p.fatal(`"="`, `"."`)
	}
	p.l.Whsp()
	v, err := p.parseExpression()
	if err != nil {
		return ast.Field{}, cut(err)
	}
	for i := len(path) - 1; i > 0; i-- {
		v = &ast.RecordLit{Loc: v.Pos(), Fields: []ast.Field{{Loc: v.Pos(), Label: path[i], Value: v}}}
	}
	return ast.Field{Loc: p.pos(off), Label: path[0], Value: v}, nil
}

// parseEntries parses the `whsp , whsp entry` tail of a bracketed list
// whose first entry is already parsed, including an optional trailing comma
// and the closing token.
func (p *Parser) parseEntries(fields []ast.Field, closing string, entry func() (ast.Field, error)) ([]ast.Field, error) {
	for {
		p.l.Whsp()
		if p.l.Accept(closing) {
			return fields, nil
		}
		if !p.l.Accept(",") {
			return nil, p.fatal(`","`, `"`+closing+`"`)
		}
		p.l.Whsp()
		if p.l.Accept(closing) {
			return fields, nil
		}
		f, err := entry()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
}

// ── Unions ────────────────────────────────────────────────────────────────────

// < A : T | B >
func (p *Parser) parseUnion(start int) (ast.Expr, error) {
	defer p.push("union type")()
	p.l.Accept("<")
	p.l.Whsp()
	if p.l.Accept("|") {
		p.l.Whsp()
	}
	u := &ast.UnionType{Loc: p.pos(start), Alternatives: []ast.Alternative{}}
	if p.l.Accept(">") {
		return u, nil
	}
	for {
		off := p.l.Offset()
		label, err := p.parseAnyLabelOrSome()
		if err != nil {
			p.fail(`">"`)
			return nil, cut(err)
		}
		alt := ast.Alternative{Loc: p.pos(off), Label: label}
		mark := p.l.Offset()
		p.l.Whsp()
		if p.l.Accept(":") {
			if err := p.whsp1(); err != nil {
				return nil, err
			}
			if alt.Type, err = p.parseExpression(); err != nil {
				return nil, cut(err)
			}
		} else {
			p.l.Reset(mark)
		}
		u.Alternatives = append(u.Alternatives, alt)

		p.l.Whsp()
		if p.l.Accept(">") {
			return u, nil
		}
		if !p.l.Accept("|") {
			return nil, p.fatal(`"|"`, `">"`)
		}
		p.l.Whsp()
		if p.l.Accept(">") {
			return u, nil
		}
	}
}

// ── Lists and parentheses ─────────────────────────────────────────────────────

// [ a, b, c ]. The empty list needs an annotation and is handled at the
// expression level.
func (p *Parser) parseNonEmptyList(start int) (ast.Expr, error) {
	defer p.push("list")()
	p.l.Accept("[")
	p.l.Whsp()
	if p.l.Accept(",") {
		p.l.Whsp()
	}
	list := &ast.NonEmptyList{Loc: p.pos(start)}
	for {
		e, err := p.parseExpression()
		if err != nil {
			return nil, cut(err)
		}
		list.Items = append(list.Items, e)
		p.l.Whsp()
		if p.l.Accept("]") {
			return list, nil
		}
		if !p.l.Accept(",") {
			return nil, p.fatal(`","`, `"]"`)
		}
		p.l.Whsp()
		if p.l.Accept("]") {
			return list, nil
		}
	}
}

// ( e )
func (p *Parser) parseParens(start int) (ast.Expr, error) {
	p.l.Accept("(")
	p.l.Whsp()
	e, err := p.parseExpression()
	if err != nil {
		return nil, cut(err)
	}
	p.l.Whsp()
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return e, nil
}

// scanNatural reads a natural literal without building a node.
func (p *Parser) scanNatural() (*big.Int, error) {
	e, err := p.parseNatural(p.l.Offset())
	if err != nil {
		return nil, err
	}
	return e.(*ast.NaturalLit).Value, nil
}
