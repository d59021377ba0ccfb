package parser

import (
	"encoding/hex"
	"math"
	"math/big"
	"strconv"

	"github.com/metaphox/dhall-go/ast"
	"github.com/metaphox/dhall-go/lexer"
)

// ── Numeric literals ──────────────────────────────────────────────────────────
//
// Each function returns errNoMatch with the cursor at start when the input
// is not its literal, so parseNumeric can fall through to the next form.

// parseDouble parses [+-] digits ( "." digits [exponent] | exponent ),
// Infinity, -Infinity and NaN.
func (p *Parser) parseDouble(start int) (ast.Expr, error) {
	switch {
	case p.word("NaN"):
		return &ast.DoubleLit{Loc: p.pos(start), Value: math.NaN()}, nil
	case p.word("Infinity"):
		return &ast.DoubleLit{Loc: p.pos(start), Value: math.Inf(1)}, nil
	case p.l.HasPrefix("-") && p.peekWordAt(1, "Infinity"):
		p.l.Advance(len("-Infinity"))
		return &ast.DoubleLit{Loc: p.pos(start), Value: math.Inf(-1)}, nil
	}

	if c := p.l.Peek(); c == '+' || c == '-' {
		p.l.Advance(1)
	}
	if p.digits() == 0 {
		p.l.Reset(start)
		return nil, errNoMatch
	}
	fraction := false
	if p.l.Peek() == '.' && lexer.IsDigit(p.l.PeekAt(1)) {
		p.l.Advance(1)
		p.digits()
		fraction = true
	}
	exponent := p.exponent()
	if !fraction && !exponent {
		p.l.Reset(start)
		return nil, errNoMatch
	}

	text := p.l.Slice(start, p.l.Offset())
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && math.IsInf(v, 0) {
		return nil, p.fatalMsg(start, "double literal %s is out of range", text)
	}
	return &ast.DoubleLit{Loc: p.pos(start), Value: v}, nil
}

// exponent consumes "e" [+-] digits, or nothing.
func (p *Parser) exponent() bool {
	if c := p.l.Peek(); c != 'e' && c != 'E' {
		return false
	}
	mark := p.l.Offset()
	p.l.Advance(1)
	if c := p.l.Peek(); c == '+' || c == '-' {
		p.l.Advance(1)
	}
	if p.digits() == 0 {
		p.l.Reset(mark)
		return false
	}
	return true
}

// digits consumes decimal digits and returns how many.
func (p *Parser) digits() int {
	n := 0
	for lexer.IsDigit(p.l.Peek()) {
		p.l.Advance(1)
		n++
	}
	return n
}

func (p *Parser) peekWordAt(n int, w string) bool {
	rest := p.l.Rest()
	if len(rest) < n+len(w) || rest[n:n+len(w)] != w {
		return false
	}
	return !lexer.IsSimpleLabelNext(p.l.PeekAt(n + len(w)))
}

// parseNatural parses 0x hex, 0b binary, or decimal without leading zeros.
func (p *Parser) parseNatural(start int) (ast.Expr, error) {
	var (
		digits string
		base   int
	)
	switch {
	case p.l.HasPrefix("0x") && lexer.IsHexDigit(p.l.PeekAt(2)):
		p.l.Advance(2)
		from := p.l.Offset()
		for lexer.IsHexDigit(p.l.Peek()) {
			p.l.Advance(1)
		}
		digits, base = p.l.Slice(from, p.l.Offset()), 16
	case p.l.HasPrefix("0b") && lexer.IsBit(p.l.PeekAt(2)):
		p.l.Advance(2)
		from := p.l.Offset()
		for lexer.IsBit(p.l.Peek()) {
			p.l.Advance(1)
		}
		digits, base = p.l.Slice(from, p.l.Offset()), 2
	case p.l.Peek() == '0':
		p.l.Advance(1)
		digits, base = "0", 10
	case lexer.IsDigit(p.l.Peek()):
		from := p.l.Offset()
		p.digits()
		digits, base = p.l.Slice(from, p.l.Offset()), 10
	default:
		return nil, errNoMatch
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		p.l.Reset(start)
		return nil, errNoMatch
	}
	return &ast.NaturalLit{Loc: p.pos(start), Value: n}, nil
}

// parseInteger parses a sign followed by a natural literal.
func (p *Parser) parseInteger(start int) (ast.Expr, error) {
	c := p.l.Peek()
	if c != '+' && c != '-' {
		return nil, errNoMatch
	}
	p.l.Advance(1)
	e, err := p.parseNatural(p.l.Offset())
	if err != nil {
		p.l.Reset(start)
		return nil, errNoMatch
	}
	v := e.(*ast.NaturalLit).Value
	if c == '-' {
		v.Neg(v)
	}
	return &ast.IntegerLit{Loc: p.pos(start), Value: v}, nil
}

// ── Bytes ─────────────────────────────────────────────────────────────────────

// 0x"0123abCD"
func (p *Parser) parseBytes(start int) (ast.Expr, error) {
	defer p.push("bytes literal")()
	p.l.Advance(len(`0x"`))
	from := p.l.Offset()
	for lexer.IsHexDigit(p.l.Peek()) {
		p.l.Advance(1)
	}
	digits := p.l.Slice(from, p.l.Offset())
	if p.l.Peek() != '"' {
		return nil, p.fatal("hex digit", `'"'`)
	}
	if len(digits)%2 != 0 {
		return nil, p.fatalMsg(p.l.Offset(), "bytes literal has an odd number of hex digits")
	}
	p.l.Advance(1)
	b, err := hex.DecodeString(digits)
	if err != nil {
		return nil, p.fatalMsg(from, "invalid bytes literal: %v", err)
	}
	if b == nil {
		b = []byte{}
	}
	return &ast.BytesLit{Loc: p.pos(start), Value: b}, nil
}
