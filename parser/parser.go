// Package parser implements a recursive-descent parser for the Dhall
// configuration language.
//
// Dhall is parsed without a token stream: the parser drives a
// [lexer.Lexer] cursor directly and asks for optional or mandatory
// whitespace at each point of the grammar. Alternatives are tried in the
// grammar's order by saving and restoring the cursor offset.
//
// Usage:
//
//	f, err := parser.Parse("config.dhall", source)
//	if err != nil {
//		var se *parser.SyntaxError
//		errors.As(err, &se) // position, production and expected items
//	}
//
// Error reporting: the parser stops at the first error. It remembers the
// furthest offset any alternative reached, together with what would have
// been accepted there, and reports that position. Once a construct has
// consumed a token that cannot begin anything else (an opening bracket, a
// keyword) a failure inside it is final and no other alternative is tried.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/metaphox/dhall-go/ast"
	"github.com/metaphox/dhall-go/lexer"
)

// Parser holds the state needed to parse one Dhall source.
// Create one with [New] and call [Parser.Parse]. A Parser is not safe for
// concurrent use; create one per goroutine.
type Parser struct {
	l     *lexer.Lexer
	name  string
	opts  Options
	log   *slog.Logger
	depth int
	prods []string // enclosing constructs, innermost last
	far   farthest
}

// New creates a Parser for src. name is used in diagnostics only.
func New(name, src string, opts ...Option) *Parser {
	o := buildOptions(opts)
	return &Parser{
		l:    lexer.New(src),
		name: name,
		opts: o,
		log:  o.Logger,
	}
}

// Parse parses a complete Dhall file.
func Parse(name, src string, opts ...Option) (*ast.File, error) {
	return New(name, src, opts...).Parse()
}

// ParseExpr parses src as a single expression and returns it.
func ParseExpr(src string, opts ...Option) (ast.Expr, error) {
	f, err := Parse("", src, opts...)
	if err != nil {
		return nil, err
	}
	return f.Expr, nil
}

// Parse parses the whole input: optional shebang lines, whitespace, one
// expression, whitespace. Calling Parse again restarts from the beginning.
func (p *Parser) Parse() (*ast.File, error) {
	start := time.Now()
	src := p.l.Input()
	p.l.Reset(0)
	p.depth = 0
	p.prods = p.prods[:0]
	p.far = farthest{off: -1}

	p.log.Debug("parse started", "file", p.name, "bytes", len(src))

	f, err := p.parseFile()
	if err != nil {
		p.log.Debug("parse failed", "file", p.name, "error", err)
		return nil, err
	}
	p.log.Debug("parse finished", "file", p.name, "duration", time.Since(start))
	return f, nil
}

func (p *Parser) parseFile() (*ast.File, error) {
	src := p.l.Input()
	if !utf8.ValidString(src) {
		off := firstInvalidUTF8(src)
		return nil, p.syntaxError(off, "file", "invalid UTF-8 encoding", nil, ErrInvalidUTF8)
	}

	f := &ast.File{Name: p.name}
	for p.l.HasPrefix("#!") {
		line, err := p.parseShebang()
		if err != nil {
			return nil, p.toSyntaxError(err)
		}
		f.Shebangs = append(f.Shebangs, line)
	}

	p.l.Whsp()
	e, err := p.parseExpression()
	if err != nil {
		return nil, p.toSyntaxError(err)
	}
	f.Expr = e

	trailing := p.l.Offset()
	p.l.Whsp()
	p.l.TrailingComment()
	if !p.l.EOF() {
		if bad := p.l.BadCommentAt(); bad >= 0 {
			p.far.record(bad, "comment", "character not allowed in a comment", nil)
		} else {
			p.fail("end of input")
		}
		return nil, p.toSyntaxError(errNoMatch)
	}
	f.Trailing = p.l.Slice(trailing, len(src))
	return f, nil
}

// parseShebang consumes "#!" *not-end-of-line end-of-line and returns the
// line without its terminator.
func (p *Parser) parseShebang() (string, error) {
	defer p.push("shebang")()
	start := p.l.Offset()
	p.l.Advance(2)
	for !p.l.EOF() {
		switch c := p.l.Peek(); {
		case c == '\n':
			line := p.l.Slice(start, p.l.Offset())
			p.l.Advance(1)
			return line, nil
		case c == '\r' && p.l.PeekAt(1) == '\n':
			line := p.l.Slice(start, p.l.Offset())
			p.l.Advance(2)
			return line, nil
		case c == '\t' || (c >= 0x20 && c <= 0x7F):
			p.l.Advance(1)
		case c >= 0x80:
			r, size := p.l.PeekRune()
			if !lexer.IsValidNonASCII(r, size) {
				return "", p.fatal("character")
			}
			p.l.Advance(size)
		default:
			return "", p.fatal("character")
		}
	}
	return "", p.fatal("end of line")
}

// ── Failure bookkeeping ───────────────────────────────────────────────────────

// push enters a named construct for diagnostics. Use as
// `defer p.push("record literal")()`.
func (p *Parser) push(production string) func() {
	p.prods = append(p.prods, production)
	n := len(p.prods)
	return func() { p.prods = p.prods[:n-1] }
}

func (p *Parser) production() string {
	if len(p.prods) == 0 {
		return "expression"
	}
	return p.prods[len(p.prods)-1]
}

// fail records that one of expected would have been accepted at the cursor
// and returns errNoMatch.
func (p *Parser) fail(expected ...string) error {
	p.far.record(p.l.Offset(), p.production(), "", expected)
	return errNoMatch
}

// fatal is fail for positions after a committing token.
func (p *Parser) fatal(expected ...string) error {
	p.fail(expected...)
	return errCut
}

// fatalMsg records a specific message at off and returns errCut.
func (p *Parser) fatalMsg(off int, format string, args ...any) error {
	p.far.record(off, p.production(), fmt.Sprintf(format, args...), nil)
	return errCut
}

// toSyntaxError converts an internal failure into the public error. Errors
// that already are *SyntaxError pass through.
func (p *Parser) toSyntaxError(err error) error {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se
	}
	off := p.far.off
	if off < 0 {
		off = p.l.Offset()
	}
	return p.syntaxError(off, p.far.production, p.far.msg, p.far.expected, nil)
}

func (p *Parser) syntaxError(off int, production, msg string, expected []string, cause error) *SyntaxError {
	return &SyntaxError{
		File:       p.name,
		Pos:        p.pos(off),
		Production: production,
		Expected:   append([]string(nil), expected...),
		Found:      p.describe(off),
		Msg:        msg,
		Err:        cause,
	}
}

// describe renders the input at off for the Found field of an error.
func (p *Parser) describe(off int) string {
	src := p.l.Input()
	if off >= len(src) {
		return "end of input"
	}
	r, size := utf8.DecodeRuneInString(src[off:])
	switch {
	case r == utf8.RuneError && size <= 1:
		return fmt.Sprintf("byte 0x%02X", src[off])
	case r == '\n' || r == '\r':
		return "end of line"
	case unicode.IsPrint(r):
		return strconv.Quote(string(r))
	}
	return fmt.Sprintf("%U", r)
}

func firstInvalidUTF8(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(s)
}

// ── Cursor helpers ────────────────────────────────────────────────────────────

func (p *Parser) pos(off int) ast.Pos {
	line, col := p.l.Position(off)
	return ast.Pos{Offset: off, Line: line, Col: col}
}

// peekWord reports whether the input continues with w followed by a character
// that cannot extend a label. It does not consume anything.
func (p *Parser) peekWord(w string) bool {
	return p.l.HasPrefix(w) && !lexer.IsSimpleLabelNext(p.l.PeekAt(len(w)))
}

// word consumes w when peekWord(w) holds.
func (p *Parser) word(w string) bool {
	if !p.peekWord(w) {
		return false
	}
	p.l.Advance(len(w))
	return true
}

// acceptAny consumes the first of alts the input continues with.
func (p *Parser) acceptAny(alts ...string) bool {
	for _, a := range alts {
		if p.l.Accept(a) {
			return true
		}
	}
	return false
}

// expect consumes tok or fails fatally.
func (p *Parser) expect(tok string) error {
	if p.l.Accept(tok) {
		return nil
	}
	return p.fatal(strconv.Quote(tok))
}

// whsp1 consumes mandatory whitespace or fails fatally.
func (p *Parser) whsp1() error {
	if p.l.Whsp1() {
		return nil
	}
	return p.fatal("whitespace")
}

// enter accounts for one level of expression nesting.
func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.opts.MaxDepth {
		off := p.l.Offset()
		return p.syntaxError(off, "nesting depth",
			fmt.Sprintf("expression nested deeper than %d levels", p.opts.MaxDepth), nil, ErrDepthExceeded)
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }
