package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/metaphox/dhall-go/ast"
	"github.com/metaphox/dhall-go/lexer"
)

// ── Text literals ─────────────────────────────────────────────────────────────

// textBuilder accumulates literal text and interpolations in order.
type textBuilder struct {
	chunks []ast.Chunk
	buf    strings.Builder
}

func (b *textBuilder) interpolate(e ast.Expr) {
	b.chunks = append(b.chunks, ast.Chunk{Prefix: b.buf.String(), Expr: e})
	b.buf.Reset()
}

func (b *textBuilder) finish() ([]ast.Chunk, string) { return b.chunks, b.buf.String() }

// parseDoubleQuotedText parses "..." with escapes and ${...} interpolation.
func (p *Parser) parseDoubleQuotedText(start int) (ast.Expr, error) {
	defer p.push("text literal")()
	p.l.Advance(1)
	var tb textBuilder
	for {
		c := p.l.Peek()
		switch {
		case p.l.EOF():
			return nil, p.fatal(`'"'`)
		case c == '"':
			p.l.Advance(1)
			chunks, suffix := tb.finish()
			return &ast.TextLit{Loc: p.pos(start), Chunks: chunks, Suffix: suffix}, nil
		case p.l.HasPrefix("${"):
			e, err := p.parseInterpolation()
			if err != nil {
				return nil, err
			}
			tb.interpolate(e)
		case c == '\\':
			r, err := p.parseEscape()
			if err != nil {
				return nil, err
			}
			tb.buf.WriteRune(r)
		case c < utf8.RuneSelf:
			if !lexer.IsDoubleQuoteChar(c) {
				return nil, p.fatal("text character", `'"'`)
			}
			tb.buf.WriteByte(c)
			p.l.Advance(1)
		default:
			r, size := p.l.PeekRune()
			if !lexer.IsValidNonASCII(r, size) {
				return nil, p.fatal("text character")
			}
			tb.buf.WriteRune(r)
			p.l.Advance(size)
		}
	}
}

// parseInterpolation parses ${ whsp expression whsp }.
func (p *Parser) parseInterpolation() (ast.Expr, error) {
	defer p.push("interpolation")()
	p.l.Advance(2)
	p.l.Whsp()
	e, err := p.parseExpression()
	if err != nil {
		return nil, cut(err)
	}
	p.l.Whsp()
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return e, nil
}

var simpleEscapes = map[byte]rune{
	'"':  '"',
	'$':  '$',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

// parseEscape parses a backslash escape and returns the character it stands
// for. \uXXXX and \u{X...} must name a Unicode scalar value that is not a
// non-character.
func (p *Parser) parseEscape() (rune, error) {
	off := p.l.Offset()
	p.l.Advance(1)
	c := p.l.Peek()
	if r, ok := simpleEscapes[c]; ok {
		p.l.Advance(1)
		return r, nil
	}
	if c != 'u' {
		return 0, p.fatal("escape sequence")
	}
	p.l.Advance(1)

	var v rune
	if p.l.Accept("{") {
		for p.l.Peek() == '0' && lexer.IsHexDigit(p.l.PeekAt(1)) {
			p.l.Advance(1)
		}
		n := 0
		for lexer.IsHexDigit(p.l.Peek()) {
			if n == 6 {
				return 0, p.fatalMsg(off, "unicode escape has more than six significant digits")
			}
			v = v<<4 | rune(lexer.HexValue(p.l.Peek()))
			p.l.Advance(1)
			n++
		}
		if n == 0 {
			return 0, p.fatal("hex digit")
		}
		if err := p.expect("}"); err != nil {
			return 0, err
		}
	} else {
		for i := 0; i < 4; i++ {
			if !lexer.IsHexDigit(p.l.Peek()) {
				return 0, p.fatal("hex digit")
			}
			v = v<<4 | rune(lexer.HexValue(p.l.Peek()))
			p.l.Advance(1)
		}
	}
	if !lexer.IsValidCodePoint(v) {
		return 0, p.fatalMsg(off, "escape %s is not a valid code point", p.l.Slice(off, p.l.Offset()))
	}
	return v, nil
}

// parseSingleQuotedText parses a '' ... '' literal. The opening quotes must
// end their line. Line endings are normalized to \n and the common
// indentation is removed afterwards.
func (p *Parser) parseSingleQuotedText(start int) (ast.Expr, error) {
	defer p.push("text literal")()
	p.l.Advance(2)
	if !p.l.Accept("\n") && !p.l.Accept("\r\n") {
		return nil, p.fatal("end of line")
	}
	var tb textBuilder
	for {
		c := p.l.Peek()
		switch {
		case p.l.EOF():
			return nil, p.fatal(`"''"`)
		case p.l.HasPrefix("${"):
			e, err := p.parseInterpolation()
			if err != nil {
				return nil, err
			}
			tb.interpolate(e)
		case p.l.Accept("'''"):
			tb.buf.WriteString("''")
		case p.l.Accept("''${"):
			tb.buf.WriteString("${")
		case p.l.Accept("''"):
			chunks, suffix := dedent(tb.finish())
			return &ast.TextLit{Loc: p.pos(start), Chunks: chunks, Suffix: suffix}, nil
		case p.l.Accept("\r\n"):
			tb.buf.WriteByte('\n')
		case c == '\n' || c == '\t' || (c >= 0x20 && c < utf8.RuneSelf):
			tb.buf.WriteByte(c)
			p.l.Advance(1)
		case c >= utf8.RuneSelf:
			r, size := p.l.PeekRune()
			if !lexer.IsValidNonASCII(r, size) {
				return nil, p.fatal("text character")
			}
			tb.buf.WriteRune(r)
			p.l.Advance(size)
		default:
			return nil, p.fatal("text character")
		}
	}
}

// dedent removes the longest run of spaces and tabs that starts every line.
// Empty lines do not take part, except the last line which always does, so
// the position of the closing quotes counts.
func dedent(chunks []ast.Chunk, suffix string) ([]ast.Chunk, string) {
	pieces := make([]string, 0, len(chunks)+1)
	for _, c := range chunks {
		pieces = append(pieces, c.Prefix)
	}
	pieces = append(pieces, suffix)

	var (
		prefix string
		seen   bool
	)
	consider := func(line string) {
		if line != "" && line[0] == '\n' {
			return
		}
		w := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !seen {
			prefix, seen = w, true
			return
		}
		prefix = commonPrefix(prefix, w)
	}
	for i, s := range pieces {
		if i == 0 {
			consider(s)
		}
		for j := 0; j < len(s); j++ {
			if s[j] == '\n' {
				consider(s[j+1:])
			}
		}
	}
	if prefix == "" {
		return chunks, suffix
	}

	out := make([]ast.Chunk, len(chunks))
	for i, c := range chunks {
		out[i] = ast.Chunk{Prefix: stripIndent(c.Prefix, i == 0, prefix), Expr: c.Expr}
	}
	return out, stripIndent(suffix, len(chunks) == 0, prefix)
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// stripIndent removes prefix from the start of every line in s. The start of
// s itself counts as a line start only when atLineStart is set.
func stripIndent(s string, atLineStart bool, prefix string) string {
	var b strings.Builder
	for {
		if atLineStart {
			s = strings.TrimPrefix(s, prefix)
		}
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i+1])
		s = s[i+1:]
		atLineStart = true
	}
}
