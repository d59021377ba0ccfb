package parser

import (
	"encoding/hex"
	"strings"

	"github.com/metaphox/dhall-go/ast"
	"github.com/metaphox/dhall-go/lexer"
)

// ── Imports ───────────────────────────────────────────────────────────────────

// parseImport parses `import-type [whsp1 sha256:HASH] [whsp as whsp1 MODE]`.
// It returns errNoMatch without consuming input when the cursor is not on
// an import.
func (p *Parser) parseImport() (ast.Expr, error) {
	start := p.l.Offset()
	src, err := p.parseImportType()
	if err != nil {
		p.l.Reset(start)
		return nil, err
	}
	defer p.push("import")()
	imp := &ast.Import{Loc: p.pos(start), Source: src, Mode: ast.ModeCode}

	mark := p.l.Offset()
	if p.l.Whsp1() && p.l.Accept("sha256:") {
		from := p.l.Offset()
		for lexer.IsHexDigit(p.l.Peek()) {
			p.l.Advance(1)
		}
		digits := p.l.Slice(from, p.l.Offset())
		if len(digits) != 64 {
			return nil, p.fatalMsg(from, "sha256 hash must have 64 hex digits, found %d", len(digits))
		}
		imp.Hash, _ = hex.DecodeString(digits)
	} else {
		p.l.Reset(mark)
	}

	mark = p.l.Offset()
	p.l.Whsp()
	if p.word("as") && p.l.Whsp1() {
		switch {
		case p.word("Text"):
			imp.Mode = ast.ModeRawText
			return imp, nil
		case p.word("Location"):
			imp.Mode = ast.ModeLocation
			return imp, nil
		case p.word("Bytes"):
			imp.Mode = ast.ModeBytes
			return imp, nil
		}
		p.fail("Text", "Location", "Bytes")
	}
	p.l.Reset(mark)
	return imp, nil
}

// parseImportType parses the location part of an import.
func (p *Parser) parseImportType() (ast.ImportSource, error) {
	start := p.l.Offset()
	switch {
	case p.word("missing"):
		return &ast.Missing{Loc: p.pos(start)}, nil
	case p.l.HasPrefix("../"):
		p.l.Advance(2)
		return p.parseLocal(start, ast.PathParent)
	case p.l.HasPrefix("./"):
		p.l.Advance(1)
		return p.parseLocal(start, ast.PathHere)
	case p.l.HasPrefix("~/"):
		p.l.Advance(1)
		return p.parseLocal(start, ast.PathHome)
	case p.l.HasPrefix("/"):
		return p.parseLocal(start, ast.PathAbsolute)
	case p.l.HasPrefix("https://"), p.l.HasPrefix("http://"):
		return p.parseRemote(start)
	case p.l.HasPrefix("env:"):
		return p.parseEnv(start)
	}
	return nil, errNoMatch
}

// parseLocal parses one or more `/component` steps. The cursor is on the
// first slash.
func (p *Parser) parseLocal(start int, kind ast.PathKind) (ast.ImportSource, error) {
	comps, ok := p.scanPathComponents()
	if !ok {
		p.l.Reset(start)
		return nil, errNoMatch
	}
	return &ast.LocalPath{Loc: p.pos(start), Kind: kind, Components: comps}, nil
}

// scanPathComponents reads "/" (unquoted | "quoted") repeatedly. A slash not
// followed by a valid component is left unread.
func (p *Parser) scanPathComponents() ([]string, bool) {
	var comps []string
	for p.l.Peek() == '/' {
		mark := p.l.Offset()
		p.l.Advance(1)
		if p.l.Peek() == '"' {
			p.l.Advance(1)
			from := p.l.Offset()
			for !p.l.EOF() {
				c := p.l.Peek()
				if c < 0x80 {
					if !lexer.IsQuotedPathChar(c) {
						break
					}
					p.l.Advance(1)
					continue
				}
				r, size := p.l.PeekRune()
				if !lexer.IsValidNonASCII(r, size) {
					break
				}
				p.l.Advance(size)
			}
			comp := p.l.Slice(from, p.l.Offset())
			if comp == "" || !p.l.Accept(`"`) {
				p.l.Reset(mark)
				break
			}
			comps = append(comps, comp)
			continue
		}
		from := p.l.Offset()
		for lexer.IsPathChar(p.l.Peek()) {
			p.l.Advance(1)
		}
		if p.l.Offset() == from {
			p.l.Reset(mark)
			break
		}
		comps = append(comps, p.l.Slice(from, p.l.Offset()))
	}
	return comps, len(comps) > 0
}

// ── Remote imports ────────────────────────────────────────────────────────────

// parseRemote parses scheme://authority path [?query] [using headers].
func (p *Parser) parseRemote(start int) (ast.ImportSource, error) {
	defer p.push("URL")()
	r := &ast.RemotePath{Loc: p.pos(start), Scheme: "https"}
	if p.l.Accept("http://") {
		r.Scheme = "http"
	} else {
		p.l.Accept("https://")
	}

	authStart := p.l.Offset()
	for isAuthorityChar(p.l.Peek()) || p.pctEncoded() {
		if p.l.Peek() != '%' {
			p.l.Advance(1)
		} else {
			p.l.Advance(3)
		}
	}
	r.Authority = p.l.Slice(authStart, p.l.Offset())
	if !validAuthority(r.Authority) {
		return nil, p.fatalMsg(authStart, "invalid URL authority %q", r.Authority)
	}

	for p.l.Peek() == '/' {
		p.l.Advance(1)
		from := p.l.Offset()
		for isPChar(p.l.Peek()) || p.pctEncoded() {
			if p.l.Peek() != '%' {
				p.l.Advance(1)
			} else {
				p.l.Advance(3)
			}
		}
		r.Path = append(r.Path, p.l.Slice(from, p.l.Offset()))
	}

	if p.l.Accept("?") {
		from := p.l.Offset()
		for c := p.l.Peek(); isPChar(c) || c == '/' || c == '?' || p.pctEncoded(); c = p.l.Peek() {
			if c != '%' {
				p.l.Advance(1)
			} else {
				p.l.Advance(3)
			}
		}
		q := p.l.Slice(from, p.l.Offset())
		r.Query = &q
	}

	mark := p.l.Offset()
	p.l.Whsp()
	if p.word("using") {
		if err := p.whsp1(); err != nil {
			return nil, err
		}
		h, err := p.parseHeaders()
		if err != nil {
			return nil, cut(err)
		}
		r.Headers = h
	} else {
		p.l.Reset(mark)
	}
	return r, nil
}

// parseHeaders parses the import expression after `using`. Headers can
// hold further remote imports, so each one counts towards the depth limit.
func (p *Parser) parseHeaders() (ast.Expr, error) {
	err := p.enter()
	defer p.leave()
	if err != nil {
		return nil, err
	}
	return p.parseImportExpression()
}

// pctEncoded reports whether the cursor is on "%" HEXDIG HEXDIG.
func (p *Parser) pctEncoded() bool {
	return p.l.Peek() == '%' && lexer.IsHexDigit(p.l.PeekAt(1)) && lexer.IsHexDigit(p.l.PeekAt(2))
}

func isPChar(c byte) bool {
	return lexer.IsUnreserved(c) || lexer.IsSubDelim(c) || c == ':' || c == '@'
}

func isAuthorityChar(c byte) bool {
	return isPChar(c) || c == '[' || c == ']'
}

// validAuthority checks [userinfo "@"] host [":" port].
func validAuthority(a string) bool {
	if i := strings.LastIndexByte(a, '@'); i >= 0 {
		if strings.ContainsAny(a[:i], "[]@") {
			return false
		}
		a = a[i+1:]
	}
	host, port := a, ""
	if strings.HasPrefix(a, "[") {
		end := strings.IndexByte(a, ']')
		if end < 0 {
			return false
		}
		host, a = a[1:end], a[end+1:]
		if host == "" || strings.Trim(host, "0123456789abcdefABCDEF:.vV") != "" {
			return false
		}
		if a != "" {
			if a[0] != ':' {
				return false
			}
			port = a[1:]
		}
	} else {
		if i := strings.IndexByte(a, ':'); i >= 0 {
			host, port = a[:i], a[i+1:]
		}
		if !validHost(host) {
			return false
		}
	}
	for i := 0; i < len(port); i++ {
		if !lexer.IsDigit(port[i]) {
			return false
		}
	}
	return true
}

// validHost accepts a registered name: dot-separated labels of letters,
// digits and inner hyphens, with an optional trailing dot. IPv4 addresses
// have the same shape.
func validHost(h string) bool {
	if h == "" {
		return false
	}
	h = strings.TrimSuffix(h, ".")
	for _, label := range strings.Split(h, ".") {
		if label == "" || label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			if !lexer.IsAlpha(c) && !lexer.IsDigit(c) && c != '-' {
				return false
			}
		}
	}
	return true
}

// ── Environment imports ───────────────────────────────────────────────────────

var envEscapes = map[byte]byte{
	'"':  '"',
	'\\': '\\',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
}

// parseEnv parses env:NAME or env:"quoted name".
func (p *Parser) parseEnv(start int) (ast.ImportSource, error) {
	p.l.Advance(len("env:"))
	if p.l.Accept(`"`) {
		var b strings.Builder
		for {
			c := p.l.Peek()
			switch {
			case c == '"':
				p.l.Advance(1)
				if b.Len() == 0 {
					p.l.Reset(start)
					return nil, errNoMatch
				}
				return &ast.EnvVar{Loc: p.pos(start), Name: b.String()}, nil
			case c == '\\':
				e, ok := envEscapes[p.l.PeekAt(1)]
				if !ok {
					p.l.Reset(start)
					return nil, errNoMatch
				}
				b.WriteByte(e)
				p.l.Advance(2)
			case lexer.IsPOSIXEnvChar(c):
				b.WriteByte(c)
				p.l.Advance(1)
			default:
				p.l.Reset(start)
				return nil, errNoMatch
			}
		}
	}
	from := p.l.Offset()
	if c := p.l.Peek(); lexer.IsAlpha(c) || c == '_' {
		p.l.Advance(1)
		for c := p.l.Peek(); lexer.IsAlpha(c) || lexer.IsDigit(c) || c == '_'; c = p.l.Peek() {
			p.l.Advance(1)
		}
	}
	if p.l.Offset() == from {
		p.l.Reset(start)
		return nil, errNoMatch
	}
	return &ast.EnvVar{Loc: p.pos(start), Name: p.l.Slice(from, p.l.Offset())}, nil
}
