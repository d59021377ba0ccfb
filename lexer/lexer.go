// Package lexer implements the character-level layer of the Dhall parser:
// a backtrackable cursor over the source, the whitespace and comment
// skipper, and the character classes of the grammar.
//
// Dhall has no separate token stream. Whitespace is significant in several
// places (an application needs at least one whitespace chunk between
// function and argument, `+` needs one after it), so the parser asks for
// optional or mandatory whitespace at each point of the grammar instead of
// having the lexer discard it.
//
// Design notes:
//   - Byte-offset cursor; Offset and Reset give the parser cheap backtracking.
//   - No global state; every [Lexer] is independent.
//   - Line and column numbers are computed on demand from a line-start table
//     built once in [New].
package lexer

import (
	"sort"
	"unicode/utf8"
)

// Lexer holds the cursor over a single Dhall source string.
// Create one with [New]; never share a Lexer between goroutines.
type Lexer struct {
	input string // the full source text
	pos   int    // current read position (byte offset)
	lines []int  // byte offsets at which each line starts
}

// New creates a [Lexer] positioned at the first byte of input.
func New(input string) *Lexer {
	l := &Lexer{input: input, lines: []int{0}}
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			l.lines = append(l.lines, i+1)
		}
	}
	return l
}

// Input returns the full source text.
func (l *Lexer) Input() string { return l.input }

// Offset returns the current byte offset.
func (l *Lexer) Offset() int { return l.pos }

// Reset moves the cursor back (or forward) to off.
func (l *Lexer) Reset(off int) { l.pos = off }

// EOF reports whether the cursor is at the end of the input.
func (l *Lexer) EOF() bool { return l.pos >= len(l.input) }

// Peek returns the byte under the cursor, or 0 at end of input.
func (l *Lexer) Peek() byte { return l.PeekAt(0) }

// PeekAt returns the byte n positions ahead of the cursor, or 0.
func (l *Lexer) PeekAt(n int) byte {
	if l.pos+n >= len(l.input) || l.pos+n < 0 {
		return 0
	}
	return l.input[l.pos+n]
}

// PeekRune decodes the rune under the cursor. At end of input it returns
// utf8.RuneError with size 0.
func (l *Lexer) PeekRune() (rune, int) {
	if l.EOF() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

// HasPrefix reports whether the input continues with p.
func (l *Lexer) HasPrefix(p string) bool {
	return len(l.input)-l.pos >= len(p) && l.input[l.pos:l.pos+len(p)] == p
}

// Accept consumes p if the input continues with it.
func (l *Lexer) Accept(p string) bool {
	if !l.HasPrefix(p) {
		return false
	}
	l.pos += len(p)
	return true
}

// Advance moves the cursor n bytes forward.
func (l *Lexer) Advance(n int) {
	l.pos += n
	if l.pos > len(l.input) {
		l.pos = len(l.input)
	}
}

// Rest returns the unread input.
func (l *Lexer) Rest() string { return l.input[l.pos:] }

// Slice returns input[from:to].
func (l *Lexer) Slice(from, to int) string { return l.input[from:to] }

// Position converts a byte offset into a 1-based line and a 1-based column
// counted in runes.
func (l *Lexer) Position(off int) (line, col int) {
	if off > len(l.input) {
		off = len(l.input)
	}
	i := sort.Search(len(l.lines), func(i int) bool { return l.lines[i] > off }) - 1
	return i + 1, utf8.RuneCountInString(l.input[l.lines[i]:off]) + 1
}

// ── Whitespace and comments ───────────────────────────────────────────────────

// Whsp consumes zero or more whitespace chunks and reports whether it
// consumed anything. This is `whsp` in the grammar.
func (l *Lexer) Whsp() bool {
	start := l.pos
	for l.chunk() {
	}
	return l.pos > start
}

// Whsp1 consumes one or more whitespace chunks. When no chunk is present it
// consumes nothing and returns false. This is `whsp1` in the grammar.
func (l *Lexer) Whsp1() bool { return l.Whsp() }

// chunk consumes a single whitespace chunk: space, tab, end of line, a
// complete line comment or a complete block comment.
func (l *Lexer) chunk() bool {
	switch l.Peek() {
	case ' ', '\t', '\n':
		l.pos++
		return true
	case '\r':
		if l.PeekAt(1) == '\n' {
			l.pos += 2
			return true
		}
		return false
	case '-':
		if l.PeekAt(1) != '-' {
			return false
		}
		end, ok := l.lineComment(l.pos)
		if !ok {
			return false
		}
		l.pos = end
		return true
	case '{':
		if l.PeekAt(1) != '-' {
			return false
		}
		end, ok := l.blockComment(l.pos)
		if !ok {
			return false
		}
		l.pos = end
		return true
	}
	return false
}

// lineComment scans "--" *not-end-of-line end-of-line starting at off. When
// the input ends before the line does, it returns the end of input and false.
func (l *Lexer) lineComment(off int) (int, bool) {
	i := off + 2
	for i < len(l.input) {
		c := l.input[i]
		switch {
		case c == '\n':
			return i + 1, true
		case c == '\r' && i+1 < len(l.input) && l.input[i+1] == '\n':
			return i + 2, true
		case c == '\t' || (c >= 0x20 && c <= 0x7F):
			i++
		case c >= 0x80:
			r, size := utf8.DecodeRuneInString(l.input[i:])
			if !IsValidNonASCII(r, size) {
				return i, false
			}
			i += size
		default:
			return i, false
		}
	}
	return i, false
}

// blockComment scans a nested "{-" ... "-}" comment starting at off. When the
// input ends before the comment is closed it returns the end of input and
// false; on a disallowed character it returns that character's offset and
// false.
func (l *Lexer) blockComment(off int) (int, bool) {
	depth := 0
	i := off
	for i < len(l.input) {
		rest := l.input[i:]
		switch {
		case len(rest) >= 2 && rest[0] == '{' && rest[1] == '-':
			depth++
			i += 2
		case len(rest) >= 2 && rest[0] == '-' && rest[1] == '}':
			depth--
			i += 2
			if depth == 0 {
				return i, true
			}
		case rest[0] == '\t' || rest[0] == '\n' || (rest[0] >= 0x20 && rest[0] <= 0x7F):
			i++
		case rest[0] == '\r' && len(rest) >= 2 && rest[1] == '\n':
			i += 2
		case rest[0] >= 0x80:
			r, size := utf8.DecodeRuneInString(rest)
			if !IsValidNonASCII(r, size) {
				return i, false
			}
			i += size
		default:
			return i, false
		}
	}
	return i, false
}

// TrailingComment consumes a line comment without a terminating newline or
// an unclosed block comment, but only when it runs to the very end of the
// input. It reports whether it consumed anything.
func (l *Lexer) TrailingComment() bool {
	var (
		end int
		ok  bool
	)
	switch {
	case l.HasPrefix("--"):
		end, ok = l.lineComment(l.pos)
	case l.HasPrefix("{-"):
		end, ok = l.blockComment(l.pos)
	default:
		return false
	}
	if ok || end != len(l.input) {
		return false
	}
	l.pos = end
	return true
}

// BadCommentAt returns the offset of the first disallowed character inside a
// comment starting at the cursor, or -1 when there is no comment there or
// the comment is well formed. The parser uses it to point diagnostics at the
// offending byte rather than at the comment start.
func (l *Lexer) BadCommentAt() int {
	var (
		end int
		ok  bool
	)
	switch {
	case l.HasPrefix("--"):
		end, ok = l.lineComment(l.pos)
	case l.HasPrefix("{-"):
		end, ok = l.blockComment(l.pos)
	default:
		return -1
	}
	if ok || end == len(l.input) {
		return -1
	}
	return end
}
