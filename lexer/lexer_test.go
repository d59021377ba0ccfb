// Package lexer_test contains tests for the Dhall lexer.
//
// Tests are organised by category:
//   - TestLexer_Whsp            — optional whitespace, nested and broken comments
//   - TestLexer_TrailingComment — unterminated comments at end of input
//   - TestLexer_BadCommentAt    — disallowed characters inside comments
//   - TestLexer_Cursor          — Peek, Accept, Reset and friends
//   - TestLexer_Position        — line and column tracking across newlines
//   - TestClasses_*             — character classes of the grammar
package lexer_test

import (
	"testing"

	"github.com/metaphox/dhall-go/lexer"
)

// whspCase is a single input together with the offset Whsp should stop at.
type whspCase struct {
	name  string
	input string
	stop  int
}

// runWhsp calls Whsp on each input and checks where the cursor ends up.
func runWhsp(t *testing.T, cases []whspCase) {
	t.Helper()
	for _, tc := range cases {
		l := lexer.New(tc.input)
		consumed := l.Whsp()
		if l.Offset() != tc.stop {
			t.Errorf("%s: stopped at %d, want %d (input %q)", tc.name, l.Offset(), tc.stop, tc.input)
		}
		if consumed != (tc.stop > 0) {
			t.Errorf("%s: Whsp() = %v, want %v", tc.name, consumed, tc.stop > 0)
		}
	}
}

// ── Whitespace ────────────────────────────────────────────────────────────────

// TestLexer_Whsp checks which whitespace chunks are consumed and where the
// cursor stops when a chunk is incomplete.
func TestLexer_Whsp(t *testing.T) {
	runWhsp(t, []whspCase{
		{"empty", "", 0},
		{"no whitespace", "x", 0},
		{"spaces", "  x", 2},
		{"tabs and newlines", "\t\n \nx", 4},
		{"crlf", "\r\nx", 2},
		{"lone cr", "\rx", 0},
		{"line comment", "-- c\nx", 5},
		{"line comment crlf", "-- c\r\nx", 6},
		{"block comment", "{- c -}x", 7},
		{"nested block comment", "{- a {- b -} c -}x", 17},
		{"mixed", " -- a\n{- b -}\t x", 15},
		{"unterminated line comment", "-- c", 0},
		{"unterminated block comment", "{- c", 0},
		{"whitespace before broken comment", "  {- c", 2},
		{"minus is not a comment", "-x", 0},
		{"brace is not a comment", "{x", 0},
		{"control character in comment", "-- a\x01b\nx", 0},
		{"non-ascii in comment", "-- ünïcode\nx", len("-- ünïcode\n")},
	})
}

// TestLexer_Whsp1 verifies that Whsp1 leaves the cursor alone when no
// whitespace is present.
func TestLexer_Whsp1(t *testing.T) {
	l := lexer.New("x y")
	if l.Whsp1() {
		t.Fatal("Whsp1() = true at 'x'")
	}
	l.Advance(1)
	if !l.Whsp1() {
		t.Fatal("Whsp1() = false at ' '")
	}
	if l.Peek() != 'y' {
		t.Errorf("cursor at %q, want 'y'", l.Peek())
	}
}

// ── Trailing comments ─────────────────────────────────────────────────────────

// TestLexer_TrailingComment verifies that only comments running to the end of
// the input are accepted.
func TestLexer_TrailingComment(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"-- no newline", true},
		{"{- never closed", true},
		{"{- a {- b -} still open", true},
		{"{- closed -}", false},
		{"-- bad \x01 char", false},
		{"x", false},
		{"", false},
	}
	for _, tt := range tests {
		l := lexer.New(tt.input)
		got := l.TrailingComment()
		if got != tt.want {
			t.Errorf("TrailingComment(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		if got && !l.EOF() {
			t.Errorf("TrailingComment(%q) stopped at %d, want end of input", tt.input, l.Offset())
		}
		if !got && l.Offset() != 0 {
			t.Errorf("TrailingComment(%q) moved the cursor to %d", tt.input, l.Offset())
		}
	}
}

// TestLexer_BadCommentAt verifies that diagnostics can point at the offending
// byte inside a comment.
func TestLexer_BadCommentAt(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"-- a\x01\n", 4},
		{"{- \x00 -}", 3},
		{"-- \xff\n", 3},
		{"-- fine\n", -1},
		{"{- fine -}", -1},
		{"{- unterminated", -1},
		{"x", -1},
	}
	for _, tt := range tests {
		if got := lexer.New(tt.input).BadCommentAt(); got != tt.want {
			t.Errorf("BadCommentAt(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

// ── Cursor ────────────────────────────────────────────────────────────────────

func TestLexer_Cursor(t *testing.T) {
	l := lexer.New("let x")

	if l.Peek() != 'l' || l.PeekAt(4) != 'x' || l.PeekAt(5) != 0 || l.PeekAt(-1) != 0 {
		t.Errorf("unexpected peeks: %q %q %q %q", l.Peek(), l.PeekAt(4), l.PeekAt(5), l.PeekAt(-1))
	}
	if !l.HasPrefix("let") || l.HasPrefix("let x y") {
		t.Error("HasPrefix mismatch")
	}
	if l.Accept("in") {
		t.Error(`Accept("in") = true`)
	}
	if !l.Accept("let") || l.Offset() != 3 {
		t.Errorf(`Accept("let") left the cursor at %d`, l.Offset())
	}
	if l.Rest() != " x" {
		t.Errorf("Rest() = %q", l.Rest())
	}

	mark := l.Offset()
	l.Advance(10)
	if !l.EOF() || l.Offset() != 5 {
		t.Errorf("Advance past the end: offset %d, EOF %v", l.Offset(), l.EOF())
	}
	l.Reset(mark)
	if l.Peek() != ' ' {
		t.Errorf("Reset: cursor at %q", l.Peek())
	}
	if got := l.Slice(0, 3); got != "let" {
		t.Errorf("Slice(0, 3) = %q", got)
	}
}

func TestLexer_PeekRune(t *testing.T) {
	l := lexer.New("λx")
	r, size := l.PeekRune()
	if r != 'λ' || size != 2 {
		t.Errorf("PeekRune() = %q, %d", r, size)
	}
	l.Advance(3)
	if _, size := l.PeekRune(); size != 0 {
		t.Errorf("PeekRune() at EOF has size %d", size)
	}
}

// ── Position tracking ─────────────────────────────────────────────────────────

// TestLexer_Position verifies line and column numbers, with columns counted
// in runes.
func TestLexer_Position(t *testing.T) {
	l := lexer.New("ab\ncd\n€x")

	type posCase struct {
		off  int
		line int
		col  int
	}
	cases := []posCase{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{9, 3, 2},
		{10, 3, 3},
		{99, 3, 3},
	}
	for _, c := range cases {
		line, col := l.Position(c.off)
		if line != c.line || col != c.col {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", c.off, line, col, c.line, c.col)
		}
	}
}

// ── Character classes ─────────────────────────────────────────────────────────

func TestClasses_Labels(t *testing.T) {
	for _, s := range []string{"x", "_", "foo-bar", "List/map", "a1_"} {
		if !lexer.IsSimpleLabel(s) {
			t.Errorf("IsSimpleLabel(%q) = false", s)
		}
	}
	for _, s := range []string{"", "1a", "-a", "/a", "a b", "a.b"} {
		if lexer.IsSimpleLabel(s) {
			t.Errorf("IsSimpleLabel(%q) = true", s)
		}
	}
	if got := lexer.ScanSimpleLabel("x ab-c/d y", 2); got != 8 {
		t.Errorf("ScanSimpleLabel = %d, want 8", got)
	}
	if got := lexer.ScanSimpleLabel("9", 0); got != 0 {
		t.Errorf("ScanSimpleLabel on a digit = %d, want 0", got)
	}
	if lexer.IsQuotedLabelChar('`') || !lexer.IsQuotedLabelChar(' ') {
		t.Error("IsQuotedLabelChar mismatch")
	}
}

func TestClasses_Unicode(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		size int
		want bool
	}{
		{"latin", 'é', 2, true},
		{"cjk", '日', 3, true},
		{"emoji", '😀', 4, true},
		{"ascii", 'a', 1, false},
		{"noncharacter", 0xFFFE, 3, false},
		{"plane 16 noncharacter", 0x10FFFF, 4, false},
		{"decode error", 0xFFFD, 1, false},
	}
	for _, tt := range tests {
		if got := lexer.IsValidNonASCII(tt.r, tt.size); got != tt.want {
			t.Errorf("%s: IsValidNonASCII(%U) = %v, want %v", tt.name, tt.r, got, tt.want)
		}
	}

	if lexer.IsValidCodePoint(0xD800) {
		t.Error("surrogate accepted as code point")
	}
	if !lexer.IsValidCodePoint(0x1F600) || !lexer.IsValidCodePoint(0) {
		t.Error("valid code point rejected")
	}
}

func TestClasses_Digits(t *testing.T) {
	for c, want := range map[byte]int{'0': 0, '9': 9, 'a': 10, 'F': 15, 'g': -1} {
		if got := lexer.HexValue(c); got != want {
			t.Errorf("HexValue(%q) = %d, want %d", c, got, want)
		}
	}
	if !lexer.IsBit('1') || lexer.IsBit('2') {
		t.Error("IsBit mismatch")
	}
}

func TestClasses_Env(t *testing.T) {
	for _, s := range []string{"HOME", "_x", "A1"} {
		if !lexer.IsBashEnvName(s) {
			t.Errorf("IsBashEnvName(%q) = false", s)
		}
	}
	for _, s := range []string{"", "1A", "A-B", "A.B"} {
		if lexer.IsBashEnvName(s) {
			t.Errorf("IsBashEnvName(%q) = true", s)
		}
	}
	if lexer.IsPOSIXEnvChar('"') || lexer.IsPOSIXEnvChar('=') || !lexer.IsPOSIXEnvChar('-') {
		t.Error("IsPOSIXEnvChar mismatch")
	}
}

func TestClasses_URL(t *testing.T) {
	for _, c := range []byte{'(', ')', ','} {
		if lexer.IsSubDelim(c) {
			t.Errorf("IsSubDelim(%q) = true", c)
		}
	}
	if !lexer.IsUnreserved('~') || lexer.IsUnreserved('/') {
		t.Error("IsUnreserved mismatch")
	}
	if lexer.IsPathChar('/') || lexer.IsPathChar('(') || !lexer.IsPathChar('.') {
		t.Error("IsPathChar mismatch")
	}
}
