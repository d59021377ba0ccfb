package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/metaphox/dhall-go/parser"
)

// Colors
var (
	colorError  = lipgloss.Color("#EF4444")
	colorAccent = lipgloss.Color("#F59E0B")
	colorMuted  = lipgloss.Color("#6B7280")
)

// Styles
var (
	errorLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	locationStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	gutterStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	caretStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)
)

// Diagnostic renders err against the source it came from:
//
//	error: expected expression, found "}"
//	  --> config.dhall:1:7 (record literal)
//	   |
//	 1 | { a = }
//	   |       ^
//
// With color unset the output is plain text.
func Diagnostic(src string, err *parser.SyntaxError, color bool) string {
	style := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	b.WriteString(style(errorLabelStyle, "error:"))
	b.WriteByte(' ')
	b.WriteString(summary(err))
	b.WriteByte('\n')

	loc := err.Pos.String()
	if err.File != "" {
		loc = err.File + ":" + loc
	}
	if err.Production != "" {
		loc += " (" + err.Production + ")"
	}
	fmt.Fprintf(&b, "  %s %s\n", style(locationStyle, "-->"), loc)

	line, ok := sourceLine(src, err.Pos.Line)
	if !ok {
		return b.String()
	}
	num := fmt.Sprint(err.Pos.Line)
	pad := strings.Repeat(" ", len(num))
	bar := style(gutterStyle, "|")

	// Tabs are shown as single spaces so the caret lines up.
	line = strings.ReplaceAll(line, "\t", " ")
	before := line
	if runes := []rune(line); err.Pos.Col-1 <= len(runes) {
		before = string(runes[:max(err.Pos.Col-1, 0)])
	}

	fmt.Fprintf(&b, " %s %s\n", pad, bar)
	fmt.Fprintf(&b, " %s %s %s\n", style(gutterStyle, num), bar, line)
	fmt.Fprintf(&b, " %s %s %s%s\n", pad, bar, strings.Repeat(" ", lipgloss.Width(before)), style(caretStyle, "^"))
	return b.String()
}

// summary is the error message without the location prefix.
func summary(err *parser.SyntaxError) string {
	var msg string
	switch {
	case err.Msg != "":
		msg = err.Msg
	case len(err.Expected) > 0:
		msg = "expected " + strings.Join(err.Expected, ", ")
		if n := len(err.Expected); n > 1 {
			msg = "expected " + strings.Join(err.Expected[:n-1], ", ") + " or " + err.Expected[n-1]
		}
	default:
		msg = "syntax error"
	}
	if err.Found != "" {
		msg += ", found " + err.Found
	}
	return msg
}

// sourceLine returns the 1-based line n of src without its terminator.
func sourceLine(src string, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	for i := 1; i < n; i++ {
		j := strings.IndexByte(src, '\n')
		if j < 0 {
			return "", false
		}
		src = src[j+1:]
	}
	if j := strings.IndexByte(src, '\n'); j >= 0 {
		src = src[:j]
	}
	return strings.TrimSuffix(src, "\r"), true
}
