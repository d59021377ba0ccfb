package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/metaphox/dhall-go/ast"
)

var (
	// ErrDepthExceeded is wrapped by the SyntaxError returned when
	// expressions nest deeper than Options.MaxDepth.
	ErrDepthExceeded = errors.New("maximum nesting depth exceeded")
	// ErrInvalidUTF8 is wrapped by the SyntaxError returned for input that
	// is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// SyntaxError is the single error kind produced by the parser. It describes
// the furthest position the parser reached, the construct it was inside and
// what it would have accepted there.
type SyntaxError struct {
	File       string
	Pos        ast.Pos
	Production string   // innermost construct being parsed, e.g. "record literal"
	Expected   []string // acceptable items at Pos, e.g. `"}"`, "expression"
	Found      string   // what is at Pos: a quoted character or "end of input"
	Msg        string   // set instead of Expected for specific failures
	Err        error    // ErrDepthExceeded, ErrInvalidUTF8 or nil
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteByte(':')
	}
	fmt.Fprintf(&b, "%s: syntax error", e.Pos)
	if e.Production != "" {
		fmt.Fprintf(&b, " in %s", e.Production)
	}
	b.WriteString(": ")
	switch {
	case e.Msg != "":
		b.WriteString(e.Msg)
	case len(e.Expected) > 0:
		b.WriteString("expected ")
		b.WriteString(joinAlternatives(e.Expected))
	default:
		b.WriteString("unexpected input")
	}
	if e.Found != "" {
		fmt.Fprintf(&b, ", found %s", e.Found)
	}
	return b.String()
}

// Unwrap returns the sentinel cause, if any.
func (e *SyntaxError) Unwrap() error { return e.Err }

func joinAlternatives(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
}

// failure is the internal result of a production that did not match.
// Backtracking points retry on errNoMatch only; errCut means a committing
// token was already consumed and the whole parse fails.
type failure struct{ cut bool }

func (f *failure) Error() string {
	if f.cut {
		return "no match after commit"
	}
	return "no match"
}

var (
	errNoMatch = &failure{}
	errCut     = &failure{cut: true}
)

// cut turns a recoverable mismatch into a committed one. Other errors pass
// through unchanged.
func cut(err error) error {
	if err == errNoMatch {
		return errCut
	}
	return err
}

// farthest tracks the furthest failure seen so far. Only the failures at the
// maximum offset are kept.
type farthest struct {
	off        int
	production string
	msg        string
	expected   []string
}

func (f *farthest) record(off int, production, msg string, expected []string) {
	switch {
	case off > f.off:
		f.off = off
		f.production = production
		f.msg = msg
		f.expected = f.expected[:0]
	case off < f.off:
		return
	}
	if f.msg == "" {
		f.msg = msg
	}
	for _, e := range expected {
		dup := false
		for _, have := range f.expected {
			if have == e {
				dup = true
				break
			}
		}
		if !dup {
			f.expected = append(f.expected, e)
		}
	}
}
