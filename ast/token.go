// Package ast defines the source positions, reserved words and expression
// nodes produced by the Dhall parser.
//
// Positions are 1-based: the first character of a file is Line 1, Col 1.
// Offset is the 0-based byte offset of that character.
package ast

import "fmt"

// Pos is the location of the first character of a node or error.
type Pos struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based line number
	Col    int // 1-based column, counted in runes
}

// IsValid reports whether p was set by the parser.
func (p Pos) IsValid() bool { return p.Line > 0 }

// String returns "line:col", or "-" for an unset position.
func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// keywords are the reserved words that a simple label may not spell.
// A backtick-quoted label may spell any of them.
var keywords = map[string]bool{
	"if":       true,
	"then":     true,
	"else":     true,
	"let":      true,
	"in":       true,
	"as":       true,
	"using":    true,
	"merge":    true,
	"missing":  true,
	"Infinity": true,
	"NaN":      true,
	"Some":     true,
	"toMap":    true,
	"assert":   true,
	"forall":   true,
	"with":     true,
}

// builtins are the identifiers the parser turns into *Builtin nodes instead
// of variables. True and False are handled separately as *BoolLit.
var builtins = map[string]bool{
	"Natural/fold":      true,
	"Natural/build":     true,
	"Natural/isZero":    true,
	"Natural/even":      true,
	"Natural/odd":       true,
	"Natural/toInteger": true,
	"Natural/show":      true,
	"Natural/subtract":  true,
	"Integer/toDouble":  true,
	"Integer/show":      true,
	"Integer/negate":    true,
	"Integer/clamp":     true,
	"Double/show":       true,
	"List/build":        true,
	"List/fold":         true,
	"List/length":       true,
	"List/head":         true,
	"List/last":         true,
	"List/indexed":      true,
	"List/reverse":      true,
	"Text/show":         true,
	"Text/replace":      true,
	"Date/show":         true,
	"Time/show":         true,
	"TimeZone/show":     true,
	"Bool":              true,
	"Bytes":             true,
	"Optional":          true,
	"None":              true,
	"Natural":           true,
	"Integer":           true,
	"Double":            true,
	"Text":              true,
	"Date":              true,
	"Time":              true,
	"TimeZone":          true,
	"List":              true,
	"Type":              true,
	"Kind":              true,
	"Sort":              true,
}

// IsKeyword reports whether s is a reserved keyword.
func IsKeyword(s string) bool { return keywords[s] }

// IsBuiltin reports whether s names a builtin constant or function.
func IsBuiltin(s string) bool { return builtins[s] }

// Keywords returns the reserved keywords. The order is unspecified.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	return out
}
