package ast

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/metaphox/dhall-go/lexer"
)

// Printing levels. An expression whose level is below the level required
// by its position is wrapped in parentheses. Levels 1..13 are the binary
// operator precedences.
const (
	levelExpr      = 0
	levelApp       = 14
	levelImport    = 15
	levelSelector  = 16
	levelPrimitive = 17
)

// Format renders e as Dhall source. Parsing the result yields an expression
// that is Equal to e. Text is always written in double-quoted form.
func Format(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e, levelExpr)
	return b.String()
}

func level(e Expr) int {
	switch n := e.(type) {
	case *Lambda, *Pi, *Let, *If, *Assert, *With, *Annot, *EmptyList:
		return levelExpr
	case *Merge:
		if n.Annotation != nil {
			return levelExpr
		}
		return levelApp
	case *ToMap:
		if n.Annotation != nil {
			return levelExpr
		}
		return levelApp
	case *BinaryOp:
		return n.Op.Precedence()
	case *App, *Some:
		return levelApp
	case *Import, *Completion:
		return levelImport
	case *FieldAccess, *Project, *ProjectType:
		return levelSelector
	}
	return levelPrimitive
}

func writeExpr(b *strings.Builder, e Expr, min int) {
	if e == nil {
		b.WriteString("<nil>")
		return
	}
	if level(e) < min {
		b.WriteByte('(')
		writeExpr(b, e, levelExpr)
		b.WriteByte(')')
		return
	}
	switch n := e.(type) {
	case *Var:
		b.WriteString(varName(n.Name))
		if n.Index != 0 {
			fmt.Fprintf(b, "@%d", n.Index)
		}
	case *Builtin:
		b.WriteString(n.Name)
	case *BoolLit:
		if n.Value {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case *NaturalLit:
		b.WriteString(n.Value.String())
	case *IntegerLit:
		if n.Value.Sign() >= 0 {
			b.WriteByte('+')
		}
		b.WriteString(n.Value.String())
	case *DoubleLit:
		b.WriteString(formatDouble(n.Value))
	case *TextLit:
		writeText(b, n)
	case *BytesLit:
		b.WriteString(`0x"`)
		b.WriteString(strings.ToUpper(hex.EncodeToString(n.Value)))
		b.WriteByte('"')
	case *DateLit:
		fmt.Fprintf(b, "%04d-%02d-%02d", n.Year, n.Month, n.Day)
	case *TimeLit:
		fmt.Fprintf(b, "%02d:%02d:%02d", n.Hour, n.Minute, n.Second)
		if n.Fraction != "" {
			b.WriteByte('.')
			b.WriteString(n.Fraction)
		}
	case *TimeZoneLit:
		b.WriteString(formatOffset(n.Minutes))
	case *Lambda:
		fmt.Fprintf(b, "\\(%s : ", label(n.Param))
		writeExpr(b, n.ParamType, levelExpr)
		b.WriteString(") -> ")
		writeExpr(b, n.Body, levelExpr)
	case *Pi:
		if n.Param == "" {
			writeExpr(b, n.ParamType, 1)
		} else {
			fmt.Fprintf(b, "forall (%s : ", label(n.Param))
			writeExpr(b, n.ParamType, levelExpr)
			b.WriteByte(')')
		}
		b.WriteString(" -> ")
		writeExpr(b, n.Body, levelExpr)
	case *App:
		writeExpr(b, n.Fn, levelApp)
		b.WriteByte(' ')
		writeExpr(b, n.Arg, levelImport)
	case *Let:
		for _, bind := range n.Bindings {
			fmt.Fprintf(b, "let %s ", label(bind.Name))
			if bind.Annotation != nil {
				b.WriteString(": ")
				writeExpr(b, bind.Annotation, levelExpr)
				b.WriteByte(' ')
			}
			b.WriteString("= ")
			writeExpr(b, bind.Value, levelExpr)
			b.WriteByte(' ')
		}
		b.WriteString("in ")
		writeExpr(b, n.Body, levelExpr)
	case *If:
		b.WriteString("if ")
		writeExpr(b, n.Cond, levelExpr)
		b.WriteString(" then ")
		writeExpr(b, n.Then, levelExpr)
		b.WriteString(" else ")
		writeExpr(b, n.Else, levelExpr)
	case *Merge:
		b.WriteString("merge ")
		writeExpr(b, n.Handler, levelImport)
		b.WriteByte(' ')
		writeExpr(b, n.Union, levelImport)
		if n.Annotation != nil {
			b.WriteString(" : ")
			writeExpr(b, n.Annotation, levelExpr)
		}
	case *ToMap:
		b.WriteString("toMap ")
		writeExpr(b, n.Record, levelImport)
		if n.Annotation != nil {
			b.WriteString(" : ")
			writeExpr(b, n.Annotation, levelExpr)
		}
	case *Assert:
		b.WriteString("assert : ")
		writeExpr(b, n.Annotation, levelExpr)
	case *With:
		writeExpr(b, n.Record, levelImport)
		for _, c := range n.Clauses {
			b.WriteString(" with ")
			for i, comp := range c.Path {
				if i > 0 {
					b.WriteByte('.')
				}
				if comp.Optional {
					b.WriteByte('?')
				} else {
					b.WriteString(label(comp.Label))
				}
			}
			b.WriteString(" = ")
			writeExpr(b, c.Value, 1)
		}
	case *Annot:
		switch n.Expr.(type) {
		case *Merge, *ToMap:
			// merge x y : T would read as an annotated merge.
			writeExpr(b, n.Expr, levelPrimitive)
		default:
			writeExpr(b, n.Expr, 1)
		}
		b.WriteString(" : ")
		writeExpr(b, n.Type, levelExpr)
	case *Some:
		b.WriteString("Some ")
		writeExpr(b, n.Value, levelImport)
	case *EmptyList:
		b.WriteString("[] : ")
		writeExpr(b, n.Type, levelApp)
	case *NonEmptyList:
		b.WriteString("[ ")
		for i, item := range n.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, item, levelExpr)
		}
		b.WriteString(" ]")
	case *RecordType:
		writeFields(b, n.Fields, ":", "{}")
	case *RecordLit:
		writeFields(b, n.Fields, "=", "{=}")
	case *UnionType:
		if len(n.Alternatives) == 0 {
			b.WriteString("<>")
			return
		}
		b.WriteString("< ")
		for i, alt := range n.Alternatives {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(label(alt.Label))
			if alt.Type != nil {
				b.WriteString(" : ")
				writeExpr(b, alt.Type, levelExpr)
			}
		}
		b.WriteString(" >")
	case *FieldAccess:
		writeExpr(b, n.Record, levelSelector)
		b.WriteByte('.')
		b.WriteString(label(n.Label))
	case *Project:
		writeExpr(b, n.Record, levelSelector)
		b.WriteString(".{")
		for i, l := range n.Labels {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte(' ')
			b.WriteString(label(l))
		}
		if len(n.Labels) > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('}')
	case *ProjectType:
		writeExpr(b, n.Record, levelSelector)
		b.WriteString(".(")
		writeExpr(b, n.Type, levelExpr)
		b.WriteByte(')')
	case *Completion:
		writeExpr(b, n.Type, levelSelector)
		b.WriteString("::")
		writeExpr(b, n.Record, levelSelector)
	case *BinaryOp:
		prec := n.Op.Precedence()
		writeExpr(b, n.Left, prec)
		b.WriteByte(' ')
		b.WriteString(n.Op.String())
		b.WriteByte(' ')
		writeExpr(b, n.Right, prec+1)
	case *Import:
		writeSource(b, n.Source)
		if n.Hash != nil {
			b.WriteString(" sha256:")
			b.WriteString(hex.EncodeToString(n.Hash))
		}
		switch n.Mode {
		case ModeRawText:
			b.WriteString(" as Text")
		case ModeLocation:
			b.WriteString(" as Location")
		case ModeBytes:
			b.WriteString(" as Bytes")
		}
	default:
		fmt.Fprintf(b, "<unknown %T>", e)
	}
}

func writeFields(b *strings.Builder, fields []Field, sep, empty string) {
	if len(fields) == 0 {
		b.WriteString(empty)
		return
	}
	b.WriteString("{ ")
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(label(f.Label))
		b.WriteByte(' ')
		b.WriteString(sep)
		b.WriteByte(' ')
		writeExpr(b, f.Value, levelExpr)
	}
	b.WriteString(" }")
}

func writeText(b *strings.Builder, t *TextLit) {
	b.WriteByte('"')
	for _, c := range t.Chunks {
		writeEscaped(b, c.Prefix)
		b.WriteString("${")
		writeExpr(b, c.Expr, levelExpr)
		b.WriteByte('}')
	}
	writeEscaped(b, t.Suffix)
	b.WriteByte('"')
}

func writeEscaped(b *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '$':
			b.WriteString(`\$`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
}

func formatDouble(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func formatOffset(minutes int) string {
	sign := byte('+')
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}
	return fmt.Sprintf("%c%02d:%02d", sign, minutes/60, minutes%60)
}

// label renders a record, union or binder label, quoting it when needed.
func label(s string) string {
	if lexer.IsSimpleLabel(s) && !IsKeyword(s) {
		return s
	}
	return "`" + s + "`"
}

// varName additionally quotes names that would otherwise parse as a
// builtin or a boolean.
func varName(s string) string {
	if IsBuiltin(s) || s == "True" || s == "False" {
		return "`" + s + "`"
	}
	return label(s)
}

func formatSource(s ImportSource) string {
	var b strings.Builder
	writeSource(&b, s)
	return b.String()
}

func writeSource(b *strings.Builder, s ImportSource) {
	switch n := s.(type) {
	case *LocalPath:
		switch n.Kind {
		case PathHere:
			b.WriteByte('.')
		case PathParent:
			b.WriteString("..")
		case PathHome:
			b.WriteByte('~')
		}
		for _, c := range n.Components {
			b.WriteByte('/')
			b.WriteString(pathComponent(c))
		}
	case *RemotePath:
		b.WriteString(n.Scheme)
		b.WriteString("://")
		b.WriteString(n.Authority)
		for _, seg := range n.Path {
			b.WriteByte('/')
			b.WriteString(seg)
		}
		if n.Query != nil {
			b.WriteByte('?')
			b.WriteString(*n.Query)
		}
		if n.Headers != nil {
			b.WriteString(" using ")
			if _, ok := n.Headers.(*Import); ok {
				// An unparenthesised import would take the outer hash.
				b.WriteByte('(')
				writeExpr(b, n.Headers, levelExpr)
				b.WriteByte(')')
			} else {
				writeExpr(b, n.Headers, levelImport)
			}
		}
	case *EnvVar:
		b.WriteString("env:")
		if lexer.IsBashEnvName(n.Name) {
			b.WriteString(n.Name)
			return
		}
		b.WriteByte('"')
		for i := 0; i < len(n.Name); i++ {
			c := n.Name[i]
			switch c {
			case '"':
				b.WriteString(`\"`)
			case '\\':
				b.WriteString(`\\`)
			case '\a':
				b.WriteString(`\a`)
			case '\b':
				b.WriteString(`\b`)
			case '\f':
				b.WriteString(`\f`)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			case '\v':
				b.WriteString(`\v`)
			default:
				b.WriteByte(c)
			}
		}
		b.WriteByte('"')
	case *Missing:
		b.WriteString("missing")
	default:
		fmt.Fprintf(b, "<unknown %T>", s)
	}
}

func pathComponent(c string) string {
	quote := c == ""
	for i := 0; i < len(c) && !quote; i++ {
		if !lexer.IsPathChar(c[i]) {
			quote = true
		}
	}
	if quote {
		return `"` + c + `"`
	}
	return c
}
