// Package render turns parser output into something a person or another
// program can read: an ordered AST dump in JSON or YAML, and styled
// diagnostics for syntax errors.
package render

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/metaphox/dhall-go/ast"
)

// Node is an ordered mapping describing one AST node. The first entries are
// always "kind" and "pos"; the rest depend on the kind.
type Node struct {
	entries []entry
}

type entry struct {
	key   string
	value any
}

func newNode(kind string, pos ast.Pos) *Node {
	n := &Node{}
	return n.set("kind", kind).set("pos", pos.String())
}

func (n *Node) set(key string, value any) *Node {
	n.entries = append(n.entries, entry{key, value})
	return n
}

// Get returns the value stored under key.
func (n *Node) Get(key string) (any, bool) {
	for _, e := range n.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// Keys returns the entry names in order.
func (n *Node) Keys() []string {
	keys := make([]string, len(n.entries))
	for i, e := range n.entries {
		keys[i] = e.key
	}
	return keys
}

// MarshalJSON writes the entries as a JSON object in order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range n.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(e.key)
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(e.value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", e.key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML builds an ordered mapping node.
func (n *Node) MarshalYAML() (any, error) {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range n.entries {
		var v yaml.Node
		if err := v.Encode(e.value); err != nil {
			return nil, fmt.Errorf("field %s: %w", e.key, err)
		}
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.key}, &v)
	}
	return m, nil
}

// JSON writes the tree of e as indented JSON.
func JSON(w io.Writer, e ast.Expr) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Tree(e))
}

// YAML writes the tree of e as YAML.
func YAML(w io.Writer, e ast.Expr) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Tree(e)); err != nil {
		return err
	}
	return enc.Close()
}

// Tree converts e into plain ordered data. A nil expression becomes nil.
func Tree(e ast.Expr) *Node {
	if e == nil {
		return nil
	}
	switch x := e.(type) {
	case *ast.Var:
		return newNode("Var", x.Loc).set("name", x.Name).set("index", x.Index)
	case *ast.Builtin:
		return newNode("Builtin", x.Loc).set("name", x.Name)
	case *ast.NaturalLit:
		return newNode("NaturalLit", x.Loc).set("value", x.Value.String())
	case *ast.IntegerLit:
		return newNode("IntegerLit", x.Loc).set("value", x.Value.String())
	case *ast.DoubleLit:
		return newNode("DoubleLit", x.Loc).set("value", double(x.Value))
	case *ast.BoolLit:
		return newNode("BoolLit", x.Loc).set("value", x.Value)
	case *ast.TextLit:
		chunks := make([]any, 0, len(x.Chunks))
		for _, c := range x.Chunks {
			chunks = append(chunks, (&Node{}).set("prefix", c.Prefix).set("expr", Tree(c.Expr)))
		}
		return newNode("TextLit", x.Loc).set("chunks", chunks).set("suffix", x.Suffix)
	case *ast.BytesLit:
		return newNode("BytesLit", x.Loc).set("hex", hex.EncodeToString(x.Value))
	case *ast.DateLit:
		return newNode("DateLit", x.Loc).set("year", x.Year).set("month", x.Month).set("day", x.Day)
	case *ast.TimeLit:
		return newNode("TimeLit", x.Loc).
			set("hour", x.Hour).set("minute", x.Minute).set("second", x.Second).set("fraction", x.Fraction)
	case *ast.TimeZoneLit:
		return newNode("TimeZoneLit", x.Loc).set("minutes", x.Minutes)
	case *ast.Lambda:
		return newNode("Lambda", x.Loc).set("param", x.Param).set("type", Tree(x.ParamType)).set("body", Tree(x.Body))
	case *ast.Pi:
		return newNode("Pi", x.Loc).set("param", x.Param).set("type", Tree(x.ParamType)).set("body", Tree(x.Body))
	case *ast.App:
		return newNode("App", x.Loc).set("fn", Tree(x.Fn)).set("arg", Tree(x.Arg))
	case *ast.Let:
		bindings := make([]any, 0, len(x.Bindings))
		for _, b := range x.Bindings {
			bindings = append(bindings, (&Node{}).
				set("name", b.Name).set("pos", b.Loc.String()).
				set("annotation", Tree(b.Annotation)).set("value", Tree(b.Value)))
		}
		return newNode("Let", x.Loc).set("bindings", bindings).set("body", Tree(x.Body))
	case *ast.If:
		return newNode("If", x.Loc).set("cond", Tree(x.Cond)).set("then", Tree(x.Then)).set("else", Tree(x.Else))
	case *ast.Merge:
		return newNode("Merge", x.Loc).
			set("handler", Tree(x.Handler)).set("union", Tree(x.Union)).set("annotation", Tree(x.Annotation))
	case *ast.ToMap:
		return newNode("ToMap", x.Loc).set("record", Tree(x.Record)).set("annotation", Tree(x.Annotation))
	case *ast.Assert:
		return newNode("Assert", x.Loc).set("annotation", Tree(x.Annotation))
	case *ast.With:
		clauses := make([]any, 0, len(x.Clauses))
		for _, c := range x.Clauses {
			path := make([]any, 0, len(c.Path))
			for _, comp := range c.Path {
				if comp.Optional {
					path = append(path, "?")
				} else {
					path = append(path, comp.Label)
				}
			}
			clauses = append(clauses, (&Node{}).set("path", path).set("value", Tree(c.Value)))
		}
		return newNode("With", x.Loc).set("record", Tree(x.Record)).set("clauses", clauses)
	case *ast.Annot:
		return newNode("Annot", x.Loc).set("expr", Tree(x.Expr)).set("type", Tree(x.Type))
	case *ast.Some:
		return newNode("Some", x.Loc).set("value", Tree(x.Value))
	case *ast.EmptyList:
		return newNode("EmptyList", x.Loc).set("type", Tree(x.Type))
	case *ast.NonEmptyList:
		items := make([]any, 0, len(x.Items))
		for _, it := range x.Items {
			items = append(items, Tree(it))
		}
		return newNode("NonEmptyList", x.Loc).set("items", items)
	case *ast.RecordType:
		return newNode("RecordType", x.Loc).set("fields", fields(x.Fields))
	case *ast.RecordLit:
		return newNode("RecordLit", x.Loc).set("fields", fields(x.Fields))
	case *ast.UnionType:
		alts := make([]any, 0, len(x.Alternatives))
		for _, a := range x.Alternatives {
			alts = append(alts, (&Node{}).set("label", a.Label).set("type", Tree(a.Type)))
		}
		return newNode("UnionType", x.Loc).set("alternatives", alts)
	case *ast.FieldAccess:
		return newNode("FieldAccess", x.Loc).set("record", Tree(x.Record)).set("label", x.Label)
	case *ast.Project:
		labels := make([]any, 0, len(x.Labels))
		for _, l := range x.Labels {
			labels = append(labels, l)
		}
		return newNode("Project", x.Loc).set("record", Tree(x.Record)).set("labels", labels)
	case *ast.ProjectType:
		return newNode("ProjectType", x.Loc).set("record", Tree(x.Record)).set("type", Tree(x.Type))
	case *ast.Completion:
		return newNode("Completion", x.Loc).set("type", Tree(x.Type)).set("record", Tree(x.Record))
	case *ast.BinaryOp:
		return newNode("BinaryOp", x.Loc).
			set("op", x.Op.Name()).set("left", Tree(x.Left)).set("right", Tree(x.Right))
	case *ast.Import:
		n := newNode("Import", x.Loc).set("source", source(x.Source)).set("mode", x.Mode.String())
		if x.Hash != nil {
			n.set("sha256", hex.EncodeToString(x.Hash))
		}
		return n
	}
	return newNode(fmt.Sprintf("%T", e), e.Pos())
}

func fields(fs []ast.Field) []any {
	out := make([]any, 0, len(fs))
	for _, f := range fs {
		out = append(out, (&Node{}).set("label", f.Label).set("value", Tree(f.Value)))
	}
	return out
}

func source(s ast.ImportSource) *Node {
	switch x := s.(type) {
	case *ast.LocalPath:
		comps := make([]any, 0, len(x.Components))
		for _, c := range x.Components {
			comps = append(comps, c)
		}
		return newNode("LocalPath", x.Loc).set("base", x.Kind.String()).set("components", comps)
	case *ast.RemotePath:
		path := make([]any, 0, len(x.Path))
		for _, c := range x.Path {
			path = append(path, c)
		}
		n := newNode("RemotePath", x.Loc).
			set("scheme", x.Scheme).set("authority", x.Authority).set("path", path)
		if x.Query != nil {
			n.set("query", *x.Query)
		}
		return n.set("headers", Tree(x.Headers))
	case *ast.EnvVar:
		return newNode("EnvVar", x.Loc).set("name", x.Name)
	case *ast.Missing:
		return newNode("Missing", x.Loc)
	}
	return nil
}

// double keeps finite values numeric and spells out the rest, which JSON
// cannot represent.
func double(v float64) any {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0 && math.Signbit(v):
		return "-0.0"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return json.Number(s)
}
