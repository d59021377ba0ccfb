package ast_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/metaphox/dhall-go/ast"
)

func TestEqual(t *testing.T) {
	at := func(line int) ast.Pos { return ast.Pos{Offset: line * 10, Line: line, Col: 1} }

	tests := []struct {
		name string
		a, b ast.Expr
		want bool
	}{
		{"positions ignored", &ast.Var{Loc: at(1), Name: "x"}, &ast.Var{Loc: at(7), Name: "x"}, true},
		{"index differs", &ast.Var{Name: "x"}, &ast.Var{Name: "x", Index: 1}, false},
		{"kind differs", v("x"), b("x"), false},
		{"big naturals", &ast.NaturalLit{Value: new(big.Int).Lsh(big.NewInt(1), 80)}, &ast.NaturalLit{Value: new(big.Int).Lsh(big.NewInt(1), 80)}, true},
		{"natural and integer", nat(1), &ast.IntegerLit{Value: big.NewInt(1)}, false},
		{"nan", &ast.DoubleLit{Value: math.NaN()}, &ast.DoubleLit{Value: math.NaN()}, true},
		{"signed zero", &ast.DoubleLit{Value: 0}, &ast.DoubleLit{Value: math.Copysign(0, -1)}, false},
		{"operator differs", op(ast.OpPlus, v("a"), v("b")), op(ast.OpTimes, v("a"), v("b")), false},
		{"nested operands", op(ast.OpPlus, app(v("f"), nat(1)), v("b")), op(ast.OpPlus, app(v("f"), nat(1)), v("b")), true},
		{"text chunks", &ast.TextLit{Chunks: []ast.Chunk{{Prefix: "a", Expr: v("x")}}}, &ast.TextLit{Suffix: "a${x}"}, false},
		{"missing annotation", &ast.Merge{Handler: v("h"), Union: v("u")}, &ast.Merge{Handler: v("h"), Union: v("u"), Annotation: v("T")}, false},
		{"field order", &ast.RecordLit{Fields: []ast.Field{{Label: "a", Value: nat(1)}, {Label: "b", Value: nat(2)}}},
			&ast.RecordLit{Fields: []ast.Field{{Label: "b", Value: nat(2)}, {Label: "a", Value: nat(1)}}}, false},
		{"record literal and type", &ast.RecordLit{}, &ast.RecordType{}, false},
		{"with paths", &ast.With{Record: v("r"), Clauses: []ast.WithClause{{Path: []ast.WithComponent{{Optional: true}}, Value: nat(1)}}},
			&ast.With{Record: v("r"), Clauses: []ast.WithClause{{Path: []ast.WithComponent{{Label: "?"}}, Value: nat(1)}}}, false},
		{"import hash", &ast.Import{Source: &ast.Missing{}, Hash: make([]byte, 32)}, &ast.Import{Source: &ast.Missing{}}, false},
		{"import mode", &ast.Import{Source: &ast.EnvVar{Name: "A"}}, &ast.Import{Source: &ast.EnvVar{Name: "A"}, Mode: ast.ModeRawText}, false},
		{"remote query", &ast.Import{Source: &ast.RemotePath{Scheme: "https", Authority: "x", Query: new(string)}},
			&ast.Import{Source: &ast.RemotePath{Scheme: "https", Authority: "x"}}, false},
		{"path components", &ast.Import{Source: &ast.LocalPath{Kind: ast.PathHere, Components: []string{"a", "b"}}},
			&ast.Import{Source: &ast.LocalPath{Kind: ast.PathHere, Components: []string{"a", "b"}}}, true},
		{"nil", nil, nil, true},
		{"nil and non-nil", nil, v("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ast.Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", show(tt.a), show(tt.b), got, tt.want)
			}
			if got := ast.Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal is not symmetric for %s, %s", show(tt.a), show(tt.b))
			}
		})
	}
}

func show(e ast.Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}

func TestChildren(t *testing.T) {
	headers := v("h")
	tests := []struct {
		name string
		expr ast.Expr
		want []string
	}{
		{"leaf", nat(1), nil},
		{"let", &ast.Let{
			Bindings: []ast.Binding{{Name: "x", Annotation: v("T"), Value: v("a")}, {Name: "y", Value: v("b")}},
			Body:     v("c"),
		}, []string{"T", "a", "b", "c"}},
		{"unannotated merge", &ast.Merge{Handler: v("h"), Union: v("u")}, []string{"h", "u"}},
		{"union without types", &ast.UnionType{Alternatives: []ast.Alternative{{Label: "A"}, {Label: "B", Type: v("T")}}}, []string{"T"}},
		{"text", &ast.TextLit{Chunks: []ast.Chunk{{Prefix: "a", Expr: v("x")}, {Expr: v("y")}}}, []string{"x", "y"}},
		{"with", &ast.With{Record: v("r"), Clauses: []ast.WithClause{{Value: v("a")}, {Value: v("b")}}}, []string{"r", "a", "b"}},
		{"remote headers", &ast.Import{Source: &ast.RemotePath{Scheme: "https", Authority: "x", Headers: headers}}, []string{"h"}},
		{"local import", &ast.Import{Source: &ast.Missing{}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, c := range ast.Children(tt.expr) {
				got = append(got, c.String())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("children (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	// \(x : T) -> f x + { a = y }
	e := &ast.Lambda{
		Param:     "x",
		ParamType: v("T"),
		Body:      op(ast.OpPlus, app(v("f"), v("x")), &ast.RecordLit{Fields: []ast.Field{{Label: "a", Value: v("y")}}}),
	}

	var vars []string
	ast.Inspect(e, func(n ast.Expr) bool {
		if x, ok := n.(*ast.Var); ok {
			vars = append(vars, x.Name)
		}
		return true
	})
	if diff := cmp.Diff([]string{"T", "f", "x", "y"}, vars); diff != "" {
		t.Errorf("visit order (-want +got):\n%s", diff)
	}

	// Returning false prunes the subtree.
	vars = nil
	ast.Inspect(e, func(n ast.Expr) bool {
		if _, ok := n.(*ast.App); ok {
			return false
		}
		if x, ok := n.(*ast.Var); ok {
			vars = append(vars, x.Name)
		}
		return true
	})
	if diff := cmp.Diff([]string{"T", "y"}, vars); diff != "" {
		t.Errorf("pruned visit (-want +got):\n%s", diff)
	}

	ast.Inspect(nil, func(ast.Expr) bool {
		t.Error("callback called for nil")
		return true
	})
}
