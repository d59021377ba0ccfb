package ast_test

import (
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/metaphox/dhall-go/ast"
)

// Small constructors keep the tables readable.

func v(name string) *ast.Var { return &ast.Var{Name: name} }
func b(name string) *ast.Builtin { return &ast.Builtin{Name: name} }
func nat(n int64) *ast.NaturalLit { return &ast.NaturalLit{Value: big.NewInt(n)} }
func app(f, x ast.Expr) *ast.App { return &ast.App{Fn: f, Arg: x} }
func op(o ast.Operator, l, r ast.Expr) ast.Expr { return &ast.BinaryOp{Op: o, Left: l, Right: r} }

func TestFormat(t *testing.T) {
	query := "a=1"
	tests := []struct {
		name string
		expr ast.Expr
		want string
	}{
		// Identifiers
		{"indexed variable", &ast.Var{Name: "x", Index: 2}, "x@2"},
		{"variable named like a builtin", v("Natural"), "`Natural`"},
		{"variable named like a boolean", v("True"), "`True`"},
		{"keyword variable", v("if"), "`if`"},
		{"variable with a space", v("a b"), "`a b`"},
		{"builtin", b("List/fold"), "List/fold"},

		// Literals
		{"natural", &ast.NaturalLit{Value: new(big.Int).Lsh(big.NewInt(1), 70)}, "1180591620717411303424"},
		{"positive integer", &ast.IntegerLit{Value: big.NewInt(0)}, "+0"},
		{"negative integer", &ast.IntegerLit{Value: big.NewInt(-3)}, "-3"},
		{"whole double", &ast.DoubleLit{Value: 1}, "1.0"},
		{"large double", &ast.DoubleLit{Value: 1e300}, "1e+300"},
		{"negative zero", &ast.DoubleLit{Value: math.Copysign(0, -1)}, "-0.0"},
		{"nan", &ast.DoubleLit{Value: math.NaN()}, "NaN"},
		{"negative infinity", &ast.DoubleLit{Value: math.Inf(-1)}, "-Infinity"},
		{"bool", &ast.BoolLit{Value: false}, "False"},
		{"bytes", &ast.BytesLit{Value: []byte{0xab, 0x01}}, `0x"AB01"`},
		{"date", &ast.DateLit{Year: 2024, Month: 2, Day: 29}, "2024-02-29"},
		{"time", &ast.TimeLit{Hour: 1, Minute: 2, Second: 3, Fraction: "50"}, "01:02:03.50"},
		{"time zone", &ast.TimeZoneLit{Minutes: -330}, "-05:30"},

		// Text
		{"text escapes", &ast.TextLit{
			Chunks: []ast.Chunk{{Prefix: `a"`, Expr: v("x")}},
			Suffix: "$\n\x01",
		}, `"a\"${x}\$\n\u0001"`},
		{"empty text", &ast.TextLit{}, `""`},

		// Operators
		{"left-nested operator", op(ast.OpPlus, op(ast.OpPlus, v("a"), v("b")), v("c")), "a + b + c"},
		{"right-nested operator", op(ast.OpPlus, v("a"), op(ast.OpPlus, v("b"), v("c"))), "a + (b + c)"},
		{"looser operand", op(ast.OpTimes, op(ast.OpPlus, v("a"), v("b")), v("c")), "(a + b) * c"},
		{"tighter operand", op(ast.OpPlus, v("a"), op(ast.OpTimes, v("b"), v("c"))), "a + b * c"},
		{"combine types", op(ast.OpCombineTypes, v("a"), v("b")), `a //\\ b`},

		// Functions
		{"nested application", app(v("f"), app(v("g"), v("x"))), "f (g x)"},
		{"curried application", app(app(v("f"), v("x")), v("y")), "f x y"},
		{"lambda", &ast.Lambda{Param: "then", ParamType: b("Bool"), Body: v("then")}, "\\(`then` : Bool) -> `then`"},
		{"function argument", &ast.Pi{ParamType: &ast.Pi{ParamType: v("A"), Body: v("B")}, Body: v("C")}, "(A -> B) -> C"},
		{"forall", &ast.Pi{Param: "a", ParamType: b("Type"), Body: v("a")}, "forall (a : Type) -> a"},

		// Keyword forms
		{"let", &ast.Let{
			Bindings: []ast.Binding{
				{Name: "x", Annotation: b("Natural"), Value: nat(1)},
				{Name: "y", Value: v("x")},
			},
			Body: v("y"),
		}, "let x : Natural = 1 let y = x in y"},
		{"if", &ast.If{Cond: &ast.BoolLit{Value: true}, Then: nat(1), Else: nat(2)}, "if True then 1 else 2"},
		{"annotated merge", &ast.Merge{Handler: v("h"), Union: v("u"), Annotation: v("T")}, "merge h u : T"},
		{"annotation of a merge", &ast.Annot{Expr: &ast.Merge{Handler: v("h"), Union: v("u")}, Type: v("T")}, "(merge h u) : T"},
		{"merge as argument", app(v("f"), &ast.Merge{Handler: v("h"), Union: v("u")}), "f (merge h u)"},
		{"toMap", &ast.ToMap{Record: v("r"), Annotation: app(b("List"), v("T"))}, "toMap r : List T"},
		{"assert", &ast.Assert{Annotation: op(ast.OpEquivalent, v("a"), v("b"))}, "assert : a === b"},
		{"with", &ast.With{Record: v("r"), Clauses: []ast.WithClause{
			{Path: []ast.WithComponent{{Label: "a"}, {Optional: true}}, Value: op(ast.OpPlus, nat(1), nat(2))},
		}}, "r with a.? = 1 + 2"},
		{"some", &ast.Some{Value: app(v("f"), v("x"))}, "Some (f x)"},

		// Collections
		{"empty list", &ast.EmptyList{Type: app(b("List"), b("Natural"))}, "[] : List Natural"},
		{"list", &ast.NonEmptyList{Items: []ast.Expr{nat(1), &ast.Lambda{Param: "x", ParamType: b("Bool"), Body: v("x")}}}, `[ 1, \(x : Bool) -> x ]`},
		{"empty record literal", &ast.RecordLit{}, "{=}"},
		{"empty record type", &ast.RecordType{}, "{}"},
		{"record literal", &ast.RecordLit{Fields: []ast.Field{{Label: "a", Value: nat(1)}, {Label: "Some", Value: nat(2)}}}, "{ a = 1, `Some` = 2 }"},
		{"record type", &ast.RecordType{Fields: []ast.Field{{Label: "a", Value: b("Text")}}}, "{ a : Text }"},
		{"empty union", &ast.UnionType{}, "<>"},
		{"union", &ast.UnionType{Alternatives: []ast.Alternative{{Label: "A", Type: b("Bool")}, {Label: "B"}}}, "< A : Bool | B >"},

		// Selection
		{"field of application", &ast.FieldAccess{Record: app(v("f"), v("x")), Label: "a"}, "(f x).a"},
		{"projection", &ast.Project{Record: v("r"), Labels: []string{"a", "b"}}, "r.{ a, b }"},
		{"empty projection", &ast.Project{Record: v("r")}, "r.{}"},
		{"projection by type", &ast.ProjectType{Record: v("r"), Type: v("T")}, "r.(T)"},
		{"completion", &ast.Completion{Type: v("T"), Record: &ast.RecordLit{Fields: []ast.Field{{Label: "a", Value: nat(1)}}}}, "T::{ a = 1 }"},

		// Imports
		{"local import", &ast.Import{
			Source: &ast.LocalPath{Kind: ast.PathHere, Components: []string{"a b", "c.dhall"}},
			Mode:   ast.ModeLocation,
		}, `./"a b"/c.dhall as Location`},
		{"home import", &ast.Import{Source: &ast.LocalPath{Kind: ast.PathHome, Components: []string{"x"}}}, "~/x"},
		{"parent import", &ast.Import{Source: &ast.LocalPath{Kind: ast.PathParent, Components: []string{"x"}}, Mode: ast.ModeBytes}, "../x as Bytes"},
		{"absolute import", &ast.Import{Source: &ast.LocalPath{Kind: ast.PathAbsolute, Components: []string{"etc", "x"}}}, "/etc/x"},
		{"hashed import", &ast.Import{Source: &ast.Missing{}, Hash: make([]byte, 32)}, "missing sha256:" + strings.Repeat("0", 64)},
		{"remote import", &ast.Import{Source: &ast.RemotePath{
			Scheme:    "https",
			Authority: "example.com",
			Path:      []string{"x"},
			Query:     &query,
			Headers:   &ast.Import{Source: &ast.EnvVar{Name: "TOKEN"}},
		}}, "https://example.com/x?a=1 using (env:TOKEN)"},
		{"quoted env", &ast.Import{Source: &ast.EnvVar{Name: "MY\tVAR"}, Mode: ast.ModeRawText}, `env:"MY\tVAR" as Text`},
		{"import alternative", op(ast.OpImportAlt, &ast.Import{Source: &ast.EnvVar{Name: "A"}}, &ast.Import{Source: &ast.Missing{}}), "env:A ? missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ast.Format(tt.expr); got != tt.want {
				t.Errorf("Format = %s, want %s", got, tt.want)
			}
		})
	}
}

// TestFormat_String checks that String on a node prints the same as Format.
func TestFormat_String(t *testing.T) {
	e := op(ast.OpTextAppend, v("a"), &ast.TextLit{Suffix: "b"})
	if e.String() != ast.Format(e) {
		t.Errorf("String() = %q, Format = %q", e.String(), ast.Format(e))
	}
	src := &ast.LocalPath{Kind: ast.PathHere, Components: []string{"x"}}
	if src.String() != "./x" {
		t.Errorf("LocalPath.String() = %q", src.String())
	}
}

func TestOperator(t *testing.T) {
	ops := ast.Operators()
	if len(ops) != 13 {
		t.Fatalf("got %d operators, want 13", len(ops))
	}
	if ops[0] != ast.OpEquivalent || ops[len(ops)-1] != ast.OpNotEqual {
		t.Errorf("operators out of order: %v", ops)
	}
	for i := 1; i < len(ops); i++ {
		if ops[i].Precedence() <= ops[i-1].Precedence() {
			t.Errorf("%s does not bind tighter than %s", ops[i].Name(), ops[i-1].Name())
		}
	}

	if ast.OpTextAppend.String() != "++" || ast.OpTextAppend.Name() != "TextAppend" {
		t.Errorf("TextAppend: %q %q", ast.OpTextAppend.String(), ast.OpTextAppend.Name())
	}
	if ast.Operator(0).Name() != "Unknown" || ast.Operator(99).String() != "?op" {
		t.Error("invalid operator not reported")
	}
}

func TestEnums(t *testing.T) {
	for k, want := range map[ast.PathKind]string{
		ast.PathAbsolute: "Absolute",
		ast.PathHere:     "Here",
		ast.PathParent:   "Parent",
		ast.PathHome:     "Home",
	} {
		if k.String() != want {
			t.Errorf("PathKind %d = %q, want %q", int(k), k.String(), want)
		}
	}
	for m, want := range map[ast.ImportMode]string{
		ast.ModeCode:     "Code",
		ast.ModeRawText:  "RawText",
		ast.ModeLocation: "Location",
		ast.ModeBytes:    "Bytes",
	} {
		if m.String() != want {
			t.Errorf("ImportMode %d = %q, want %q", int(m), m.String(), want)
		}
	}
}

func TestPos(t *testing.T) {
	if got := (ast.Pos{Offset: 10, Line: 2, Col: 4}).String(); got != "2:4" {
		t.Errorf("Pos.String() = %q", got)
	}
	if (ast.Pos{}).IsValid() || (ast.Pos{}).String() != "-" {
		t.Error("zero Pos reported as valid")
	}
}

func TestKeywords(t *testing.T) {
	kws := ast.Keywords()
	if len(kws) != 16 {
		t.Errorf("got %d keywords, want 16", len(kws))
	}
	for _, kw := range kws {
		if !ast.IsKeyword(kw) {
			t.Errorf("IsKeyword(%q) = false", kw)
		}
	}
	if ast.IsKeyword("True") || ast.IsKeyword("Natural") {
		t.Error("builtin reported as keyword")
	}
	if !ast.IsBuiltin("Natural/fold") || ast.IsBuiltin("List/map") {
		t.Error("IsBuiltin mismatch")
	}
}
