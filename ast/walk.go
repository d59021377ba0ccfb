package ast

import (
	"bytes"
	"math"
)

// Inspect traverses e in depth-first order, calling fn for each expression.
// If fn returns false, Inspect does not descend into that expression's
// children. Headers of remote imports are visited as children of the import.
func Inspect(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range Children(e) {
		Inspect(c, fn)
	}
}

// Children returns the direct sub-expressions of e in source order.
func Children(e Expr) []Expr {
	switch n := e.(type) {
	case *TextLit:
		out := make([]Expr, 0, len(n.Chunks))
		for _, c := range n.Chunks {
			out = append(out, c.Expr)
		}
		return out
	case *Lambda:
		return []Expr{n.ParamType, n.Body}
	case *Pi:
		return []Expr{n.ParamType, n.Body}
	case *App:
		return []Expr{n.Fn, n.Arg}
	case *Let:
		var out []Expr
		for _, b := range n.Bindings {
			if b.Annotation != nil {
				out = append(out, b.Annotation)
			}
			out = append(out, b.Value)
		}
		return append(out, n.Body)
	case *If:
		return []Expr{n.Cond, n.Then, n.Else}
	case *Merge:
		return nonNil(n.Handler, n.Union, n.Annotation)
	case *ToMap:
		return nonNil(n.Record, n.Annotation)
	case *Assert:
		return []Expr{n.Annotation}
	case *With:
		out := []Expr{n.Record}
		for _, c := range n.Clauses {
			out = append(out, c.Value)
		}
		return out
	case *Annot:
		return []Expr{n.Expr, n.Type}
	case *Some:
		return []Expr{n.Value}
	case *EmptyList:
		return []Expr{n.Type}
	case *NonEmptyList:
		return append([]Expr(nil), n.Items...)
	case *RecordType:
		return fieldValues(n.Fields)
	case *RecordLit:
		return fieldValues(n.Fields)
	case *UnionType:
		var out []Expr
		for _, a := range n.Alternatives {
			if a.Type != nil {
				out = append(out, a.Type)
			}
		}
		return out
	case *FieldAccess:
		return []Expr{n.Record}
	case *Project:
		return []Expr{n.Record}
	case *ProjectType:
		return []Expr{n.Record, n.Type}
	case *Completion:
		return []Expr{n.Type, n.Record}
	case *BinaryOp:
		return []Expr{n.Left, n.Right}
	case *Import:
		if r, ok := n.Source.(*RemotePath); ok && r.Headers != nil {
			return []Expr{r.Headers}
		}
	}
	return nil
}

func nonNil(es ...Expr) []Expr {
	out := es[:0]
	for _, e := range es {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func fieldValues(fs []Field) []Expr {
	out := make([]Expr, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Value)
	}
	return out
}

// Equal reports whether a and b are the same expression, ignoring source
// positions. Two NaN doubles are equal.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Var:
		y, ok := b.(*Var)
		return ok && x.Name == y.Name && x.Index == y.Index
	case *Builtin:
		y, ok := b.(*Builtin)
		return ok && x.Name == y.Name
	case *NaturalLit:
		y, ok := b.(*NaturalLit)
		return ok && x.Value.Cmp(y.Value) == 0
	case *IntegerLit:
		y, ok := b.(*IntegerLit)
		return ok && x.Value.Cmp(y.Value) == 0
	case *DoubleLit:
		y, ok := b.(*DoubleLit)
		if !ok {
			return false
		}
		if math.IsNaN(x.Value) || math.IsNaN(y.Value) {
			return math.IsNaN(x.Value) && math.IsNaN(y.Value)
		}
		return x.Value == y.Value && math.Signbit(x.Value) == math.Signbit(y.Value)
	case *BoolLit:
		y, ok := b.(*BoolLit)
		return ok && x.Value == y.Value
	case *TextLit:
		y, ok := b.(*TextLit)
		if !ok || x.Suffix != y.Suffix || len(x.Chunks) != len(y.Chunks) {
			return false
		}
		for i := range x.Chunks {
			if x.Chunks[i].Prefix != y.Chunks[i].Prefix || !Equal(x.Chunks[i].Expr, y.Chunks[i].Expr) {
				return false
			}
		}
		return true
	case *BytesLit:
		y, ok := b.(*BytesLit)
		return ok && bytes.Equal(x.Value, y.Value)
	case *DateLit:
		y, ok := b.(*DateLit)
		return ok && x.Year == y.Year && x.Month == y.Month && x.Day == y.Day
	case *TimeLit:
		y, ok := b.(*TimeLit)
		return ok && x.Hour == y.Hour && x.Minute == y.Minute && x.Second == y.Second && x.Fraction == y.Fraction
	case *TimeZoneLit:
		y, ok := b.(*TimeZoneLit)
		return ok && x.Minutes == y.Minutes
	case *Lambda:
		y, ok := b.(*Lambda)
		return ok && x.Param == y.Param && Equal(x.ParamType, y.ParamType) && Equal(x.Body, y.Body)
	case *Pi:
		y, ok := b.(*Pi)
		return ok && x.Param == y.Param && Equal(x.ParamType, y.ParamType) && Equal(x.Body, y.Body)
	case *App:
		y, ok := b.(*App)
		return ok && Equal(x.Fn, y.Fn) && Equal(x.Arg, y.Arg)
	case *Let:
		y, ok := b.(*Let)
		if !ok || len(x.Bindings) != len(y.Bindings) {
			return false
		}
		for i := range x.Bindings {
			bx, by := x.Bindings[i], y.Bindings[i]
			if bx.Name != by.Name || !Equal(bx.Annotation, by.Annotation) || !Equal(bx.Value, by.Value) {
				return false
			}
		}
		return Equal(x.Body, y.Body)
	case *If:
		y, ok := b.(*If)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.Then, y.Then) && Equal(x.Else, y.Else)
	case *Merge:
		y, ok := b.(*Merge)
		return ok && Equal(x.Handler, y.Handler) && Equal(x.Union, y.Union) && Equal(x.Annotation, y.Annotation)
	case *ToMap:
		y, ok := b.(*ToMap)
		return ok && Equal(x.Record, y.Record) && Equal(x.Annotation, y.Annotation)
	case *Assert:
		y, ok := b.(*Assert)
		return ok && Equal(x.Annotation, y.Annotation)
	case *With:
		y, ok := b.(*With)
		if !ok || !Equal(x.Record, y.Record) || len(x.Clauses) != len(y.Clauses) {
			return false
		}
		for i := range x.Clauses {
			cx, cy := x.Clauses[i], y.Clauses[i]
			if len(cx.Path) != len(cy.Path) || !Equal(cx.Value, cy.Value) {
				return false
			}
			for j := range cx.Path {
				if cx.Path[j] != cy.Path[j] {
					return false
				}
			}
		}
		return true
	case *Annot:
		y, ok := b.(*Annot)
		return ok && Equal(x.Expr, y.Expr) && Equal(x.Type, y.Type)
	case *Some:
		y, ok := b.(*Some)
		return ok && Equal(x.Value, y.Value)
	case *EmptyList:
		y, ok := b.(*EmptyList)
		return ok && Equal(x.Type, y.Type)
	case *NonEmptyList:
		y, ok := b.(*NonEmptyList)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case *RecordType:
		y, ok := b.(*RecordType)
		return ok && fieldsEqual(x.Fields, y.Fields)
	case *RecordLit:
		y, ok := b.(*RecordLit)
		return ok && fieldsEqual(x.Fields, y.Fields)
	case *UnionType:
		y, ok := b.(*UnionType)
		if !ok || len(x.Alternatives) != len(y.Alternatives) {
			return false
		}
		for i := range x.Alternatives {
			ax, ay := x.Alternatives[i], y.Alternatives[i]
			if ax.Label != ay.Label || !Equal(ax.Type, ay.Type) {
				return false
			}
		}
		return true
	case *FieldAccess:
		y, ok := b.(*FieldAccess)
		return ok && x.Label == y.Label && Equal(x.Record, y.Record)
	case *Project:
		y, ok := b.(*Project)
		if !ok || len(x.Labels) != len(y.Labels) || !Equal(x.Record, y.Record) {
			return false
		}
		for i := range x.Labels {
			if x.Labels[i] != y.Labels[i] {
				return false
			}
		}
		return true
	case *ProjectType:
		y, ok := b.(*ProjectType)
		return ok && Equal(x.Record, y.Record) && Equal(x.Type, y.Type)
	case *Completion:
		y, ok := b.(*Completion)
		return ok && Equal(x.Type, y.Type) && Equal(x.Record, y.Record)
	case *BinaryOp:
		y, ok := b.(*BinaryOp)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Import:
		y, ok := b.(*Import)
		return ok && x.Mode == y.Mode && bytes.Equal(x.Hash, y.Hash) && sourceEqual(x.Source, y.Source)
	}
	return false
}

func fieldsEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Label != b[i].Label || !Equal(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

func sourceEqual(a, b ImportSource) bool {
	switch x := a.(type) {
	case *LocalPath:
		y, ok := b.(*LocalPath)
		if !ok || x.Kind != y.Kind || len(x.Components) != len(y.Components) {
			return false
		}
		for i := range x.Components {
			if x.Components[i] != y.Components[i] {
				return false
			}
		}
		return true
	case *RemotePath:
		y, ok := b.(*RemotePath)
		if !ok || x.Scheme != y.Scheme || x.Authority != y.Authority || len(x.Path) != len(y.Path) {
			return false
		}
		for i := range x.Path {
			if x.Path[i] != y.Path[i] {
				return false
			}
		}
		if (x.Query == nil) != (y.Query == nil) || (x.Query != nil && *x.Query != *y.Query) {
			return false
		}
		return Equal(x.Headers, y.Headers)
	case *EnvVar:
		y, ok := b.(*EnvVar)
		return ok && x.Name == y.Name
	case *Missing:
		_, ok := b.(*Missing)
		return ok
	}
	return false
}
