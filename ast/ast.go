// Package ast defines the Abstract Syntax Tree (AST) node types for Dhall.
//
// Every source construct has a corresponding node type. The hierarchy is:
//
//	Node (interface)
//	  Expr (interface)
//	    Var, Builtin
//	    NaturalLit, IntegerLit, DoubleLit, BoolLit, TextLit, BytesLit
//	    DateLit, TimeLit, TimeZoneLit
//	    Lambda, Pi, Let, If, Merge, ToMap, Assert, With
//	    EmptyList, NonEmptyList, RecordType, RecordLit, UnionType
//	    FieldAccess, Project, ProjectType, Completion
//	    BinaryOp, App, Annot, Some, Import
//	  ImportSource (interface)
//	    LocalPath, RemotePath, EnvVar, Missing
//
// Positional information is stored in the Loc field present in every node.
// Callers should use node.Pos() to obtain it. Nodes are built once by the
// parser and never mutated afterwards.
package ast

import "math/big"

// ── Interfaces ────────────────────────────────────────────────────────────────

// Node is the root interface for every element in the AST.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() Pos
	// String renders the node as Dhall source text.
	String() string
}

// Expr is a Node that denotes a Dhall expression.
type Expr interface {
	Node
	exprNode()
}

// ImportSource is the location part of an import.
type ImportSource interface {
	Node
	importSource()
}

// ── File ──────────────────────────────────────────────────────────────────────

// File is the root produced by parsing a complete source file.
type File struct {
	Name     string   // file name used in diagnostics, may be empty
	Shebangs []string // "#!..." lines, without their line terminators
	Expr     Expr
	Trailing string // whitespace and comments after the expression
}

// ── Support types ─────────────────────────────────────────────────────────────

// Chunk is one interpolation in a text literal, preceded by literal text.
type Chunk struct {
	Prefix string
	Expr   Expr
}

// Binding is one `let name [: type] = value` clause.
type Binding struct {
	Loc        Pos
	Name       string
	Annotation Expr // nil when absent
	Value      Expr
}

// Field is one entry of a record type or record literal.
type Field struct {
	Loc   Pos
	Label string
	Value Expr
}

// Alternative is one entry of a union type; Type is nil for a bare label.
type Alternative struct {
	Loc   Pos
	Label string
	Type  Expr
}

// WithComponent is one step of a with-path: a label, or `?` to descend into
// an Optional.
type WithComponent struct {
	Label    string
	Optional bool
}

// WithClause is one `with a.b.c = value` update.
type WithClause struct {
	Loc   Pos
	Path  []WithComponent
	Value Expr
}

// Operator identifies a binary operator.
type Operator int

const (
	OpEquivalent Operator = iota + 1
	OpImportAlt
	OpOr
	OpPlus
	OpTextAppend
	OpListAppend
	OpAnd
	OpCombine
	OpPrefer
	OpCombineTypes
	OpTimes
	OpEqual
	OpNotEqual
)

var operatorText = [...]string{
	OpEquivalent:   "===",
	OpImportAlt:    "?",
	OpOr:           "||",
	OpPlus:         "+",
	OpTextAppend:   "++",
	OpListAppend:   "#",
	OpAnd:          "&&",
	OpCombine:      "/\\",
	OpPrefer:       "//",
	OpCombineTypes: "//\\\\",
	OpTimes:        "*",
	OpEqual:        "==",
	OpNotEqual:     "!=",
}

var operatorNames = [...]string{
	OpEquivalent:   "Equivalent",
	OpImportAlt:    "ImportAlt",
	OpOr:           "Or",
	OpPlus:         "Plus",
	OpTextAppend:   "TextAppend",
	OpListAppend:   "ListAppend",
	OpAnd:          "And",
	OpCombine:      "Combine",
	OpPrefer:       "Prefer",
	OpCombineTypes: "CombineTypes",
	OpTimes:        "Times",
	OpEqual:        "Equal",
	OpNotEqual:     "NotEqual",
}

// String returns the ASCII spelling of the operator.
func (o Operator) String() string {
	if o <= 0 || int(o) >= len(operatorText) {
		return "?op"
	}
	return operatorText[o]
}

// Name returns the operator's name, e.g. "TextAppend".
func (o Operator) Name() string {
	if o <= 0 || int(o) >= len(operatorNames) {
		return "Unknown"
	}
	return operatorNames[o]
}

// Precedence is the cascade level of the operator: 1 binds loosest
// (Equivalent) and 13 tightest (NotEqual).
func (o Operator) Precedence() int { return int(o) }

// Operators lists every operator from loosest to tightest.
func Operators() []Operator {
	ops := make([]Operator, 0, OpNotEqual)
	for o := OpEquivalent; o <= OpNotEqual; o++ {
		ops = append(ops, o)
	}
	return ops
}

// PathKind is the anchor of a local import path.
type PathKind int

const (
	PathAbsolute PathKind = iota // /a/b
	PathHere                     // ./a/b
	PathParent                   // ../a/b
	PathHome                     // ~/a/b
)

func (k PathKind) String() string {
	switch k {
	case PathAbsolute:
		return "Absolute"
	case PathHere:
		return "Here"
	case PathParent:
		return "Parent"
	case PathHome:
		return "Home"
	}
	return "Unknown"
}

// ImportMode is how the imported resource is interpreted.
type ImportMode int

const (
	ModeCode     ImportMode = iota // default, no `as` suffix
	ModeRawText                    // as Text
	ModeLocation                   // as Location
	ModeBytes                      // as Bytes
)

func (m ImportMode) String() string {
	switch m {
	case ModeCode:
		return "Code"
	case ModeRawText:
		return "RawText"
	case ModeLocation:
		return "Location"
	case ModeBytes:
		return "Bytes"
	}
	return "Unknown"
}

// ── Variables and constants ───────────────────────────────────────────────────

// Var is a variable reference. Index selects among shadowed bindings of the
// same name: x@1 skips the innermost x.
type Var struct {
	Loc   Pos
	Name  string
	Index int
}

// Builtin is a reserved builtin identifier such as Natural or List/fold.
type Builtin struct {
	Loc  Pos
	Name string
}

// ── Literals ──────────────────────────────────────────────────────────────────

// NaturalLit is a non-negative integer literal: 42, 0x2A, 0b101010.
type NaturalLit struct {
	Loc   Pos
	Value *big.Int
}

// IntegerLit is a signed integer literal: +1, -0x10.
type IntegerLit struct {
	Loc   Pos
	Value *big.Int
}

// DoubleLit is a floating point literal, including Infinity, -Infinity and NaN.
type DoubleLit struct {
	Loc   Pos
	Value float64
}

// BoolLit is True or False.
type BoolLit struct {
	Loc   Pos
	Value bool
}

// TextLit is a text literal. Its value is
// Chunks[0].Prefix ${Chunks[0].Expr} ... Chunks[n].Prefix ${Chunks[n].Expr} Suffix,
// so literal text and interpolations always alternate.
type TextLit struct {
	Loc    Pos
	Chunks []Chunk
	Suffix string
}

// BytesLit is a 0x"..." literal.
type BytesLit struct {
	Loc   Pos
	Value []byte
}

// DateLit is a calendar date: 2024-02-29.
type DateLit struct {
	Loc   Pos
	Year  int
	Month int
	Day   int
}

// TimeLit is a time of day: 12:30:00.250. Fraction holds the digits after the
// decimal point exactly as written, without the dot.
type TimeLit struct {
	Loc      Pos
	Hour     int
	Minute   int
	Second   int
	Fraction string
}

// TimeZoneLit is a UTC offset in minutes: +05:30 is 330.
type TimeZoneLit struct {
	Loc     Pos
	Minutes int
}

// ── Functions ─────────────────────────────────────────────────────────────────

// Lambda is \(Param : ParamType) -> Body.
type Lambda struct {
	Loc       Pos
	Param     string
	ParamType Expr
	Body      Expr
}

// Pi is a function type. Param is empty for the non-dependent form A -> B.
type Pi struct {
	Loc       Pos
	Param     string
	ParamType Expr
	Body      Expr
}

// App is function application.
type App struct {
	Loc Pos
	Fn  Expr
	Arg Expr
}

// ── Control forms ─────────────────────────────────────────────────────────────

// Let holds one or more bindings that share a single `in` body.
type Let struct {
	Loc      Pos
	Bindings []Binding
	Body     Expr
}

// If is if Cond then Then else Else.
type If struct {
	Loc  Pos
	Cond Expr
	Then Expr
	Else Expr
}

// Merge is merge Handler Union [: Annotation].
type Merge struct {
	Loc        Pos
	Handler    Expr
	Union      Expr
	Annotation Expr
}

// ToMap is toMap Record [: Annotation].
type ToMap struct {
	Loc        Pos
	Record     Expr
	Annotation Expr
}

// Assert is assert : Annotation.
type Assert struct {
	Loc        Pos
	Annotation Expr
}

// With is Record with a.b = v with c = w ...
type With struct {
	Loc     Pos
	Record  Expr
	Clauses []WithClause
}

// Annot is Expr : Type.
type Annot struct {
	Loc  Pos
	Expr Expr
	Type Expr
}

// Some wraps a value in an Optional.
type Some struct {
	Loc   Pos
	Value Expr
}

// ── Collections ───────────────────────────────────────────────────────────────

// EmptyList is [] : Type. Type is the annotation as written, normally List T.
type EmptyList struct {
	Loc  Pos
	Type Expr
}

// NonEmptyList is [a, b, ...].
type NonEmptyList struct {
	Loc   Pos
	Items []Expr
}

// RecordType is { a : T, ... }.
type RecordType struct {
	Loc    Pos
	Fields []Field
}

// RecordLit is { a = v, ... }. The empty record literal is {} or {=}.
type RecordLit struct {
	Loc    Pos
	Fields []Field
}

// UnionType is < A : T | B | ... >.
type UnionType struct {
	Loc          Pos
	Alternatives []Alternative
}

// ── Selection ─────────────────────────────────────────────────────────────────

// FieldAccess is Record.Label.
type FieldAccess struct {
	Loc    Pos
	Record Expr
	Label  string
}

// Project is Record.{a, b}.
type Project struct {
	Loc    Pos
	Record Expr
	Labels []string
}

// ProjectType is Record.(Type).
type ProjectType struct {
	Loc    Pos
	Record Expr
	Type   Expr
}

// Completion is Type::Record.
type Completion struct {
	Loc    Pos
	Type   Expr
	Record Expr
}

// BinaryOp is Left Op Right.
type BinaryOp struct {
	Loc   Pos
	Op    Operator
	Left  Expr
	Right Expr
}

// ── Imports ───────────────────────────────────────────────────────────────────

// Import references an external expression. Hash is the 32-byte sha256
// integrity digest, or nil.
type Import struct {
	Loc    Pos
	Source ImportSource
	Hash   []byte
	Mode   ImportMode
}

// LocalPath is a filesystem path import.
type LocalPath struct {
	Loc        Pos
	Kind       PathKind
	Components []string
}

// RemotePath is an http(s) import. Authority keeps userinfo, host and port
// as written; Query is nil when there is no '?'. Headers is the expression
// after `using`, or nil.
type RemotePath struct {
	Loc       Pos
	Scheme    string
	Authority string
	Path      []string
	Query     *string
	Headers   Expr
}

// EnvVar is an env:NAME import.
type EnvVar struct {
	Loc  Pos
	Name string
}

// Missing is the `missing` import, which never resolves.
type Missing struct {
	Loc Pos
}

// ── Interface plumbing ────────────────────────────────────────────────────────

func (*Var) exprNode()          {}
func (*Builtin) exprNode()      {}
func (*NaturalLit) exprNode()   {}
func (*IntegerLit) exprNode()   {}
func (*DoubleLit) exprNode()    {}
func (*BoolLit) exprNode()      {}
func (*TextLit) exprNode()      {}
func (*BytesLit) exprNode()     {}
func (*DateLit) exprNode()      {}
func (*TimeLit) exprNode()      {}
func (*TimeZoneLit) exprNode()  {}
func (*Lambda) exprNode()       {}
func (*Pi) exprNode()           {}
func (*App) exprNode()          {}
func (*Let) exprNode()          {}
func (*If) exprNode()           {}
func (*Merge) exprNode()        {}
func (*ToMap) exprNode()        {}
func (*Assert) exprNode()       {}
func (*With) exprNode()         {}
func (*Annot) exprNode()        {}
func (*Some) exprNode()         {}
func (*EmptyList) exprNode()    {}
func (*NonEmptyList) exprNode() {}
func (*RecordType) exprNode()   {}
func (*RecordLit) exprNode()    {}
func (*UnionType) exprNode()    {}
func (*FieldAccess) exprNode()  {}
func (*Project) exprNode()      {}
func (*ProjectType) exprNode()  {}
func (*Completion) exprNode()   {}
func (*BinaryOp) exprNode()     {}
func (*Import) exprNode()       {}

func (*LocalPath) importSource()  {}
func (*RemotePath) importSource() {}
func (*EnvVar) importSource()     {}
func (*Missing) importSource()    {}

func (n *Var) Pos() Pos          { return n.Loc }
func (n *Builtin) Pos() Pos      { return n.Loc }
func (n *NaturalLit) Pos() Pos   { return n.Loc }
func (n *IntegerLit) Pos() Pos   { return n.Loc }
func (n *DoubleLit) Pos() Pos    { return n.Loc }
func (n *BoolLit) Pos() Pos      { return n.Loc }
func (n *TextLit) Pos() Pos      { return n.Loc }
func (n *BytesLit) Pos() Pos     { return n.Loc }
func (n *DateLit) Pos() Pos      { return n.Loc }
func (n *TimeLit) Pos() Pos      { return n.Loc }
func (n *TimeZoneLit) Pos() Pos  { return n.Loc }
func (n *Lambda) Pos() Pos       { return n.Loc }
func (n *Pi) Pos() Pos           { return n.Loc }
func (n *App) Pos() Pos          { return n.Loc }
func (n *Let) Pos() Pos          { return n.Loc }
func (n *If) Pos() Pos           { return n.Loc }
func (n *Merge) Pos() Pos        { return n.Loc }
func (n *ToMap) Pos() Pos        { return n.Loc }
func (n *Assert) Pos() Pos       { return n.Loc }
func (n *With) Pos() Pos         { return n.Loc }
func (n *Annot) Pos() Pos        { return n.Loc }
func (n *Some) Pos() Pos         { return n.Loc }
func (n *EmptyList) Pos() Pos    { return n.Loc }
func (n *NonEmptyList) Pos() Pos { return n.Loc }
func (n *RecordType) Pos() Pos   { return n.Loc }
func (n *RecordLit) Pos() Pos    { return n.Loc }
func (n *UnionType) Pos() Pos    { return n.Loc }
func (n *FieldAccess) Pos() Pos  { return n.Loc }
func (n *Project) Pos() Pos      { return n.Loc }
func (n *ProjectType) Pos() Pos  { return n.Loc }
func (n *Completion) Pos() Pos   { return n.Loc }
func (n *BinaryOp) Pos() Pos     { return n.Loc }
func (n *Import) Pos() Pos       { return n.Loc }
func (n *LocalPath) Pos() Pos    { return n.Loc }
func (n *RemotePath) Pos() Pos   { return n.Loc }
func (n *EnvVar) Pos() Pos       { return n.Loc }
func (n *Missing) Pos() Pos      { return n.Loc }

func (n *Var) String() string          { return Format(n) }
func (n *Builtin) String() string      { return Format(n) }
func (n *NaturalLit) String() string   { return Format(n) }
func (n *IntegerLit) String() string   { return Format(n) }
func (n *DoubleLit) String() string    { return Format(n) }
func (n *BoolLit) String() string      { return Format(n) }
func (n *TextLit) String() string      { return Format(n) }
func (n *BytesLit) String() string     { return Format(n) }
func (n *DateLit) String() string      { return Format(n) }
func (n *TimeLit) String() string      { return Format(n) }
func (n *TimeZoneLit) String() string  { return Format(n) }
func (n *Lambda) String() string       { return Format(n) }
func (n *Pi) String() string           { return Format(n) }
func (n *App) String() string          { return Format(n) }
func (n *Let) String() string          { return Format(n) }
func (n *If) String() string           { return Format(n) }
func (n *Merge) String() string        { return Format(n) }
func (n *ToMap) String() string        { return Format(n) }
func (n *Assert) String() string       { return Format(n) }
func (n *With) String() string         { return Format(n) }
func (n *Annot) String() string        { return Format(n) }
func (n *Some) String() string         { return Format(n) }
func (n *EmptyList) String() string    { return Format(n) }
func (n *NonEmptyList) String() string { return Format(n) }
func (n *RecordType) String() string   { return Format(n) }
func (n *RecordLit) String() string    { return Format(n) }
func (n *UnionType) String() string    { return Format(n) }
func (n *FieldAccess) String() string  { return Format(n) }
func (n *Project) String() string      { return Format(n) }
func (n *ProjectType) String() string  { return Format(n) }
func (n *Completion) String() string   { return Format(n) }
func (n *BinaryOp) String() string     { return Format(n) }
func (n *Import) String() string       { return Format(n) }

func (n *LocalPath) String() string  { return formatSource(n) }
func (n *RemotePath) String() string { return formatSource(n) }
func (n *EnvVar) String() string     { return formatSource(n) }
func (n *Missing) String() string    { return formatSource(n) }
