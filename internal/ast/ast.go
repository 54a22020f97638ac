// Package ast defines the minimal contract the pipeline requires of
// whatever parser/lexer produces the syntax tree it consumes: nodes
// expose kind/first-token/first-child/children and carry a stable source
// range, and every typed position is one of the five Type shapes below.
// The pipeline never depends on concrete syntax beyond this contract.
package ast

import "fmt"

// Pos is a single point in a source file.
type Pos struct {
	Line   int
	Column int
	File   string
	Offset int
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column) }

// Span is a source range, used for error reporting and for the
// IR-inspector's source-mapped output.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string { return fmt.Sprintf("%s-%d:%d", s.Start, s.End.Line, s.End.Column) }

// Kind enumerates the node shapes the core pattern-matches on. Anything
// not listed here is opaque to the core and only ever forwarded (e.g.
// expression bodies, which the expression pass walks through the Node
// contract without caring about concrete kind beyond what's below).
type Kind int

const (
	KindUnknown Kind = iota
	KindTypeIdent
	KindTypeNullable
	KindTypeRawPtr
	KindTypeClosure
	KindTypeGeneric
)

// Node is the contract every upstream syntax-tree node satisfies. The
// pipeline is agnostic to concrete syntax; it only ever walks a tree
// through this interface plus the typed Type shapes below.
type Node interface {
	Kind() Kind
	FirstToken() string
	FirstChild() Node
	Children() []Node
	Span() Span
}

// base is embedded by every concrete node below to satisfy the parts of
// Node that don't vary per shape.
type base struct {
	span Span
}

func (b base) Span() Span { return b.span }

// Type is the sum type of every typed-position shape a caller can pass
// to the resolver's FindType. Exactly one of the typed accessors below
// is meaningful per Kind.
type Type interface {
	Node
	typeNode()
}

// TypeIdent is a bare name reference: `Foo`, `i32`, a type parameter name.
type TypeIdent struct {
	base
	Name string
}

func NewTypeIdent(name string, span Span) *TypeIdent { return &TypeIdent{base{span}, name} }

func (t *TypeIdent) Kind() Kind         { return KindTypeIdent }
func (t *TypeIdent) FirstToken() string { return t.Name }
func (t *TypeIdent) FirstChild() Node   { return nil }
func (t *TypeIdent) Children() []Node   { return nil }
func (t *TypeIdent) typeNode()          {}

// TypeNullable is `T?`.
type TypeNullable struct {
	base
	Inner Type
}

func NewTypeNullable(inner Type, span Span) *TypeNullable { return &TypeNullable{base{span}, inner} }

func (t *TypeNullable) Kind() Kind         { return KindTypeNullable }
func (t *TypeNullable) FirstToken() string { return "?" }
func (t *TypeNullable) FirstChild() Node   { return t.Inner }
func (t *TypeNullable) Children() []Node   { return []Node{t.Inner} }
func (t *TypeNullable) typeNode()          {}

// TypeRawPtr is `*T`.
type TypeRawPtr struct {
	base
	Inner Type
}

func NewTypeRawPtr(inner Type, span Span) *TypeRawPtr { return &TypeRawPtr{base{span}, inner} }

func (t *TypeRawPtr) Kind() Kind         { return KindTypeRawPtr }
func (t *TypeRawPtr) FirstToken() string { return "*" }
func (t *TypeRawPtr) FirstChild() Node   { return t.Inner }
func (t *TypeRawPtr) Children() []Node   { return []Node{t.Inner} }
func (t *TypeRawPtr) typeNode()          {}

// TypeClosure is `(T, T): T`; Ret is nil when the closure returns None.
type TypeClosure struct {
	base
	Params []Type
	Ret    Type
}

func NewTypeClosure(params []Type, ret Type, span Span) *TypeClosure {
	return &TypeClosure{base{span}, params, ret}
}

func (t *TypeClosure) Kind() Kind         { return KindTypeClosure }
func (t *TypeClosure) FirstToken() string { return "(" }
func (t *TypeClosure) FirstChild() Node {
	if len(t.Params) > 0 {
		return t.Params[0]
	}
	return t.Ret
}
func (t *TypeClosure) Children() []Node {
	children := make([]Node, 0, len(t.Params)+1)
	for _, p := range t.Params {
		children = append(children, p)
	}
	if t.Ret != nil {
		children = append(children, t.Ret)
	}
	return children
}
func (t *TypeClosure) typeNode() {}

// TypeGeneric is `Ident[T, T]`.
type TypeGeneric struct {
	base
	Ident string
	Args  []Type
}

func NewTypeGeneric(ident string, args []Type, span Span) *TypeGeneric {
	return &TypeGeneric{base{span}, ident, args}
}

func (t *TypeGeneric) Kind() Kind         { return KindTypeGeneric }
func (t *TypeGeneric) FirstToken() string { return t.Ident }
func (t *TypeGeneric) FirstChild() Node {
	if len(t.Args) > 0 {
		return t.Args[0]
	}
	return nil
}
func (t *TypeGeneric) Children() []Node {
	children := make([]Node, len(t.Args))
	for i, a := range t.Args {
		children[i] = a
	}
	return children
}
func (t *TypeGeneric) typeNode() {}
