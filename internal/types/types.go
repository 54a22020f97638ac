// Package types implements the gelixc type model: the representation,
// equality, hashing, substitution and classification of types flowing
// through the semantic-analysis and IR-construction pipeline.
//
// The package is deliberately self-contained: it never imports package
// symbols, even though most Type variants eventually reference a
// declaration (an ADT or a Function). Instead it exposes the minimal
// Decl interface a declaration must satisfy, and package symbols'
// concrete declarations implement it.
package types

import (
	"fmt"
	"strings"
)

// Type is the tagged variant at the center of the type model. Every
// concrete case below is a distinct Go type implementing this interface;
// type switches (not a discriminant field) carry out dispatch, matching
// how the rest of the pipeline is written.
type Type interface {
	String() string
}

// Decl is the minimal contract a declaration must expose to appear
// inside an Instance. Concrete declarations (package symbols' *ADT and
// *Function) implement this; comparing two Decl values compares pointer
// identity, which is what "declaration identity" means throughout this
// package.
type Decl interface {
	DeclName() string
	DeclTypeParams() []*TypeParameter
}

// BasicKind enumerates the primitive, non-composite type cases.
type BasicKind int

const (
	KAny BasicKind = iota
	KNone
	KNull
	KBool
	KI8
	KI16
	KI32
	KI64
	KU8
	KU16
	KU32
	KU64
	KF32
	KF64
)

var basicNames = map[BasicKind]string{
	KAny: "Any", KNone: "None", KNull: "Null", KBool: "bool",
	KI8: "i8", KI16: "i16", KI32: "i32", KI64: "i64",
	KU8: "u8", KU16: "u16", KU32: "u32", KU64: "u64",
	KF32: "f32", KF64: "f64",
}

// Basic is a primitive type: Any, None, Null, Bool, or a fixed-width
// integer/float. Any is the universal bottom used both for diverging
// control flow (the type of gir.Break and gir.Return nodes) and for
// error-recovery sentinels (what the resolver and the expression pass
// return after reporting an error).
type Basic struct {
	Kind BasicKind
}

func (t *Basic) String() string { return basicNames[t.Kind] }

// Shared basic type instances. Comparisons between these should still go
// through Equals/LooseEquals rather than pointer identity: a resolver
// may construct a fresh *Basic for the same Kind.
var (
	TAny   = &Basic{Kind: KAny}
	TNone  = &Basic{Kind: KNone}
	TNull  = &Basic{Kind: KNull}
	TBool  = &Basic{Kind: KBool}
	TI8    = &Basic{Kind: KI8}
	TI16   = &Basic{Kind: KI16}
	TI32   = &Basic{Kind: KI32}
	TI64   = &Basic{Kind: KI64}
	TU8    = &Basic{Kind: KU8}
	TU16   = &Basic{Kind: KU16}
	TU32   = &Basic{Kind: KU32}
	TU64   = &Basic{Kind: KU64}
	TF32   = &Basic{Kind: KF32}
	TF64   = &Basic{Kind: KF64}
)

// Instance pairs a declaration with its ordered, possibly-empty list of
// concrete type arguments. An Instance with zero Args whose declaration
// has a non-empty type-parameter list is "unspecialized" — final IR must
// not retain one of these except as an explicit monomorphization
// prototype (see symbols.Function.IsPrototype).
type Instance struct {
	Decl Decl
	Args []Type
}

func (i Instance) String() string {
	if len(i.Args) == 0 {
		return i.Decl.DeclName()
	}
	args := make([]string, len(i.Args))
	for idx, a := range i.Args {
		args[idx] = a.String()
	}
	return fmt.Sprintf("%s[%s]", i.Decl.DeclName(), strings.Join(args, ", "))
}

// Unspecialized reports whether this instance still needs type arguments
// attached before it can appear in final IR.
func (i Instance) Unspecialized() bool {
	return len(i.Args) == 0 && i.Decl != nil && len(i.Decl.DeclTypeParams()) > 0
}

// Adt is a reference to a class/interface/enum/enum-case instance.
type Adt struct {
	Inst Instance
}

func (t *Adt) String() string { return t.Inst.String() }

// Function is the type of a named, non-closure callable: a bare function
// or method reference.
type Function struct {
	Inst Instance
}

func (t *Function) String() string { return fmt.Sprintf("fn(%s)", t.Inst.String()) }

// ClosureSig is the shape of a closure: its declared parameter types and
// return type, without the hidden capture parameter (see ClosureCaptured).
type ClosureSig struct {
	Params []Type
	Return Type
}

func (s ClosureSig) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s): %s", strings.Join(params, ", "), s.Return.String())
}

// Closure is the type of a closure value: a function pointer plus its
// captured environment, exposed to gelix source as a single callable type.
type Closure struct {
	Sig ClosureSig
}

func (t *Closure) String() string { return t.Sig.String() }

// ClosureCaptured is the type of the opaque capture-environment parameter
// synthesized as a closure's first parameter. It is never user-visible;
// the closure's public signature (ClosureSig) omits it.
type ClosureCaptured struct {
	Names []string
	Types []Type
}

func (t *ClosureCaptured) String() string {
	parts := make([]string, len(t.Names))
	for i, n := range t.Names {
		parts[i] = fmt.Sprintf("%s: %s", n, t.Types[i].String())
	}
	return fmt.Sprintf("captures{%s}", strings.Join(parts, ", "))
}

// Nullable wraps a non-nullable type T into T?. Nullable(Null) and
// Nullable(Nullable(_)) are both rejected by the resolver (E302); this
// variant itself does not enforce that, to keep Type construction total.
type Nullable struct {
	Inner Type
}

func (t *Nullable) String() string { return t.Inner.String() + "?" }

// RawPtr is a raw, untraced pointer to T, used for FFI.
type RawPtr struct {
	Inner Type
}

func (t *RawPtr) String() string { return "*" + t.Inner.String() }

// Variable is an occurrence of a generic type parameter.
type Variable struct {
	TypeVar *TypeVariable
}

func (t *Variable) String() string { return t.TypeVar.Name }

// TypeOf is the type of a static-member access expression (`SomeType`
// used as a value, e.g. to call a static/constructor member). It carries
// the type being referenced.
type TypeOf struct {
	Inner Type
}

func (t *TypeOf) String() string { return "type(" + t.Inner.String() + ")" }
