package symbols

import (
	"fmt"

	"github.com/gelix-lang/gelixc/internal/types"
)

// AdtKind tags which of the four ADT shapes a record represents. All four
// share the same underlying struct (name, methods, generics) per the
// "replace deep inheritance with a tagged variant" design note.
type AdtKind int

const (
	KindClass AdtKind = iota
	KindInterface
	KindEnum
	KindEnumCase
)

func (k AdtKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindEnumCase:
		return "enum case"
	default:
		return "?"
	}
}

// HasMembers reports whether this ADT kind has fields/methods populated
// by the field/method pass at all. Interfaces only have method shapes
// (no fields, no bodies); everything else does.
func (k AdtKind) HasMembers() bool {
	return k == KindClass || k == KindEnum || k == KindEnumCase
}

// ADT is a class, interface, enum, or enum case. Field/method maps are
// populated by the field/method pass; constructors and lifecycle methods
// are synthesized by the same pass after user-declared members.
type ADT struct {
	Name           string
	Kind           AdtKind
	TypeParameters []*types.TypeParameter
	Module         *Module

	// External marks an FFI class: its methods have no bodies to
	// generate, only signatures bound by the backend/linker.
	External bool

	// Parent is set on an EnumCase to the enum it belongs to; nil
	// otherwise.
	Parent *ADT
	// Simple marks a body-less enum case (no fields of its own beyond
	// the parent's, no user-written constructor).
	Simple bool
	// Cases holds an Enum's named variants, in declaration order; empty
	// on every other kind.
	Cases []*ADT

	fieldOrder []*Field
	fieldsByName map[string]*Field

	Methods map[string]*Function

	Constructors []*Function
}

// NewADT creates an empty ADT shell of the given kind.
func NewADT(name string, kind AdtKind, module *Module) *ADT {
	return &ADT{
		Name:         name,
		Kind:         kind,
		Module:       module,
		fieldsByName: make(map[string]*Field),
		Methods:      make(map[string]*Function),
	}
}

func (a *ADT) DeclName() string                        { return a.Name }
func (a *ADT) DeclTypeParams() []*types.TypeParameter { return a.TypeParameters }

// Fields returns the ADT's own fields in insertion order. For an
// EnumCase this does NOT include the parent's fields; use AllFields for
// that.
func (a *ADT) Fields() []*Field { return a.fieldOrder }

// AllFields returns the parent's fields (if any) followed by this ADT's
// own fields, matching the dense index space fields actually use.
func (a *ADT) AllFields() []*Field {
	if a.Parent == nil {
		return a.fieldOrder
	}
	all := make([]*Field, 0, len(a.Parent.fieldOrder)+len(a.fieldOrder))
	all = append(all, a.Parent.fieldOrder...)
	all = append(all, a.fieldOrder...)
	return all
}

// Field looks up a field by name, checking this ADT then (for an
// EnumCase) its parent.
func (a *ADT) Field(name string) (*Field, bool) {
	if f, ok := a.fieldsByName[NormalizeName(name)]; ok {
		return f, true
	}
	if a.Parent != nil {
		return a.Parent.Field(name)
	}
	return nil, false
}

// AddField inserts a field at the next dense index. For an EnumCase the
// index space continues from the parent's field count, so the case's
// own fields land after the inherited ones: a case's layout is always
// its parent's fields first, at the same indices, then its own.
// Returns an error (not fatal to the pass) on a duplicate name.
func (a *ADT) AddField(f *Field) error {
	key := NormalizeName(f.Name)
	if _, exists := a.fieldsByName[key]; exists {
		return fmt.Errorf("duplicate field %q on %s", f.Name, a.Name)
	}
	if _, exists := a.Methods[key]; exists {
		return fmt.Errorf("field %q collides with method of the same name on %s", f.Name, a.Name)
	}
	base := 0
	if a.Parent != nil {
		base = len(a.Parent.fieldOrder)
	}
	f.Index = base + len(a.fieldOrder)
	a.fieldOrder = append(a.fieldOrder, f)
	a.fieldsByName[key] = f
	return nil
}

// AddMethod inserts a method, mangling its internal name and keying the
// method map by the original (unmangled, but normalized) name.
func (a *ADT) AddMethod(fn *Function) error {
	key := NormalizeName(fn.Name)
	if _, exists := a.fieldsByName[key]; exists {
		return fmt.Errorf("method %q collides with field of the same name on %s", fn.Name, a.Name)
	}
	fn.MangledName = MangleMethod(a.Name, fn.Name)
	fn.Receiver = a
	a.Methods[key] = fn
	return nil
}

// NewEnumCase creates a case ADT sharing the parent's type parameter
// list — cases never declare parameters of their own, so a case is
// always exactly as generic as its enum.
func NewEnumCase(name string, parent *ADT, simple bool) *ADT {
	c := NewADT(name, KindEnumCase, parent.Module)
	c.Parent = parent
	c.Simple = simple
	c.TypeParameters = parent.TypeParameters
	return c
}
