package types

// Bound constrains what a TypeVariable may be instantiated with: either a
// named interface the argument must implement, or one of a small set of
// built-in marker bounds.
type Bound struct {
	// Iface is set when the bound is "argument must implement this
	// interface"; nil when the bound is a marker.
	Iface Type
	// Marker is used when Iface is nil.
	Marker MarkerBound
}

// MarkerBound is a built-in constraint that does not name a user interface.
type MarkerBound int

const (
	Unbounded MarkerBound = iota
	Primitive
	Number
	Integer
	SignedInt
	UnsignedInt
	Float
	BoundAdt
	BoundNullable
)

func (b MarkerBound) String() string {
	switch b {
	case Unbounded:
		return "Unbounded"
	case Primitive:
		return "Primitive"
	case Number:
		return "Number"
	case Integer:
		return "Integer"
	case SignedInt:
		return "SignedInt"
	case UnsignedInt:
		return "UnsignedInt"
	case Float:
		return "Float"
	case BoundAdt:
		return "Adt"
	case BoundNullable:
		return "Nullable"
	default:
		return "?"
	}
}

func (b Bound) String() string {
	if b.Iface != nil {
		return b.Iface.String()
	}
	return b.Marker.String()
}

// TypeParameter is a single generic parameter as declared on an ADT or
// function: its position, its source name, and its bound.
type TypeParameter struct {
	Index int
	Name  string
	Bound Bound
}

// TypeVariable is an occurrence of a TypeParameter inside a type. Equality
// and hashing for Variable use Index only, per spec: two variables with
// the same index are the same variable regardless of declared name, since
// the index is what indexes into an Instance's Args during substitution.
type TypeVariable struct {
	Index int
	Name  string
	Bound Bound
}

// FromParam builds the TypeVariable occurrence corresponding to a
// TypeParameter declaration.
func FromParam(p *TypeParameter) *TypeVariable {
	return &TypeVariable{Index: p.Index, Name: p.Name, Bound: p.Bound}
}

// subsumes reports whether a variable bound by marker `have` also
// satisfies the (weaker or equal) marker `want`. This is the conservative
// subsumption table referenced by the classification predicates: e.g. a
// variable bounded by SignedInt also counts as Number and Integer.
func (m MarkerBound) subsumes(want MarkerBound) bool {
	if m == want {
		return true
	}
	switch want {
	case Number:
		return m == Integer || m == SignedInt || m == UnsignedInt || m == Float
	case Integer:
		return m == SignedInt || m == UnsignedInt
	case Primitive:
		return m == Number || m == Integer || m == SignedInt || m == UnsignedInt || m == Float
	default:
		return false
	}
}
