package types

// The classification predicates below return true either for the obvious
// concrete variant(s) or for a Variable whose bound marker matches,
// through the conservative subsumption table in MarkerBound.subsumes.
// This lets generic code ("a: T where T: Number") type-check arithmetic
// the same way concrete numeric code does.

func variableMarker(t Type) (MarkerBound, bool) {
	v, ok := t.(*Variable)
	if !ok || v.TypeVar.Bound.Iface != nil {
		return Unbounded, false
	}
	return v.TypeVar.Bound.Marker, true
}

func IsSignedInt(t Type) bool {
	if b, ok := t.(*Basic); ok {
		switch b.Kind {
		case KI8, KI16, KI32, KI64:
			return true
		}
		return false
	}
	if m, ok := variableMarker(t); ok {
		return m.subsumes(SignedInt)
	}
	return false
}

func IsUnsignedInt(t Type) bool {
	if b, ok := t.(*Basic); ok {
		switch b.Kind {
		case KU8, KU16, KU32, KU64:
			return true
		}
		return false
	}
	if m, ok := variableMarker(t); ok {
		return m.subsumes(UnsignedInt)
	}
	return false
}

func IsInt(t Type) bool {
	return IsSignedInt(t) || IsUnsignedInt(t)
}

func IsFloat(t Type) bool {
	if b, ok := t.(*Basic); ok {
		return b.Kind == KF32 || b.Kind == KF64
	}
	if m, ok := variableMarker(t); ok {
		return m.subsumes(Float)
	}
	return false
}

func IsNumber(t Type) bool {
	if IsInt(t) || IsFloat(t) {
		return true
	}
	if m, ok := variableMarker(t); ok {
		return m.subsumes(Number)
	}
	return false
}

func IsPrimitive(t Type) bool {
	if b, ok := t.(*Basic); ok {
		return b.Kind != KAny && b.Kind != KNone && b.Kind != KNull
	}
	if m, ok := variableMarker(t); ok {
		return m.subsumes(Primitive)
	}
	return false
}

// IsRefAdt reports whether t is (or, through a Variable bound, stands
// for) a reference-counted ADT instance: a Class, Interface or Enum/
// EnumCase, as opposed to a primitive value type.
func IsRefAdt(t Type) bool {
	if _, ok := t.(*Adt); ok {
		return true
	}
	if m, ok := variableMarker(t); ok {
		return m.subsumes(BoundAdt)
	}
	return false
}

// IsAssignable reports whether a value of type t may be the target of an
// assignment at all (excludes Any and None, which never denote storage).
func IsAssignable(t Type) bool {
	if b, ok := t.(*Basic); ok {
		return b.Kind != KAny && b.Kind != KNone
	}
	return true
}

// IsCallable reports whether t can appear in call position.
func IsCallable(t Type) bool {
	switch t.(type) {
	case *Function, *Closure:
		return true
	default:
		return false
	}
}
