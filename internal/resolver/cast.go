package resolver

import (
	"github.com/gelix-lang/gelixc/internal/gir"
	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
)

// CanCastType reports which cast kind (if any) would turn a value of
// type `from` into type `to`, without performing the cast. The checks
// run in a fixed order: identity first, then the structural cases
// (nullable widening, enum-case-to-parent, interface implementation),
// then numeric conversions, then bitcast as the most permissive
// fallback.
func (r *Resolver) CanCastType(from, to types.Type) (gir.CastKind, bool) {
	if types.Equals(from, to) {
		return 0, false // nothing to do; caller should skip the cast entirely
	}

	// T -> T? (implicit nullable widening). The null literal itself
	// widens into any nullable target.
	if nTo, ok := to.(*types.Nullable); ok {
		if b, ok := from.(*types.Basic); ok && b.Kind == types.KNull {
			return gir.CastToNullable, true
		}
		if types.Equals(from, nTo.Inner) {
			return gir.CastToNullable, true
		}
		if innerKind, ok := r.CanCastType(from, nTo.Inner); ok {
			_ = innerKind
			return gir.CastToNullable, true
		}
	}

	// EnumCase -> its own parent Adt.
	if fromAdt, ok := from.(*types.Adt); ok {
		if toAdt, ok := to.(*types.Adt); ok {
			if fromDecl, ok := fromAdt.Inst.Decl.(*symbols.ADT); ok {
				if fromDecl.Parent != nil && fromDecl.Parent == toAdt.Inst.Decl {
					return gir.CastEnumCaseToParent, true
				}
			}
		}
	}

	// Adt -> interface it implements.
	if _, ok := from.(*types.Adt); ok {
		if _, ok := to.(*types.Adt); ok {
			if r.implements(from, to) {
				return gir.CastToInterface, true
			}
		}
	}

	// Numeric widening, within one sign class only. Truncation and
	// cross-class conversion (int <-> float, signed <-> unsigned) never
	// happen implicitly; those go through a named conversion intrinsic
	// (see ExplicitNumericCast).
	if types.IsNumber(from) && types.IsNumber(to) {
		if sameSignClass(from, to) && numericRank(from) < numericRank(to) {
			return gir.CastNumericWiden, true
		}
		return 0, false
	}

	// Any is a universal sink: casting into or out of it is always a
	// (possibly lossy) bitcast, used for error recovery sentinels.
	if from == types.TAny || to == types.TAny {
		return gir.CastBitcast, true
	}

	return 0, false
}

// implements reports whether `implementor`'s registered IFaceImpls
// contains an entry for `iface`. Populated by the interface-impl pass;
// before that pass runs this always reports false — a missing entry
// means "not yet known" (see symbols.ImplTable.Get), never an error.
func (r *Resolver) implements(implementor, iface types.Type) bool {
	if r.Impls == nil {
		return false
	}
	impls := r.Impls.Get(implementor)
	_, ok := impls.ByInterface[iface.String()]
	return ok
}

func sameSignClass(a, b types.Type) bool {
	switch {
	case types.IsSignedInt(a):
		return types.IsSignedInt(b)
	case types.IsUnsignedInt(a):
		return types.IsUnsignedInt(b)
	case types.IsFloat(a):
		return types.IsFloat(b)
	default:
		return false
	}
}

func numericRank(t types.Type) int {
	b, ok := t.(*types.Basic)
	if !ok {
		return 0
	}
	switch b.Kind {
	case types.KI8, types.KU8:
		return 1
	case types.KI16, types.KU16:
		return 2
	case types.KI32, types.KU32, types.KF32:
		return 3
	case types.KI64, types.KU64, types.KF64:
		return 4
	default:
		return 0
	}
}

// TryCast attempts to make value's type equal to ty, wrapping it in a
// Cast node if a conversion exists. The returned bool reports success;
// on failure the original value is returned unchanged.
func (r *Resolver) TryCast(value gir.Expr, ty types.Type) (gir.Expr, bool) {
	if types.Equals(value.GetType(), ty) {
		return value, true
	}
	kind, ok := r.CanCastType(value.GetType(), ty)
	if !ok {
		return value, false
	}
	return gir.NewCast(r.NextID(), ty, kind, value), true
}

// ExplicitNumericCast converts value to any other numeric type,
// regardless of sign class or width. This is the lowering target of the
// named conversion intrinsics (`i8(x)` .. `f64(x)`); the implicit cast
// lattice above never truncates or crosses sign classes on its own.
func (r *Resolver) ExplicitNumericCast(value gir.Expr, to types.Type) (gir.Expr, bool) {
	from := value.GetType()
	if !types.IsNumber(from) || !types.IsNumber(to) {
		return value, false
	}
	if types.Equals(from, to) {
		return value, true
	}
	kind := gir.CastNumericTruncate
	if sameSignClass(from, to) && numericRank(from) < numericRank(to) {
		kind = gir.CastNumericWiden
	}
	return gir.NewCast(r.NextID(), to, kind, value), true
}

// CastOrNone is TryCast dropping the success flag in favor of a nil
// result, for call sites that already have a fallback for "no coercion
// possible".
func (r *Resolver) CastOrNone(value gir.Expr, ty types.Type) gir.Expr {
	cast, ok := r.TryCast(value, ty)
	if !ok {
		return nil
	}
	return cast
}
