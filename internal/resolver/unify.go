package resolver

import (
	"github.com/gelix-lang/gelixc/internal/gir"
	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
)

// TryUnifyType makes left and right the same type, inserting casts as
// needed, and returns that common type (or nil if no common type
// exists). The check order is load-bearing and must not change: enum-
// case-to-parent unification runs before null widening, which runs
// before generic cast probing.
func (r *Resolver) TryUnifyType(left, right gir.Expr) (types.Type, gir.Expr, gir.Expr) {
	leftTy := left.GetType()
	rightTy := right.GetType()

	if types.Equals(leftTy, rightTy) {
		return leftTy, left, right
	}

	if unified, l, rr, ok := r.unifyEnumCases(left, right); ok {
		return unified, l, rr
	}

	if unified, l, rr, ok := r.unifyNullWidening(left, right); ok {
		return unified, l, rr
	}

	if casted, ok := r.TryCast(left, rightTy); ok {
		return rightTy, casted, right
	}
	if casted, ok := r.TryCast(right, leftTy); ok {
		return leftTy, left, casted
	}

	return nil, left, right
}

// unifyEnumCases handles the case where both operands are (possibly
// nullable) instances of distinct cases of the same enum: both are
// bitcast up to their shared parent, then re-unified once (to fold in
// any remaining nullable/value mismatch).
func (r *Resolver) unifyEnumCases(left, right gir.Expr) (types.Type, gir.Expr, gir.Expr, bool) {
	leftAdt, leftNullable := adtOf(left.GetType())
	rightAdt, rightNullable := adtOf(right.GetType())
	if leftAdt == nil || rightAdt == nil {
		return nil, left, right, false
	}

	leftCase, ok := leftAdt.Inst.Decl.(*symbols.ADT)
	if !ok || leftCase.Parent == nil {
		return nil, left, right, false
	}
	rightCase, ok := rightAdt.Inst.Decl.(*symbols.ADT)
	if !ok || rightCase.Parent == nil {
		return nil, left, right, false
	}
	if leftCase.Parent != rightCase.Parent {
		return nil, left, right, false
	}
	if !instanceArgsEqual(leftAdt.Inst.Args, rightAdt.Inst.Args) {
		return nil, left, right, false
	}

	parentAdt := &types.Adt{Inst: types.Instance{Decl: leftCase.Parent, Args: leftAdt.Inst.Args}}
	var unifiedTy types.Type = parentAdt
	if leftNullable || rightNullable {
		unifiedTy = &types.Nullable{Inner: parentAdt}
	}

	leftCast := gir.NewCast(r.NextID(), unifiedTy, gir.CastBitcast, left)
	rightCast := gir.NewCast(r.NextID(), unifiedTy, gir.CastBitcast, right)

	// Run once more: the bitcast may still leave a value/nullable
	// mismatch (e.g. left was bare, right was already nullable).
	finalTy, l, rr := r.TryUnifyType(leftCast, rightCast)
	return finalTy, l, rr, true
}

// unifyNullWidening handles `null` on one side and a non-nullable,
// non-None, non-nullable-already type on the other: both widen to the
// nullable form of the non-null side's type.
func (r *Resolver) unifyNullWidening(left, right gir.Expr) (types.Type, gir.Expr, gir.Expr, bool) {
	leftTy, rightTy := left.GetType(), right.GetType()

	var other types.Type
	switch {
	case isNullLiteralType(leftTy) && eligibleForWidening(rightTy):
		other = rightTy
	case isNullLiteralType(rightTy) && eligibleForWidening(leftTy):
		other = leftTy
	default:
		return nil, left, right, false
	}

	nullable := &types.Nullable{Inner: other}
	leftCast := gir.NewCast(r.NextID(), nullable, gir.CastToNullable, left)
	rightCast := gir.NewCast(r.NextID(), nullable, gir.CastToNullable, right)
	return nullable, leftCast, rightCast, true
}

func isNullLiteralType(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Kind == types.KNull
}

func eligibleForWidening(t types.Type) bool {
	if b, ok := t.(*types.Basic); ok && (b.Kind == types.KNone || b.Kind == types.KNull) {
		return false
	}
	if _, ok := t.(*types.Nullable); ok {
		return false
	}
	return true
}

func adtOf(t types.Type) (*types.Adt, bool) {
	switch n := t.(type) {
	case *types.Adt:
		return n, false
	case *types.Nullable:
		if inner, ok := n.Inner.(*types.Adt); ok {
			return inner, true
		}
	}
	return nil, false
}

func instanceArgsEqual(a, b []types.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !types.Equals(a[i], b[i]) {
			return false
		}
	}
	return true
}
