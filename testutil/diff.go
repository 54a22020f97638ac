package testutil

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gelix-lang/gelixc/internal/gir"
	"github.com/gelix-lang/gelixc/internal/types"
)

var exprType = reflect.TypeOf((*gir.Expr)(nil)).Elem()

// typesEqual treats two types.Type values as equal when their
// canonical String() forms match. types.Type implementations hold
// pointers back to the declaring *ADT/*Function (Instance.Decl), which
// in turn hold methods referencing their own parameter/return types —
// a direct structural cmp.Diff over them would walk that cycle.
// Comparing strings sidesteps the cycle; unlike types.Equals, which
// compares declarations by identity, it treats two distinct
// declarations that print the same as equal.
func typesEqual(a, b types.Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// typeComparer is scoped away from values that also implement
// gir.Expr: types.Type's only method is String(), so every gir.Expr
// node incidentally satisfies it too. Without this filter, cmp sees
// two applicable Comparers for such a node and panics as ambiguous;
// exprComparer already subsumes typesEqual for those nodes (see
// exprComparer below).
var typeComparer = cmp.FilterPath(func(p cmp.Path) bool {
	return !p.Last().Type().Implements(exprType)
}, cmp.Comparer(typesEqual))

// DiffTypes returns a human-readable diff between two types.Type
// values, or "" if they're equal.
func DiffTypes(want, got types.Type) string {
	return cmp.Diff(want, got, typeComparer)
}

// AssertTypesEqual fails the test with a structural diff if want and
// got are not equal under DiffTypes.
func AssertTypesEqual(t *testing.T, want, got types.Type) {
	t.Helper()
	if diff := DiffTypes(want, got); diff != "" {
		t.Errorf("type mismatch (-want +got):\n%s", diff)
	}
}

// exprComparer treats two Expr nodes as equal when their String() forms
// and resolved types match. Every concrete gir node embeds an
// unexported base struct carrying a NodeID assigned by a monotonic
// per-run counter — never meaningful to compare across two
// independently-lowered trees — and each node's String() already omits
// it while still rendering every child expression recursively.
var exprComparer = cmp.Comparer(func(a, b gir.Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String() && typesEqual(a.GetType(), b.GetType())
})

// DiffExprs returns a human-readable structural diff between two IR
// expression trees, ignoring node IDs.
func DiffExprs(want, got gir.Expr) string {
	return cmp.Diff(want, got, exprComparer, typeComparer)
}

// AssertExprsEqual fails the test with a structural diff if want and
// got are not equal under DiffExprs.
func AssertExprsEqual(t *testing.T, want, got gir.Expr) {
	t.Helper()
	if diff := DiffExprs(want, got); diff != "" {
		t.Errorf("expr mismatch (-want +got):\n%s", diff)
	}
}
