package testutil

import (
	"testing"

	"github.com/gelix-lang/gelixc/internal/gir"
	"github.com/gelix-lang/gelixc/internal/types"
)

func TestDiffTypesEqualIgnoresIdentity(t *testing.T) {
	a := &types.Basic{Kind: types.KI32}
	b := &types.Basic{Kind: types.KI32}
	if diff := DiffTypes(a, b); diff != "" {
		t.Errorf("expected no diff between structurally equal types, got:\n%s", diff)
	}
}

func TestDiffTypesReportsMismatch(t *testing.T) {
	a := &types.Basic{Kind: types.KI32}
	b := &types.Basic{Kind: types.KBool}
	if diff := DiffTypes(a, b); diff == "" {
		t.Errorf("expected a diff between i32 and bool, got none")
	}
}

func TestDiffExprsIgnoresNodeID(t *testing.T) {
	want := gir.NewLiteral(1, types.TI32, gir.LitInt, int64(7))
	got := gir.NewLiteral(99, types.TI32, gir.LitInt, int64(7))
	AssertExprsEqual(t, want, got)
}

func TestDiffExprsReportsMismatch(t *testing.T) {
	want := gir.NewLiteral(1, types.TI32, gir.LitInt, int64(7))
	got := gir.NewLiteral(1, types.TI32, gir.LitInt, int64(8))
	if diff := DiffExprs(want, got); diff == "" {
		t.Errorf("expected a diff between literals 7 and 8, got none")
	}
}
