package resolver

import (
	"testing"

	"github.com/gelix-lang/gelixc/internal/ast"
	"github.com/gelix-lang/gelixc/internal/gir"
	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver() *Resolver {
	mod := symbols.NewModule(symbols.ModulePath{"test"})
	var counter uint64
	return New(mod, symbols.NewPrimitives(64), func() uint64 {
		counter++
		return counter
	})
}

func TestFindTypeResolvesPrimitive(t *testing.T) {
	r := newResolver()
	ty := r.FindType(ast.NewTypeIdent("i32", ast.Span{}))
	assert.Equal(t, types.TI32, ty)
	assert.Empty(t, r.Errors)
}

func TestFindTypeUnresolvedIdentIsE300(t *testing.T) {
	r := newResolver()
	ty := r.FindType(ast.NewTypeIdent("Bogus", ast.Span{}))
	assert.Equal(t, types.TAny, ty)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "E300", r.Errors[0].Code)
}

func TestFindTypeNullableOfNullableIsE302(t *testing.T) {
	r := newResolver()
	inner := ast.NewTypeNullable(ast.NewTypeIdent("i32", ast.Span{}), ast.Span{})
	outer := ast.NewTypeNullable(inner, ast.Span{})
	ty := r.FindType(outer)
	assert.Equal(t, types.TAny, ty)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "E302", r.Errors[0].Code)
}

func TestFindTypeBareFunctionRejectedByDefault(t *testing.T) {
	mod := symbols.NewModule(symbols.ModulePath{"test"})
	fn := symbols.NewFunction("f", mod)
	mod.Declare("f", symbols.FunctionDecl(fn))
	var counter uint64
	r := New(mod, symbols.NewPrimitives(64), func() uint64 { counter++; return counter })

	ty := r.FindType(ast.NewTypeIdent("f", ast.Span{}))
	assert.Equal(t, types.TAny, ty)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "E301", r.Errors[0].Code)

	r.Errors = nil
	ty2 := r.FindTypeAllowFn(ast.NewTypeIdent("f", ast.Span{}))
	assert.IsType(t, &types.Function{}, ty2)
	assert.Empty(t, r.Errors)
}

func TestFindTypeGenericAttachesArgs(t *testing.T) {
	mod := symbols.NewModule(symbols.ModulePath{"test"})
	box := symbols.NewADT("Box", symbols.KindClass, mod)
	box.TypeParameters = []*types.TypeParameter{{Index: 0, Name: "T"}}
	mod.Declare("Box", symbols.AdtDecl(box))
	var counter uint64
	r := New(mod, symbols.NewPrimitives(64), func() uint64 { counter++; return counter })

	generic := ast.NewTypeGeneric("Box", []ast.Type{ast.NewTypeIdent("i32", ast.Span{})}, ast.Span{})
	ty := r.FindType(generic)
	require.Empty(t, r.Errors)
	adt, ok := ty.(*types.Adt)
	require.True(t, ok)
	require.Len(t, adt.Inst.Args, 1)
	assert.Equal(t, types.TI32, adt.Inst.Args[0])
}

func TestFindTypeArgCountMismatchIsE321(t *testing.T) {
	mod := symbols.NewModule(symbols.ModulePath{"test"})
	box := symbols.NewADT("Box", symbols.KindClass, mod)
	box.TypeParameters = []*types.TypeParameter{{Index: 0, Name: "T"}}
	mod.Declare("Box", symbols.AdtDecl(box))
	var counter uint64
	r := New(mod, symbols.NewPrimitives(64), func() uint64 { counter++; return counter })

	generic := ast.NewTypeGeneric("Box", nil, ast.Span{})
	r.FindType(generic)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "E321", r.Errors[0].Code)
}

func TestFindTypeSearchesScopeTypeParamBeforeModule(t *testing.T) {
	r := newResolver()
	param := &types.TypeParameter{Index: 0, Name: "T"}
	r.Scope.TypeParams = []*types.TypeParameter{param}

	ty := r.FindType(ast.NewTypeIdent("T", ast.Span{}))
	v, ok := ty.(*types.Variable)
	require.True(t, ok)
	assert.Equal(t, "T", v.TypeVar.Name)
}

func TestFindTypeClosureWithNoReturnIsNone(t *testing.T) {
	r := newResolver()
	closure := ast.NewTypeClosure([]ast.Type{ast.NewTypeIdent("i32", ast.Span{})}, nil, ast.Span{})
	ty := r.FindType(closure)
	c, ok := ty.(*types.Closure)
	require.True(t, ok)
	assert.Equal(t, types.TNone, c.Sig.Return)
}

func litI32(r *Resolver, v int64) gir.Expr {
	return gir.NewLiteral(r.NextID(), types.TI32, gir.LitInt, v)
}

func TestTryCastIdentityNoOp(t *testing.T) {
	r := newResolver()
	v := litI32(r, 1)
	got, ok := r.TryCast(v, types.TI32)
	assert.True(t, ok)
	assert.Same(t, v, got)
}

func TestTryCastNumericWiden(t *testing.T) {
	r := newResolver()
	v := litI32(r, 1)
	got, ok := r.TryCast(v, types.TI64)
	require.True(t, ok)
	cast, ok := got.(*gir.Cast)
	require.True(t, ok)
	assert.Equal(t, gir.CastNumericWiden, cast.Kind)
}

func TestTryCastToNullable(t *testing.T) {
	r := newResolver()
	v := litI32(r, 1)
	got, ok := r.TryCast(v, &types.Nullable{Inner: types.TI32})
	require.True(t, ok)
	cast, ok := got.(*gir.Cast)
	require.True(t, ok)
	assert.Equal(t, gir.CastToNullable, cast.Kind)
}

func TestTryCastFailsForUnrelatedTypes(t *testing.T) {
	r := newResolver()
	v := gir.NewLiteral(r.NextID(), types.TBool, gir.LitBool, true)
	_, ok := r.TryCast(v, types.TI32)
	assert.False(t, ok)
}

func TestTryUnifyTypeSameTypeIsNoOp(t *testing.T) {
	r := newResolver()
	l := litI32(r, 1)
	rr := litI32(r, 2)
	ty, lOut, rOut := r.TryUnifyType(l, rr)
	assert.Equal(t, types.TI32, ty)
	assert.Same(t, l, lOut)
	assert.Same(t, rr, rOut)
}

func TestTryUnifyTypeNullWidening(t *testing.T) {
	r := newResolver()
	l := litI32(r, 1)
	nullLit := gir.NewLiteral(r.NextID(), types.TNull, gir.LitNull, nil)

	ty, lOut, rOut := r.TryUnifyType(l, nullLit)
	require.NotNil(t, ty)
	nullable, ok := ty.(*types.Nullable)
	require.True(t, ok)
	assert.Equal(t, types.TI32, nullable.Inner)

	_, lIsCast := lOut.(*gir.Cast)
	_, rIsCast := rOut.(*gir.Cast)
	assert.True(t, lIsCast)
	assert.True(t, rIsCast)
}

func TestTryUnifyTypeEnumCaseToParent(t *testing.T) {
	mod := symbols.NewModule(symbols.ModulePath{"test"})
	shape := symbols.NewADT("Shape", symbols.KindEnum, mod)
	circle := symbols.NewEnumCase("Circle", shape, true)
	square := symbols.NewEnumCase("Square", shape, true)
	var counter uint64
	r := New(mod, symbols.NewPrimitives(64), func() uint64 { counter++; return counter })

	left := gir.NewLiteral(r.NextID(), &types.Adt{Inst: types.Instance{Decl: circle}}, gir.LitInt, nil)
	right := gir.NewLiteral(r.NextID(), &types.Adt{Inst: types.Instance{Decl: square}}, gir.LitInt, nil)

	ty, _, _ := r.TryUnifyType(left, right)
	require.NotNil(t, ty)
	adt, ok := ty.(*types.Adt)
	require.True(t, ok)
	assert.Same(t, shape, adt.Inst.Decl)
}

func TestTryUnifyTypeNoCommonTypeReturnsNil(t *testing.T) {
	r := newResolver()
	l := litI32(r, 1)
	rr := gir.NewLiteral(r.NextID(), types.TBool, gir.LitBool, true)
	ty, _, _ := r.TryUnifyType(l, rr)
	assert.Nil(t, ty)
}
