package passes

import (
	"testing"

	"github.com/gelix-lang/gelixc/internal/errors"
	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func declareMethod(adt *symbols.ADT, mod *symbols.Module, name string, paramTypes []types.Type, ret types.Type) *symbols.Function {
	fn := symbols.NewFunction(name, mod)
	params := []*symbols.LocalVariable{{Name: "this", Type: &types.Adt{Inst: types.Instance{Decl: adt}}}}
	for i, pt := range paramTypes {
		params = append(params, &symbols.LocalVariable{Name: string(rune('a' + i)), Type: pt})
	}
	fn.Parameters = params
	fn.ReturnType = ret
	fn.MangledName = symbols.MangleMethod(adt.Name, name)
	fn.Receiver = adt
	adt.Methods[symbols.NormalizeName(name)] = fn
	return fn
}

// After the pass, the impl table for C contains I -> {m -> C.m}.
func TestIfaceImplRegistersMatchingMethods(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})

	iface := symbols.NewADT("I", symbols.KindInterface, mod)
	declareMethod(iface, mod, "m", nil, types.TI32)
	mod.Declare("I", symbols.AdtDecl(iface))

	class := symbols.NewADT("C", symbols.KindClass, mod)
	classM := declareMethod(class, mod, "m", nil, types.TI32)
	mod.Declare("C", symbols.AdtDecl(class))

	RunIfaceImplPass(ctx, mod, ImplSource{ImplementorName: "C", InterfaceName: "I"})

	require.Empty(t, ctx.Errors)
	classTy := &types.Adt{Inst: types.Instance{Decl: class}}
	impls := ctx.Impls.Get(classTy)
	methods, ok := impls.ByInterface["I"]
	require.True(t, ok)
	assert.Same(t, classM, methods["m"])
	assert.Same(t, classM, impls.Flat["m"])
}

func TestIfaceImplMissingMethodReportsE500(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})

	iface := symbols.NewADT("I", symbols.KindInterface, mod)
	declareMethod(iface, mod, "m", nil, types.TI32)
	mod.Declare("I", symbols.AdtDecl(iface))

	class := symbols.NewADT("C", symbols.KindClass, mod)
	mod.Declare("C", symbols.AdtDecl(class))

	RunIfaceImplPass(ctx, mod, ImplSource{ImplementorName: "C", InterfaceName: "I"})

	require.Len(t, ctx.Errors, 1)
	assert.Equal(t, errors.E500, ctx.Errors[0].Code)
}

func TestIfaceImplSignatureMismatchReportsE500(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})

	iface := symbols.NewADT("I", symbols.KindInterface, mod)
	declareMethod(iface, mod, "m", []types.Type{types.TI32}, types.TI32)
	mod.Declare("I", symbols.AdtDecl(iface))

	class := symbols.NewADT("C", symbols.KindClass, mod)
	declareMethod(class, mod, "m", []types.Type{types.TBool}, types.TI32)
	mod.Declare("C", symbols.AdtDecl(class))

	RunIfaceImplPass(ctx, mod, ImplSource{ImplementorName: "C", InterfaceName: "I"})

	require.Len(t, ctx.Errors, 1)
	assert.Equal(t, errors.E500, ctx.Errors[0].Code)
	// Nothing registered for the mismatched method.
	classTy := &types.Adt{Inst: types.Instance{Decl: class}}
	assert.Empty(t, ctx.Impls.Get(classTy).ByInterface["I"])
	assert.Empty(t, ctx.Impls.Get(classTy).Flat)
}

// A generic interface's method types are substituted with the impl-site
// arguments before comparison: Container[T].get(): T against an i32
// implementor matches when the impl site supplies [i32].
func TestIfaceImplSubstitutesImplSiteArgs(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})

	iface := symbols.NewADT("Container", symbols.KindInterface, mod)
	tParam := &types.TypeParameter{Index: 0, Name: "T"}
	iface.TypeParameters = []*types.TypeParameter{tParam}
	declareMethod(iface, mod, "get", nil, &types.Variable{TypeVar: types.FromParam(tParam)})
	mod.Declare("Container", symbols.AdtDecl(iface))

	class := symbols.NewADT("IntBox", symbols.KindClass, mod)
	getM := declareMethod(class, mod, "get", nil, types.TI32)
	mod.Declare("IntBox", symbols.AdtDecl(class))

	RunIfaceImplPass(ctx, mod, ImplSource{
		ImplementorName: "IntBox",
		InterfaceName:   "Container",
		ImplSiteArgs:    []types.Type{types.TI32},
	})

	require.Empty(t, ctx.Errors)
	classTy := &types.Adt{Inst: types.Instance{Decl: class}}
	methods, ok := ctx.Impls.Get(classTy).ByInterface["Container[i32]"]
	require.True(t, ok)
	assert.Same(t, getM, methods["get"])
}

// Querying a type with no registered impls yields an empty table,
// never an error.
func TestImplTableLazyEmptyForUnknownType(t *testing.T) {
	ctx := NewContext(64)
	impls := ctx.Impls.Get(types.TI32)
	require.NotNil(t, impls)
	assert.Empty(t, impls.ByInterface)
	assert.Empty(t, impls.Flat)
}
