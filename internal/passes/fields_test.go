package passes

import (
	"testing"

	"github.com/gelix-lang/gelixc/internal/ast"
	"github.com/gelix-lang/gelixc/internal/errors"
	"github.com/gelix-lang/gelixc/internal/gir"
	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowerNothing(raw interface{}) gir.Expr { return nil }

func i32Ident() ast.Type { return ast.NewTypeIdent("i32", ast.Span{}) }

func TestInsertAdtFieldsDenseIndices(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})
	foo := symbols.NewADT("Foo", symbols.KindClass, mod)

	InsertAdtFields(ctx, mod, foo, []FieldSource{
		{Name: "a", Type: i32Ident()},
		{Name: "b", Mutable: true, Type: ast.NewTypeIdent("bool", ast.Span{})},
	}, lowerNothing)

	require.Empty(t, ctx.Errors)
	fields := foo.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, 0, fields[0].Index)
	assert.Equal(t, 1, fields[1].Index)
	assert.Equal(t, types.TI32, fields[0].Type)
	assert.Equal(t, types.TBool, fields[1].Type)
	assert.True(t, fields[1].Mutable)
}

func TestInsertAdtFieldsInfersFromInitializer(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})
	foo := symbols.NewADT("Foo", symbols.KindClass, mod)

	init := gir.NewLiteral(ctx.NextID(), types.TF64, gir.LitFloat, 1.5)
	InsertAdtFields(ctx, mod, foo, []FieldSource{
		{Name: "x", Initializer: "raw"},
	}, func(raw interface{}) gir.Expr { return init })

	require.Empty(t, ctx.Errors)
	f, ok := foo.Field("x")
	require.True(t, ok)
	assert.Equal(t, types.TF64, f.Type)
	assert.Same(t, init, f.Initializer)
}

func TestInsertAdtFieldsDuplicateReportsE200(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})
	foo := symbols.NewADT("Foo", symbols.KindClass, mod)

	InsertAdtFields(ctx, mod, foo, []FieldSource{
		{Name: "x", Type: i32Ident()},
		{Name: "x", Type: i32Ident()},
	}, lowerNothing)

	require.Len(t, ctx.Errors, 1)
	assert.Equal(t, errors.E200, ctx.Errors[0].Code)
	// The pass continues: the first insertion survives.
	assert.Len(t, foo.Fields(), 1)
}

// A weak reference back to the declaring class can never outlive its
// holder and is rejected; a strong self-reference (an ordinary
// tree/list node shape) stays legal.
func TestInsertAdtFieldsWeakSelfReferenceRejected(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})
	node := symbols.NewADT("Node", symbols.KindClass, mod)
	mod.Declare("Node", symbols.AdtDecl(node))

	InsertAdtFields(ctx, mod, node, []FieldSource{
		{Name: "parent", Weak: true, Type: ast.NewTypeIdent("Node", ast.Span{})},
	}, lowerNothing)

	require.Len(t, ctx.Errors, 1)
	assert.Equal(t, errors.E202, ctx.Errors[0].Code)
}

func TestInsertAdtFieldsStrongSelfReferenceLegal(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})
	node := symbols.NewADT("Node", symbols.KindClass, mod)
	mod.Declare("Node", symbols.AdtDecl(node))

	InsertAdtFields(ctx, mod, node, []FieldSource{
		{Name: "next", Type: ast.NewTypeNullable(ast.NewTypeIdent("Node", ast.Span{}), ast.Span{})},
	}, lowerNothing)

	require.Empty(t, ctx.Errors)
	f, ok := node.Field("next")
	require.True(t, ok)
	assert.False(t, f.Weak)
}

// A weak field pointing at a different class is fine; only pointing
// back at the declaring class is rejected.
func TestInsertAdtFieldsWeakCrossReferenceLegal(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})
	owner := symbols.NewADT("Owner", symbols.KindClass, mod)
	item := symbols.NewADT("Item", symbols.KindClass, mod)
	mod.Declare("Owner", symbols.AdtDecl(owner))
	mod.Declare("Item", symbols.AdtDecl(item))

	InsertAdtFields(ctx, mod, item, []FieldSource{
		{Name: "owner", Weak: true, Type: ast.NewTypeIdent("Owner", ast.Span{})},
	}, lowerNothing)

	require.Empty(t, ctx.Errors)
	f, ok := item.Field("owner")
	require.True(t, ok)
	assert.True(t, f.Weak)
}

func TestEnumCaseFieldIndicesContinueFromParent(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})
	enum := symbols.NewADT("E", symbols.KindEnum, mod)
	kase := symbols.NewEnumCase("A", enum, false)

	InsertAdtFields(ctx, mod, enum, []FieldSource{
		{Name: "tag", Type: i32Ident()},
	}, lowerNothing)
	InsertAdtFields(ctx, mod, kase, []FieldSource{
		{Name: "extra", Type: i32Ident()},
	}, lowerNothing)

	require.Empty(t, ctx.Errors)
	f, ok := kase.Field("extra")
	require.True(t, ok)
	assert.Equal(t, 1, f.Index)

	all := kase.AllFields()
	require.Len(t, all, 2)
	assert.Equal(t, "tag", all[0].Name)
	assert.Equal(t, "extra", all[1].Name)
	// Parent fields stay reachable through the case.
	inherited, ok := kase.Field("tag")
	require.True(t, ok)
	assert.Equal(t, 0, inherited.Index)
}

// A class with no explicit constructor gets exactly one synthesized
// constructor taking (this, one param per field).
func TestDeclareConstructorsSynthesizesDefault(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})
	foo := symbols.NewADT("Foo", symbols.KindClass, mod)
	InsertAdtFields(ctx, mod, foo, []FieldSource{{Name: "x", Type: i32Ident()}}, lowerNothing)

	ctors := DeclareConstructors(ctx, mod, foo, nil)

	require.Len(t, ctors, 1)
	ctor := ctors[0]
	require.Len(t, ctor.Parameters, 2)
	assert.Equal(t, "this", ctor.Parameters[0].Name)
	assert.Equal(t, "x", ctor.Parameters[1].Name)
	assert.Equal(t, types.TI32, ctor.Parameters[1].Type)
	assert.Same(t, ctor, foo.Constructors[0])
}

func TestDeclareConstructorsKeepsExplicitOnes(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})
	foo := symbols.NewADT("Foo", symbols.KindClass, mod)
	InsertAdtFields(ctx, mod, foo, []FieldSource{{Name: "x", Type: i32Ident()}}, lowerNothing)

	ctors := DeclareConstructors(ctx, mod, foo, []ConstructorSource{
		{ParamNames: []string{"x"}, ParamTypes: []ast.Type{i32Ident()}},
		{},
	})

	require.Len(t, ctors, 2)
	assert.Len(t, ctors[0].Parameters, 2)
	assert.Len(t, ctors[1].Parameters, 1) // receiver only
}

func TestConstructorSettersAssignMatchingFields(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})
	foo := symbols.NewADT("Foo", symbols.KindClass, mod)
	InsertAdtFields(ctx, mod, foo, []FieldSource{
		{Name: "x", Type: i32Ident()},
		{Name: "y", Type: i32Ident()},
	}, lowerNothing)
	ctors := DeclareConstructors(ctx, mod, foo, []ConstructorSource{
		{ParamNames: []string{"x", "other"}, ParamTypes: []ast.Type{i32Ident(), i32Ident()}},
	})

	prologue := ConstructorSetters(foo, ctors[0], ctx.NextID)

	// Only the parameter sharing a field's name assigns; "other" does not.
	require.Len(t, prologue, 1)
	set, ok := prologue[0].(*gir.FieldSet)
	require.True(t, ok)
	assert.Equal(t, "x", set.Field.Name)
}

func TestLifecycleMethodsDeclaredAndGenerated(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule(symbols.ModulePath{"demo"})

	inner := symbols.NewADT("Inner", symbols.KindClass, mod)
	innerNew, innerWr, innerSr := DeclareLifecycleMethods(mod, inner)
	GenerateLifecycleMethods(inner, innerNew, innerWr, innerSr, ctx.NextID)

	outer := symbols.NewADT("Outer", symbols.KindClass, mod)
	require.NoError(t, outer.AddField(&symbols.Field{
		Name: "child", Type: &types.Adt{Inst: types.Instance{Decl: inner}},
	}))
	require.NoError(t, outer.AddField(&symbols.Field{Name: "n", Type: types.TI32}))

	newInstance, freeWr, freeSr := DeclareLifecycleMethods(mod, outer)
	require.NotNil(t, newInstance)
	GenerateLifecycleMethods(outer, newInstance, freeWr, freeSr, ctx.NextID)

	for _, name := range []string{"new-instance", "free-wr", "free-sr"} {
		m, ok := outer.Methods[name]
		require.True(t, ok, name)
		require.NotNil(t, m.Body, name)
		assert.Equal(t, symbols.MangleMethod("Outer", name), m.MangledName)
	}

	// free-sr drops the ADT-typed field via its own free-sr; the i32
	// field needs no drop.
	body, ok := freeSr.Body.(*gir.Block)
	require.True(t, ok)
	require.Len(t, body.Exprs, 1)
	call, ok := body.Exprs[0].(*gir.Call)
	require.True(t, ok)
	assert.Same(t, inner.Methods["free-sr"], call.Target)
}

func TestLifecycleMethodsSkippedForInterfaces(t *testing.T) {
	mod := symbols.NewModule(symbols.ModulePath{"demo"})
	iface := symbols.NewADT("I", symbols.KindInterface, mod)
	newInstance, _, _ := DeclareLifecycleMethods(mod, iface)
	assert.Nil(t, newInstance)
	assert.Empty(t, iface.Methods)
}
