package passes

import (
	"testing"

	"github.com/gelix-lang/gelixc/internal/ast"
	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
)

type stubAdt struct {
	name     string
	kind     symbols.AdtKind
	params   []string
	cases    []AdtSource
	simple   bool
	external bool
}

func (s stubAdt) Name() string            { return s.name }
func (s stubAdt) Kind() symbols.AdtKind    { return s.kind }
func (s stubAdt) TypeParamNames() []string { return s.params }
func (s stubAdt) Cases() []AdtSource       { return s.cases }
func (s stubAdt) Simple() bool             { return s.simple }
func (s stubAdt) External() bool           { return s.external }

func TestDeclareAdtsCreatesShell(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule([]string{"demo"})
	src := &ModuleSource{Module: mod, Adts: []AdtSource{stubAdt{name: "Foo", kind: symbols.KindClass}}}

	DeclareAdts(ctx, src)

	decl, ok := mod.Lookup("Foo")
	if !ok || decl.Adt == nil {
		t.Fatalf("expected Foo to be declared as an ADT")
	}
	if decl.Adt.Kind != symbols.KindClass {
		t.Errorf("expected class kind, got %v", decl.Adt.Kind)
	}
}

func TestDeclareAdtsRegistersEnumCases(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule([]string{"demo"})
	cases := []AdtSource{stubAdt{name: "Red", simple: true}, stubAdt{name: "Blue", simple: true}}
	src := &ModuleSource{Module: mod, Adts: []AdtSource{stubAdt{name: "Color", kind: symbols.KindEnum, cases: cases}}}

	DeclareAdts(ctx, src)

	if _, ok := mod.Lookup("Red"); !ok {
		t.Errorf("expected enum case Red to be separately declared")
	}
	if _, ok := mod.Lookup("Blue"); !ok {
		t.Errorf("expected enum case Blue to be separately declared")
	}
}

func TestDeclareFunctionsResolvesSignature(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule([]string{"demo"})
	src := &ModuleSource{Module: mod, Fns: []FnSource{{
		Name:       "add",
		ParamNames: []string{"a", "b"},
		ParamTypes: []ast.Type{ast.NewTypeIdent("i32", ast.Span{}), ast.NewTypeIdent("i32", ast.Span{})},
		ReturnType: ast.NewTypeIdent("i32", ast.Span{}),
	}}}

	DeclareFunctions(ctx, src)

	decl, ok := mod.Lookup("add")
	if !ok || decl.Fn == nil {
		t.Fatalf("expected add to be declared as a function")
	}
	if len(decl.Fn.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(decl.Fn.Parameters))
	}
	if !types.Equals(decl.Fn.ReturnType, types.TI32) {
		t.Errorf("expected return type i32, got %s", decl.Fn.ReturnType)
	}
}

func TestDeclareFunctionsNoReturnTypeIsNone(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule([]string{"demo"})
	src := &ModuleSource{Module: mod, Fns: []FnSource{{Name: "noop"}}}

	DeclareFunctions(ctx, src)

	decl, _ := mod.Lookup("noop")
	if !types.Equals(decl.Fn.ReturnType, types.TNone) {
		t.Errorf("expected None return type, got %s", decl.Fn.ReturnType)
	}
}

func TestDeclareFunctionsDuplicateNameReportsE100(t *testing.T) {
	ctx := NewContext(64)
	mod := symbols.NewModule([]string{"demo"})
	src := &ModuleSource{Module: mod, Fns: []FnSource{{Name: "dup"}, {Name: "dup"}}}

	DeclareFunctions(ctx, src)

	if len(ctx.Errors) != 1 {
		t.Fatalf("expected exactly one duplicate-declaration error, got %d", len(ctx.Errors))
	}
	if ctx.Errors[0].Code != "E100" {
		t.Errorf("expected E100, got %s", ctx.Errors[0].Code)
	}
}
