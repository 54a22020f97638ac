package passes

import (
	"fmt"

	"github.com/gelix-lang/gelixc/internal/ast"
	"github.com/gelix-lang/gelixc/internal/errors"
	"github.com/gelix-lang/gelixc/internal/gir"
	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
)

// FieldSource is the minimal upstream contract for one declared field:
// its name, mutability and reference kind, an optional explicit type
// (nil means "infer from initializer"), and an optional initializer
// expression handed to the caller-supplied lowering function.
type FieldSource struct {
	Name        string
	Mutable     bool
	Weak        bool // weak reference; never contributes to the target's refcount
	Type        ast.Type // nil: infer from Initializer
	Initializer interface{}
}

// InsertAdtFields is stage-2 step 3: inserts an ADT's fields in
// declaration order, using an explicit type when given or inferring one
// from the lowered initializer, and rejects a weak field whose value
// could not outlive the instance it lives in (E202).
func InsertAdtFields(ctx *Context, mod *symbols.Module, adt *symbols.ADT, fieldSrcs []FieldSource, lower func(raw interface{}) gir.Expr) {
	if !adt.Kind.HasMembers() {
		return
	}
	r := ctx.NewResolver(mod)
	r.Scope.TypeParams = adt.TypeParameters

	for _, fs := range fieldSrcs {
		var ty types.Type
		var init gir.Expr
		if fs.Initializer != nil {
			init = lower(fs.Initializer)
			ty = init.GetType()
		}
		if fs.Type != nil {
			ty = r.FindType(fs.Type)
		} else if init == nil {
			ty = types.TAny
		}

		field := &symbols.Field{Name: fs.Name, Mutable: fs.Mutable, Weak: fs.Weak, Type: ty, Initializer: init}
		if !canEscape(field, adt) {
			ctx.report(errors.PhaseFields, errors.E202, fmt.Sprintf(
				"field %q on %s may not be a weak reference to its own enclosing type", fs.Name, adt.Name))
		}
		if err := adt.AddField(field); err != nil {
			ctx.report(errors.PhaseFields, errors.E200, err.Error())
		}
	}
	ctx.Errors = append(ctx.Errors, r.Errors...)
}

// canEscape rejects the one field shape whose value can never outlive
// its holder: a weak reference back to the ADT that declares the field.
// Such a field would always dangle the moment its holder's strong count
// reaches zero, since the holder itself is what keeps the target alive.
// Strong self-references (tree/list nodes pointing at their own class)
// are fine and stay legal; reference kind is per-field metadata
// (Field.Weak), not part of the type lattice.
func canEscape(f *symbols.Field, owner *symbols.ADT) bool {
	if !f.Weak {
		return true
	}
	ty := f.Type
	if n, ok := ty.(*types.Nullable); ok {
		ty = n.Inner
	}
	adt, ok := ty.(*types.Adt)
	if !ok {
		return true
	}
	decl, ok := adt.Inst.Decl.(*symbols.ADT)
	return !ok || decl != owner
}

// ConstructorSource describes one explicitly written constructor's
// parameter shapes. Constructors have no name of their own — they are
// invoked through the enclosing ADT's bare name — so only the
// parameter list varies between overloads.
type ConstructorSource struct {
	ParamNames []string
	ParamTypes []ast.Type
}

// DeclareConstructors is stage-2's constructor-declaration step: declares
// each user-written constructor's signature, or — if the source declared
// none — synthesizes the single default constructor: one parameter per
// field, in field order, named and typed after that field. Must run
// after InsertAdtFields so the synthesized default constructor can see
// the ADT's field types.
func DeclareConstructors(ctx *Context, mod *symbols.Module, adt *symbols.ADT, ctorSrcs []ConstructorSource) []*symbols.Function {
	if !adt.Kind.HasMembers() {
		return nil
	}
	r := ctx.NewResolver(mod)
	r.Scope.TypeParams = adt.TypeParameters
	receiver := lifecycleReceiver(adt)

	var ctors []*symbols.Function
	for _, cs := range ctorSrcs {
		fn := symbols.NewFunction(adt.Name, mod)
		fn.Parameters = append([]*symbols.LocalVariable{receiver}, declareParams(r, FnSource{
			ParamNames: cs.ParamNames, ParamTypes: cs.ParamTypes,
		})...)
		fn.ReturnType = types.TNone
		ctors = append(ctors, fn)
	}
	ctx.Errors = append(ctx.Errors, r.Errors...)

	if len(ctors) == 0 {
		ctors = append(ctors, synthesizeDefaultConstructor(mod, adt, receiver))
	}
	adt.Constructors = ctors
	return ctors
}

// synthesizeDefaultConstructor builds the implicit no-explicit-constructor
// shape: one parameter per field, in declaration order. ConstructorSetters
// then wires each parameter to its same-named field, so this constructor
// needs no further user-written body.
func synthesizeDefaultConstructor(mod *symbols.Module, adt *symbols.ADT, receiver *symbols.LocalVariable) *symbols.Function {
	fn := symbols.NewFunction(adt.Name, mod)
	params := make([]*symbols.LocalVariable, 0, len(adt.Fields())+1)
	params = append(params, receiver)
	for _, f := range adt.Fields() {
		params = append(params, &symbols.LocalVariable{Name: f.Name, Type: f.Type})
	}
	fn.Parameters = params
	fn.ReturnType = types.TNone
	return fn
}

// ConstructorSetters builds a constructor's implicit prologue: any
// parameter sharing a field's name assigns that field before the
// user-written body runs. Returns the prologue statements to prepend
// to the constructor body.
func ConstructorSetters(adt *symbols.ADT, ctor *symbols.Function, nextID func() uint64) []gir.Expr {
	var prologue []gir.Expr
	for _, p := range ctor.Parameters {
		field, ok := adt.Field(p.Name)
		if !ok {
			continue
		}
		this := ctor.Parameters[0]
		load := gir.NewVarLoad(nextID(), this)
		paramLoad := gir.NewVarLoad(nextID(), p)
		prologue = append(prologue, gir.NewFieldSet(nextID(), load, field, paramLoad))
	}
	return prologue
}

// lifecycleReceiver builds the implicit `this` parameter every
// synthesized lifecycle method takes.
func lifecycleReceiver(adt *symbols.ADT) *symbols.LocalVariable {
	return &symbols.LocalVariable{Name: "this", Type: &types.Adt{Inst: types.Instance{Decl: adt}}}
}

// DeclareLifecycleMethods is stage-2 step 5's declaration half: adds
// `new-instance`, `free-wr`, and `free-sr` method shells to adt.
// Bodies are filled in by GenerateLifecycleMethods.
func DeclareLifecycleMethods(mod *symbols.Module, adt *symbols.ADT) (newInstance, freeWr, freeSr *symbols.Function) {
	if !adt.Kind.HasMembers() {
		return nil, nil, nil
	}
	newInstance = symbols.NewFunction("new-instance", mod)
	newInstance.Parameters = []*symbols.LocalVariable{lifecycleReceiver(adt)}
	newInstance.ReturnType = types.TNone
	adt.Methods["new-instance"] = newInstance
	newInstance.MangledName = symbols.MangleMethod(adt.Name, "new-instance")
	newInstance.Receiver = adt

	freeWr = symbols.NewFunction("free-wr", mod)
	freeWr.Parameters = []*symbols.LocalVariable{lifecycleReceiver(adt)}
	freeWr.ReturnType = types.TNone
	adt.Methods["free-wr"] = freeWr
	freeWr.MangledName = symbols.MangleMethod(adt.Name, "free-wr")
	freeWr.Receiver = adt

	freeSr = symbols.NewFunction("free-sr", mod)
	freeSr.Parameters = []*symbols.LocalVariable{lifecycleReceiver(adt)}
	freeSr.ReturnType = types.TNone
	adt.Methods["free-sr"] = freeSr
	freeSr.MangledName = symbols.MangleMethod(adt.Name, "free-sr")
	freeSr.Receiver = adt
	return
}

// GenerateLifecycleMethods fills in the bodies declared above:
// new-instance assigns each field's default initializer (if any);
// free-wr/free-sr each visit every ADT-typed field and emit a
// recursive drop call, with free-sr additionally responsible for the
// instance's own deallocation (left to the backend — the IR only
// records the call sequence, not the allocator).
func GenerateLifecycleMethods(adt *symbols.ADT, newInstance, freeWr, freeSr *symbols.Function, nextID func() uint64) {
	newInstance.Body = buildNewInstanceBody(adt, newInstance, nextID)
	freeWr.Body = buildDropBody(adt, freeWr, "free-wr", nextID)
	freeSr.Body = buildDropBody(adt, freeSr, "free-sr", nextID)
}

func buildNewInstanceBody(adt *symbols.ADT, fn *symbols.Function, nextID func() uint64) *gir.Block {
	this := fn.Parameters[0]
	var exprs []gir.Expr
	for _, f := range adt.Fields() {
		init, ok := f.Initializer.(gir.Expr)
		if !ok || init == nil {
			continue
		}
		load := gir.NewVarLoad(nextID(), this)
		exprs = append(exprs, gir.NewFieldSet(nextID(), load, f, init))
	}
	return gir.NewBlock(nextID(), exprs)
}

func buildDropBody(adt *symbols.ADT, fn *symbols.Function, dropMethod string, nextID func() uint64) *gir.Block {
	this := fn.Parameters[0]
	var exprs []gir.Expr
	for _, f := range adt.AllFields() {
		if f.Weak {
			// A weak field never held a count on its target; there is
			// nothing to release.
			continue
		}
		fieldAdt, ok := f.Type.(*types.Adt)
		if !ok {
			continue
		}
		fieldDecl, ok := fieldAdt.Inst.Decl.(*symbols.ADT)
		if !ok {
			continue
		}
		dropFn, ok := fieldDecl.Methods[dropMethod]
		if !ok {
			continue
		}
		load := gir.NewVarLoad(nextID(), this)
		get := gir.NewFieldGet(nextID(), f.Type, load, f, false)
		exprs = append(exprs, gir.NewCall(nextID(), types.TNone, gir.CallDirect, nil, dropFn, []gir.Expr{get}))
	}
	return gir.NewBlock(nextID(), exprs)
}
