package symbols

import "github.com/gelix-lang/gelixc/internal/types"

// LocalVariable is a name bound inside a function body: a parameter, a
// `val`/`var` binding, or the implicit receiver/capture parameters. Its
// lifetime is the whole enclosing function (gelix has no nested storage
// duration shorter than that).
type LocalVariable struct {
	Name    string
	Type    types.Type
	Mutable bool
}

// Function is a callable: a free function, a method (receiver at
// parameter index 0), or a closure (capture env at parameter index 0).
// Body holds the lowered body as a gir.Expr: whatever node the body
// expression lowers to (synthesized lifecycle and constructor bodies are
// a *gir.Block). It is typed interface{} here so this package never
// imports gir — gir imports symbols, not the reverse.
type Function struct {
	// Name is the method map key / source name: for methods this is the
	// bare method name ("m"), not the mangled internal name.
	Name string
	// MangledName is "ADTName-methodName" for methods, identical to Name
	// for free functions; it exists purely to give methods on different
	// ADTs distinct identities in contexts that key by a flat name.
	MangledName string

	Parameters     []*LocalVariable
	TypeParameters []*types.TypeParameter
	ReturnType     types.Type
	Variables      []*LocalVariable
	Body           interface{}

	Module *Module

	// Receiver is non-nil for methods: the ADT the implicit `this`
	// parameter (always Parameters[0]) belongs to.
	Receiver *ADT

	// IsExternal marks a function with no body to generate (FFI-bound,
	// or a lifecycle method on an external class).
	IsExternal bool

	// IsPrototype marks a generic function/method still awaiting
	// monomorphization by the backend; its Instance may legally be
	// unspecialized when this is true.
	IsPrototype bool
}

func (f *Function) DeclName() string                        { return f.Name }
func (f *Function) DeclTypeParams() []*types.TypeParameter { return f.TypeParameters }

// Signature returns the function's type, ignoring the implicit receiver
// parameter (index 0) when hasReceiver is true — used by the interface-
// impl pass, which compares a method's user-visible shape.
func (f *Function) Signature(hasReceiver bool) *types.Closure {
	params := f.Parameters
	if hasReceiver && len(params) > 0 {
		params = params[1:]
	}
	paramTypes := make([]types.Type, len(params))
	for i, p := range params {
		paramTypes[i] = p.Type
	}
	return &types.Closure{Sig: types.ClosureSig{Params: paramTypes, Return: f.ReturnType}}
}

// NewFunction creates an empty function shell; the declaration pass fills
// in Parameters/ReturnType/TypeParameters, and the expression pass later
// fills Body and Variables.
func NewFunction(name string, module *Module) *Function {
	return &Function{Name: name, MangledName: name, Module: module}
}

// MangleMethod computes the internal collision-free name for a method:
// "ADTName-methodName". The method map keeps the bare name as its key;
// the mangled form only exists so methods on different ADTs stay
// distinct in flat-name contexts.
func MangleMethod(adtName, methodName string) string {
	return adtName + "-" + methodName
}
