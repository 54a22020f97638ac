// Package passes implements the three-stage lowering pipeline:
// declaration, field/method (with import resolution split across both
// stages), and expression passes. Passes never re-run; each
// accumulates *errors.Report values into its Context and is driven to
// completion across every module before the next begins (see
// internal/driver).
package passes

import (
	"fmt"

	"github.com/gelix-lang/gelixc/internal/ast"
	"github.com/gelix-lang/gelixc/internal/errors"
	"github.com/gelix-lang/gelixc/internal/resolver"
	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
)

// AdtSource is the minimal contract the declaration pass needs from an
// upstream ADT AST node: its name, kind, generic-parameter names, and
// (for enum cases) its parent's name plus whether the case is "simple"
// (body-less).
type AdtSource interface {
	Name() string
	Kind() symbols.AdtKind
	TypeParamNames() []string
	Cases() []AdtSource // non-nil only for an Enum
	Simple() bool       // meaningful only for an EnumCase
	External() bool     // meaningful only for a Class (FFI-bound)
}

// FnSource is the minimal contract for a free function or method
// signature the declaration pass consumes; bodies are left for the
// expression pass.
type FnSource struct {
	Name       string
	ParamNames []string
	ParamTypes []ast.Type
	ReturnType ast.Type // nil means None
	TypeParams []string
	External   bool
}

// ModuleSource bundles everything one module's declaration pass needs:
// its top-level ADT and function shapes.
type ModuleSource struct {
	Module *symbols.Module
	Adts   []AdtSource
	Fns    []FnSource
}

// Context is shared, mutable state threaded through every pass stage:
// the primitive table, the running node-ID counter every IR node in
// every module draws from, and the accumulated error list.
type Context struct {
	Primitives *symbols.Primitives
	Impls      *symbols.ImplTable

	nextID uint64
	Errors []*errors.Report
}

// NewContext builds the context every pass shares for one compilation
// run, initializing the primitive table once at startup; nothing
// mutates the table afterward.
func NewContext(pointerWidth int) *Context {
	return &Context{
		Primitives: symbols.NewPrimitives(pointerWidth),
		Impls:      symbols.NewImplTable(),
	}
}

// NextID mints a fresh, run-unique IR node identity.
func (c *Context) NextID() uint64 {
	c.nextID++
	return c.nextID
}

func (c *Context) report(phase, code, msg string) {
	c.Errors = append(c.Errors, errors.New(phase, code, msg, nil))
}

// NewResolver builds a Resolver for one module sharing this context's
// primitive table, impl table, and node-ID generator.
func (c *Context) NewResolver(mod *symbols.Module) *resolver.Resolver {
	r := resolver.New(mod, c.Primitives, c.NextID)
	r.Impls = c.Impls
	return r
}

// DeclareAdts is stage-1 step 1: creates empty ADT shells for every ADT
// in the module (classes, interfaces, enums together with their cases,
// which share the enum's parameter list).
func DeclareAdts(ctx *Context, src *ModuleSource) {
	for _, a := range src.Adts {
		adt := symbols.NewADT(a.Name(), a.Kind(), src.Module)
		adt.TypeParameters = makeTypeParams(a.TypeParamNames())
		adt.External = a.Kind() == symbols.KindClass && a.External()
		if a.Kind() == symbols.KindEnum {
			for _, caseSrc := range a.Cases() {
				c := symbols.NewEnumCase(caseSrc.Name(), adt, caseSrc.Simple())
				adt.Cases = append(adt.Cases, c)
				src.Module.Declare(caseSrc.Name(), symbols.AdtDecl(c))
			}
		}
		src.Module.Declare(a.Name(), symbols.AdtDecl(adt))
	}
}

func makeTypeParams(names []string) []*types.TypeParameter {
	if len(names) == 0 {
		return nil
	}
	params := make([]*types.TypeParameter, len(names))
	for i, n := range names {
		params[i] = &types.TypeParameter{Index: i, Name: n}
	}
	return params
}

// DeclareFunctions is stage-1 step 3: creates function shells with
// resolved signatures (parameters + return type) but empty bodies.
// Errors from signature resolution accumulate in ctx and do not halt
// the pass.
func DeclareFunctions(ctx *Context, src *ModuleSource) {
	r := ctx.NewResolver(src.Module)
	for _, f := range src.Fns {
		fn := symbols.NewFunction(f.Name, src.Module)
		fn.TypeParameters = makeTypeParams(f.TypeParams)
		fn.IsExternal = f.External
		r.Scope = resolver.Scope{TypeParams: fn.TypeParameters}

		fn.Parameters = make([]*symbols.LocalVariable, len(f.ParamNames))
		for i, name := range f.ParamNames {
			var ty types.Type = types.TAny
			if i < len(f.ParamTypes) {
				ty = r.FindType(f.ParamTypes[i])
			}
			fn.Parameters[i] = &symbols.LocalVariable{Name: name, Type: ty}
		}
		if f.ReturnType != nil {
			fn.ReturnType = r.FindType(f.ReturnType)
		} else {
			fn.ReturnType = types.TNone
		}

		if existing, dup := src.Module.Lookup(f.Name); dup {
			ctx.report(errors.PhaseDecl, errors.E100, fmt.Sprintf(
				"duplicate declaration %q in module %s (already declared as %T)",
				f.Name, src.Module.Path, existing))
			continue
		}
		src.Module.Declare(f.Name, symbols.FunctionDecl(fn))
	}
	ctx.Errors = append(ctx.Errors, r.Errors...)
}

// DeclareMethods is stage-2 step 1: for every ADT with populatable
// members, declares each method's signature (receiver + parameters +
// return type), mangling its internal name to keep methods on
// different ADTs distinct.
func DeclareMethods(ctx *Context, src *ModuleSource, methodsByAdt map[string][]FnSource) {
	for _, a := range src.Adts {
		decl, ok := src.Module.Lookup(a.Name())
		if !ok || decl.Adt == nil {
			continue
		}
		adt := decl.Adt
		if !adt.Kind.HasMembers() && adt.Kind != symbols.KindInterface {
			continue
		}
		r := ctx.NewResolver(src.Module)
		r.Scope = resolver.Scope{TypeParams: adt.TypeParameters}

		for _, m := range methodsByAdt[a.Name()] {
			if len(m.TypeParams) > 0 {
				ctx.report(errors.PhaseFields, errors.E205, fmt.Sprintf(
					"method %q on %s may not declare its own type parameters; it inherits %s's",
					m.Name, a.Name(), a.Name()))
			}
			fn := symbols.NewFunction(m.Name, src.Module)
			receiver := &symbols.LocalVariable{Name: "this", Type: &types.Adt{Inst: types.Instance{Decl: adt}}}
			fn.Parameters = append([]*symbols.LocalVariable{receiver}, declareParams(r, m)...)
			if m.ReturnType != nil {
				fn.ReturnType = r.FindType(m.ReturnType)
			} else {
				fn.ReturnType = types.TNone
			}
			if err := adt.AddMethod(fn); err != nil {
				ctx.report(errors.PhaseFields, errors.E201, err.Error())
			}
		}
		ctx.Errors = append(ctx.Errors, r.Errors...)
	}
}

func declareParams(r *resolver.Resolver, f FnSource) []*symbols.LocalVariable {
	params := make([]*symbols.LocalVariable, len(f.ParamNames))
	for i, name := range f.ParamNames {
		var ty types.Type = types.TAny
		if i < len(f.ParamTypes) {
			ty = r.FindType(f.ParamTypes[i])
		}
		params[i] = &symbols.LocalVariable{Name: name, Type: ty}
	}
	return params
}
