// Package resolver turns AST-level type syntax into IR types, and
// implements the two expression-level operations every later pass
// builds on: casting a value to a target type, and unifying two
// branches' types into one.
package resolver

import (
	"fmt"

	"github.com/gelix-lang/gelixc/internal/ast"
	"github.com/gelix-lang/gelixc/internal/errors"
	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
)

// Scope is the per-function-or-ADT context a Resolver consults when
// resolving a bare identifier: the enclosing declaration's own type
// parameters, searched before falling through to the module/primitive
// table.
type Scope struct {
	TypeParams []*types.TypeParameter
}

// Resolver resolves AST types to IR types within one module, against
// the shared primitive table and the module's own (already import-
// resolved) declarations.
type Resolver struct {
	Module     *symbols.Module
	Primitives *symbols.Primitives
	Scope      Scope

	// Impls is the driver's shared implementor->interface table,
	// consulted by CanCastType to recognize CastToInterface. Nil (or
	// unpopulated) before the interface-impl pass runs; a lookup miss is
	// never an error, matching symbols.ImplTable.Get's lazy-creation
	// semantics.
	Impls *symbols.ImplTable

	// NextID mints node identities for any Cast node a TryCast/
	// TryUnifyType call inserts. Supplied by the driver so identities
	// stay unique across the whole compilation run, not just one module.
	NextID func() uint64

	Errors []*errors.Report
}

// New creates a Resolver for the given module, sharing the driver's
// single Primitives instance and node-ID generator.
func New(mod *symbols.Module, prims *symbols.Primitives, nextID func() uint64) *Resolver {
	return &Resolver{Module: mod, Primitives: prims, NextID: nextID}
}

// report accumulates an error and returns the Any sentinel, so that a
// caller can continue down its own expression tree rather than aborting
// the pass. Resolution errors never halt a pass.
func (r *Resolver) report(code, msg string, span *ast.Span) types.Type {
	r.Errors = append(r.Errors, errors.New(errors.PhaseResolver, code, msg, span))
	return types.TAny
}

// FindType resolves an AST type node to its IR equivalent, rejecting a
// bare function type (allow_fn=false). This is the entry point every
// other pass uses for parameter/field/return-type positions.
func (r *Resolver) FindType(t ast.Type) types.Type {
	return r.findType(t, false)
}

// FindTypeAllowFn is FindType but permits a bare function type to
// resolve, for positions where a function value (not a closure) is
// valid.
func (r *Resolver) FindTypeAllowFn(t ast.Type) types.Type {
	return r.findType(t, true)
}

func (r *Resolver) findType(t ast.Type, allowFn bool) types.Type {
	switch n := t.(type) {
	case *ast.TypeIdent:
		return r.findIdent(n, allowFn)

	case *ast.TypeNullable:
		inner := r.FindType(n.Inner)
		if _, ok := inner.(*types.Nullable); ok {
			span := n.Span()
			return r.report(errors.E302, "nullable of nullable", &span)
		}
		return &types.Nullable{Inner: inner}

	case *ast.TypeRawPtr:
		return &types.RawPtr{Inner: r.FindType(n.Inner)}

	case *ast.TypeClosure:
		params := make([]types.Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = r.FindType(p)
		}
		ret := types.Type(types.TNone)
		if n.Ret != nil {
			ret = r.FindType(n.Ret)
		}
		return &types.Closure{Sig: types.ClosureSig{Params: params, Return: ret}}

	case *ast.TypeGeneric:
		args := make([]ast.Type, len(n.Args))
		copy(args, n.Args)
		span := n.Span()
		return r.symbolWithTypeArgs(n.Ident, args, &span)

	default:
		return types.TAny
	}
}

func (r *Resolver) findIdent(n *ast.TypeIdent, allowFn bool) types.Type {
	ty := r.searchTypeParam(n.Name)
	if ty == nil {
		ty = r.symbol(n.Name)
	}
	if ty == nil {
		span := n.Span()
		return r.report(errors.E300, fmt.Sprintf("unresolved identifier %q", n.Name), &span)
	}
	if err := r.checkArgsCount(ty); err != nil {
		span := n.Span()
		return r.report(errors.E321, err.Error(), &span)
	}
	if _, isFn := ty.(*types.Function); isFn && !allowFn {
		span := n.Span()
		return r.report(errors.E301, "bare function type used in value position", &span)
	}
	return ty
}

// symbol resolves a plain name against the primitive table, then the
// current module's own declarations. Returns nil if nothing matches;
// import resolution has already made cross-module names local by the
// time the expression pass runs.
func (r *Resolver) symbol(name string) types.Type {
	if t, ok := r.Primitives.Lookup(name); ok {
		return t
	}
	if decl, ok := r.Module.Lookup(name); ok {
		return decl.ToType()
	}
	return nil
}

// symbolWithTypeArgs resolves `Ident[Args...]`, attaching the resolved
// arguments to the base symbol's Instance.
func (r *Resolver) symbolWithTypeArgs(ident string, argNodes []ast.Type, span *ast.Span) types.Type {
	base := r.searchTypeParam(ident)
	if base == nil {
		base = r.symbol(ident)
	}
	if base == nil {
		return r.report(errors.E300, fmt.Sprintf("unresolved identifier %q", ident), span)
	}
	if len(argNodes) == 0 {
		if err := r.checkArgsCount(base); err != nil {
			return r.report(errors.E321, err.Error(), span)
		}
		return base
	}
	args := make([]types.Type, len(argNodes))
	for i, a := range argNodes {
		args[i] = r.FindType(a)
	}
	if !types.SetTypeArgs(base, args) {
		return r.report(errors.E304, "type has no instance to attach arguments to", span)
	}
	if err := r.checkArgsCount(base); err != nil {
		return r.report(errors.E321, err.Error(), span)
	}
	return base
}

// checkArgsCount enforces the invariant every instance must satisfy
// before expression lowering: a type's argument count must equal its
// declaration's parameter count.
func (r *Resolver) checkArgsCount(ty types.Type) error {
	paramCount := len(types.TypeParams(ty))
	argCount := len(types.TypeArgs(ty))
	if paramCount != argCount {
		return fmt.Errorf("expected %d type argument(s), got %d", paramCount, argCount)
	}
	return nil
}

// searchTypeParam looks up name among the resolver's current scope's
// own type parameters, returning a Variable type if found.
func (r *Resolver) searchTypeParam(name string) types.Type {
	for _, p := range r.Scope.TypeParams {
		if p.Name == name {
			return &types.Variable{TypeVar: types.FromParam(p)}
		}
	}
	return nil
}
