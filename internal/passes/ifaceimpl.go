package passes

import (
	"fmt"

	"github.com/gelix-lang/gelixc/internal/errors"
	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
)

// ImplSource describes one `impl Interface for T` block: the
// implementor and interface type-identifier names plus the type
// arguments applied at the impl site (used to substitute the
// interface's own type parameters before comparing method shapes).
type ImplSource struct {
	ImplementorName string
	InterfaceName   string
	ImplSiteArgs    []types.Type
}

// RunIfaceImplPass processes one declared impl: resolve both types,
// match every interface method against the implementor's method of the
// same name (after substituting the interface's type parameters with
// the impl-site arguments), and register the result in the shared
// ImplTable keyed by implementor type. A missing or mismatched method
// is reported as E500 but does not block registering the methods that
// did match.
func RunIfaceImplPass(ctx *Context, mod *symbols.Module, impl ImplSource) {
	implDecl, ok := mod.Lookup(impl.ImplementorName)
	if !ok || implDecl.Adt == nil {
		ctx.report(errors.PhaseIfaceImpl, errors.E300, fmt.Sprintf("unresolved implementor %q", impl.ImplementorName))
		return
	}
	ifaceDecl, ok := mod.Lookup(impl.InterfaceName)
	if !ok || ifaceDecl.Adt == nil {
		ctx.report(errors.PhaseIfaceImpl, errors.E300, fmt.Sprintf("unresolved interface %q", impl.InterfaceName))
		return
	}

	implementorAdt := implDecl.Adt
	ifaceAdt := ifaceDecl.Adt
	implementorTy := &types.Adt{Inst: types.Instance{Decl: implementorAdt}}
	ifaceTy := &types.Adt{Inst: types.Instance{Decl: ifaceAdt, Args: impl.ImplSiteArgs}}

	matched := make(map[string]*symbols.Function)
	for name, ifaceMethod := range ifaceAdt.Methods {
		implMethod, ok := implementorAdt.Methods[name]
		if !ok {
			ctx.report(errors.PhaseIfaceImpl, errors.E500, fmt.Sprintf(
				"%s does not implement %s.%s", implementorAdt.Name, ifaceAdt.Name, name))
			continue
		}
		if !signaturesMatch(ifaceMethod, implMethod, impl.ImplSiteArgs) {
			ctx.report(errors.PhaseIfaceImpl, errors.E500, fmt.Sprintf(
				"%s.%s does not match %s.%s after substitution", implementorAdt.Name, name, ifaceAdt.Name, name))
			continue
		}
		matched[name] = implMethod
	}

	ctx.Impls.Get(implementorTy).Add(ifaceTy, matched)
}

// signaturesMatch reports whether implMethod's parameter/return types,
// compared strictly, equal ifaceMethod's types after substituting the
// interface's own type parameters with implSiteArgs. The receiver
// (parameter 0) is excluded from the comparison.
func signaturesMatch(ifaceMethod, implMethod *symbols.Function, implSiteArgs []types.Type) bool {
	if len(ifaceMethod.Parameters)-1 != len(implMethod.Parameters)-1 {
		return false
	}
	for i := 1; i < len(ifaceMethod.Parameters); i++ {
		want := types.Resolve(ifaceMethod.Parameters[i].Type, implSiteArgs)
		got := implMethod.Parameters[i].Type
		if !types.Equals(want, got) {
			return false
		}
	}
	want := types.Resolve(ifaceMethod.ReturnType, implSiteArgs)
	return types.Equals(want, implMethod.ReturnType)
}
