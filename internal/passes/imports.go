package passes

import (
	"fmt"

	"github.com/gelix-lang/gelixc/internal/errors"
	"github.com/gelix-lang/gelixc/internal/symbols"
)

// Registry resolves a module path to its loaded Module, used by both
// import stages to look up the source module of a pending import.
type Registry struct {
	byPath map[string]*symbols.Module
}

// NewRegistry builds a registry over every module in one compilation run.
func NewRegistry(modules []*symbols.Module) *Registry {
	reg := &Registry{byPath: make(map[string]*symbols.Module, len(modules))}
	for _, m := range modules {
		reg.byPath[m.Path.String()] = m
	}
	return reg
}

func (r *Registry) find(path symbols.ModulePath) (*symbols.Module, bool) {
	m, ok := r.byPath[path.String()]
	return m, ok
}

// ImportStage1 resolves only type imports (ADT/interface names),
// breaking the cycle where module A needs a type name from module B
// while B needs a value from A. Resolved imports are removed from the
// module's pending list; everything else is retried in stage 2.
func ImportStage1(ctx *Context, reg *Registry, mod *symbols.Module) {
	mod.Imports = resolveImports(ctx, reg, mod, symbols.ImportType)
}

// ImportStage2 resolves value imports (functions). Anything still
// pending after this call is reported as E-IMPORT.
func ImportStage2(ctx *Context, reg *Registry, mod *symbols.Module) {
	remaining := resolveImports(ctx, reg, mod, symbols.ImportValue)
	for _, imp := range remaining {
		ctx.report(errors.PhaseImport, errors.EImport, fmt.Sprintf(
			"unresolved import %q from %s", imp.Symbol, imp.Path))
	}
	mod.Imports = nil
}

// resolveImports processes every pending import of the given kind,
// returning the ones still unresolved (kept for the next stage, or
// reported as E-IMPORT if this was the last stage).
func resolveImports(ctx *Context, reg *Registry, mod *symbols.Module, kind symbols.ImportKind) []*symbols.PendingImport {
	var unresolved []*symbols.PendingImport
	for _, imp := range mod.Imports {
		if imp.Kind != kind {
			unresolved = append(unresolved, imp)
			continue
		}
		src, ok := reg.find(imp.Path)
		if !ok {
			unresolved = append(unresolved, imp)
			continue
		}
		if imp.Symbol == symbols.GlobSymbol {
			importGlob(mod, src, kind)
			continue
		}
		decl, ok := src.Lookup(imp.Symbol)
		if !ok || !matchesKind(decl, kind) {
			unresolved = append(unresolved, imp)
			continue
		}
		mod.Declare(imp.Symbol, decl)
	}
	return unresolved
}

// importGlob pulls every declaration of the given kind from src into
// mod; an import whose symbol is literally `+` means "everything of
// this kind".
func importGlob(mod, src *symbols.Module, kind symbols.ImportKind) {
	for name, decl := range src.Decls {
		if matchesKind(decl, kind) {
			mod.Declare(name, decl)
		}
	}
}

func matchesKind(decl *symbols.Declaration, kind symbols.ImportKind) bool {
	switch kind {
	case symbols.ImportType:
		return decl.Kind == symbols.DeclAdt
	case symbols.ImportValue:
		return decl.Kind == symbols.DeclFunction
	default:
		return false
	}
}
