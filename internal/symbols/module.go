// Package symbols holds the declaration-level data model shared by every
// pass: modules, the tagged Declaration variant, ADTs, fields, functions,
// local variables and interface-implementation tables. Passes populate
// these in place across the three stages described by the pass driver;
// nothing here re-derives state already computed by an earlier pass.
package symbols

import (
	"strings"

	"github.com/gelix-lang/gelixc/internal/types"
)

// ModulePath is an ordered sequence of name segments, e.g. ["std", "collections"].
type ModulePath []string

func (p ModulePath) String() string { return strings.Join(p, "/") }

func (p ModulePath) Equals(o ModulePath) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// PendingImport is an import statement not yet resolved by the two-stage
// import pass (see passes.ImportStage1/ImportStage2). Symbol == "+" denotes a glob
// import that pulls every symbol of Kind from the source module.
type PendingImport struct {
	Path   ModulePath
	Symbol string
	Kind   ImportKind
}

// ImportKind distinguishes the two import stages: types are resolved in
// stage 1, values (functions) in stage 2.
type ImportKind int

const (
	ImportType ImportKind = iota
	ImportValue
)

const GlobSymbol = "+"

// Module is a single compilation unit: a name, its declarations, and the
// imports it still needs resolved. The AST field is cleared by the driver
// once stage 3 completes; everything downstream addresses declarations
// through Module and Declaration, never through the AST again.
type Module struct {
	Path ModulePath

	// AST is the untyped syntax tree handed down by the parser. Upstream
	// owns its shape; the core only calls the small contract in package
	// ast. Set to nil after stage 3 to release memory.
	AST interface{}

	// Decls maps a declared name to its Declaration. Populated by the
	// declaration pass (stage 1) and never reassigned afterward; methods
	// and fields on an ADT are looked up through the ADT itself, not here.
	Decls map[string]*Declaration

	// Imports accumulates pending imports as the two import stages work
	// through them; a successfully resolved import is removed. Anything
	// left after stage 2 is reported as E-IMPORT.
	Imports []*PendingImport
}

// NewModule creates an empty module for the given path.
func NewModule(path ModulePath) *Module {
	return &Module{
		Path:  path,
		Decls: make(map[string]*Declaration),
	}
}

// Declare inserts a top-level declaration, keyed by its canonical
// (normalized) name.
func (m *Module) Declare(name string, decl *Declaration) {
	m.Decls[NormalizeName(name)] = decl
}

// Lookup finds a top-level declaration by name in this module only (no
// import resolution; that's the resolver's job).
func (m *Module) Lookup(name string) (*Declaration, bool) {
	d, ok := m.Decls[NormalizeName(name)]
	return d, ok
}

// DeclKind tags which of the two Declaration payloads is present.
type DeclKind int

const (
	DeclFunction DeclKind = iota
	DeclAdt
)

// Declaration is the tagged Function-or-Adt variant every top-level (and,
// for methods, nested) name resolves to.
type Declaration struct {
	Kind   DeclKind
	Fn     *Function
	Adt    *ADT
	Module *Module
}

// Name returns the declaration's canonical name regardless of kind.
func (d *Declaration) Name() string {
	switch d.Kind {
	case DeclFunction:
		return d.Fn.Name
	case DeclAdt:
		return d.Adt.Name
	default:
		return ""
	}
}

// TypeParams returns the declaration's generic parameters regardless of kind.
func (d *Declaration) TypeParams() []*types.TypeParameter {
	switch d.Kind {
	case DeclFunction:
		return d.Fn.TypeParameters
	case DeclAdt:
		return d.Adt.TypeParameters
	default:
		return nil
	}
}

// ToType produces the types.Type referencing this declaration: Function
// for a function declaration, Adt for an ADT declaration. The result is
// unspecialized (no arguments attached); callers that need a specific
// instantiation attach arguments via types.SetTypeArgs or types.Resolve.
func (d *Declaration) ToType() types.Type {
	switch d.Kind {
	case DeclFunction:
		return &types.Function{Inst: types.Instance{Decl: d.Fn}}
	case DeclAdt:
		return &types.Adt{Inst: types.Instance{Decl: d.Adt}}
	default:
		return types.TAny
	}
}

func FunctionDecl(fn *Function) *Declaration {
	return &Declaration{Kind: DeclFunction, Fn: fn, Module: fn.Module}
}

func AdtDecl(adt *ADT) *Declaration {
	return &Declaration{Kind: DeclAdt, Adt: adt, Module: adt.Module}
}
