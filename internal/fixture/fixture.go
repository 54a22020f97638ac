// Package fixture decodes a JSON module set into the pipeline's
// ModuleUnit shape so cmd/gelixc and internal/trace have something
// concrete to run over. The pipeline only ever consumes the
// ast.Node/ast.Type contract from whatever parser exists upstream —
// this package plays that role for the CLI: a plain, JSON-encoded
// module description rather than gelix source text, in the same
// golden-JSON idiom internal/ast/print.go already uses for Type trees.
//
// This is deliberately not a gelix-syntax parser; it is the smallest
// upstream collaborator that lets `gelixc check`/`gelixc trace` exercise
// the pipeline end to end on hand- or tool-written fixtures.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gelix-lang/gelixc/internal/ast"
	"github.com/gelix-lang/gelixc/internal/driver"
	"github.com/gelix-lang/gelixc/internal/gir"
	"github.com/gelix-lang/gelixc/internal/passes"
	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
)

// ModuleDoc is the top-level shape of one `*.module.json` fixture file.
type ModuleDoc struct {
	Path    []string    `json:"path"`
	Adts    []AdtDoc    `json:"adts"`
	Fns     []FnDoc     `json:"fns"`
	Impls   []ImplDoc   `json:"impls"`
	Imports []ImportDoc `json:"imports"`
}

// AdtDoc describes one class/interface/enum/enum-case declaration.
type AdtDoc struct {
	Name         string     `json:"name"`
	Kind         string     `json:"kind"` // class | interface | enum | enum_case
	TypeParams   []string   `json:"type_params"`
	External     bool       `json:"external"`
	Simple       bool       `json:"simple"` // meaningful for enum_case only
	Cases        []AdtDoc   `json:"cases"`  // populated for enum only
	Fields       []FieldDoc `json:"fields"`
	Methods      []FnDoc    `json:"methods"`
	Constructors []CtorDoc  `json:"constructors"`
}

// ParamDoc is one function/method/constructor parameter.
type ParamDoc struct {
	Name string   `json:"name"`
	Type *TypeDoc `json:"type"`
}

// FnDoc describes a free function or method: its signature and,
// optionally, its body.
type FnDoc struct {
	Name       string     `json:"name"`
	Params     []ParamDoc `json:"params"`
	TypeParams []string   `json:"type_params"`
	ReturnType *TypeDoc   `json:"return_type"`
	External   bool       `json:"external"`
	Body       *ExprDoc   `json:"body"`
}

// FieldDoc describes one ADT field.
type FieldDoc struct {
	Name        string   `json:"name"`
	Mutable     bool     `json:"mutable"`
	Weak        bool     `json:"weak"`
	Type        *TypeDoc `json:"type"`
	Initializer *ExprDoc `json:"initializer"`
}

// CtorDoc describes one explicitly written constructor.
type CtorDoc struct {
	Params []ParamDoc `json:"params"`
	Body   *ExprDoc   `json:"body"`
}

// ImplDoc describes one `impl Interface for T` block.
type ImplDoc struct {
	Implementor  string    `json:"implementor"`
	Interface    string    `json:"interface"`
	ImplSiteArgs []TypeDoc `json:"impl_site_args"`
}

// ImportDoc describes one pending import.
type ImportDoc struct {
	Path   []string `json:"path"`
	Symbol string   `json:"symbol"`
	Kind   string   `json:"kind"` // type | value
}

// TypeDoc is the JSON encoding of one ast.Type shape: ident, nullable,
// rawptr, closure, generic.
type TypeDoc struct {
	Kind   string    `json:"kind"`
	Name   string    `json:"name,omitempty"`
	Inner  *TypeDoc  `json:"inner,omitempty"`
	Params []TypeDoc `json:"params,omitempty"`
	Ret    *TypeDoc  `json:"ret,omitempty"`
	Args   []TypeDoc `json:"args,omitempty"`
}

func (t *TypeDoc) toAST() ast.Type {
	if t == nil {
		return nil
	}
	var span ast.Span
	switch t.Kind {
	case "ident":
		return ast.NewTypeIdent(t.Name, span)
	case "nullable":
		return ast.NewTypeNullable(t.Inner.toAST(), span)
	case "rawptr":
		return ast.NewTypeRawPtr(t.Inner.toAST(), span)
	case "closure":
		params := make([]ast.Type, len(t.Params))
		for i := range t.Params {
			params[i] = t.Params[i].toAST()
		}
		return ast.NewTypeClosure(params, t.Ret.toAST(), span)
	case "generic":
		args := make([]ast.Type, len(t.Args))
		for i := range t.Args {
			args[i] = t.Args[i].toAST()
		}
		return ast.NewTypeGeneric(t.Name, args, span)
	default:
		return nil
	}
}

// ExprDoc is the JSON encoding of one passes.ExprSource shape.
type ExprDoc struct {
	Kind string `json:"kind"`

	// lit
	LitKind  string      `json:"lit_kind,omitempty"`
	LitValue interface{} `json:"lit_value,omitempty"`

	// ident / assign target / field names
	Name string `json:"name,omitempty"`

	// binary / unary
	Op string `json:"op,omitempty"`

	// generic operand slots, meaning varies by Kind (see toExpr)
	A    *ExprDoc  `json:"a,omitempty"`
	B    *ExprDoc  `json:"b,omitempty"`
	C    *ExprDoc  `json:"c,omitempty"`
	Args []ExprDoc `json:"args,omitempty"`

	Unwrap bool `json:"unwrap,omitempty"`

	TypeArgs   []TypeDoc  `json:"type_args,omitempty"`
	Type       *TypeDoc   `json:"type,omitempty"`
	Mutable    bool       `json:"mutable,omitempty"`
	ReturnType *TypeDoc   `json:"return_type,omitempty"`
	Params     []ParamDoc `json:"params,omitempty"`
	Arms       []WhenArm  `json:"arms,omitempty"`
	Exprs      []ExprDoc  `json:"exprs,omitempty"`
}

// WhenArm is one `value -> body` arm of a when-expression fixture.
type WhenArm struct {
	Value ExprDoc `json:"value"`
	Body  ExprDoc `json:"body"`
}

func litValue(kind string, raw interface{}) interface{} {
	switch kind {
	case "int":
		if f, ok := raw.(float64); ok {
			return int64(f)
		}
	case "float":
		if f, ok := raw.(float64); ok {
			return f
		}
	case "bool":
		if b, ok := raw.(bool); ok {
			return b
		}
	case "string":
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return raw
}

func (e *ExprDoc) toExpr() passes.ExprSource {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case "lit":
		return passes.LitExpr{Kind: girLitKind(e.LitKind), Value: litValue(e.LitKind, e.LitValue)}
	case "ident":
		return passes.IdentExpr{Name: e.Name}
	case "binary":
		return passes.BinaryExpr{Op: e.Op, Left: e.A.toExpr(), Right: e.B.toExpr()}
	case "unary":
		return passes.UnaryExpr{Op: e.Op, Operand: e.A.toExpr()}
	case "call":
		args := make([]passes.ExprSource, len(e.Args))
		for i := range e.Args {
			args[i] = e.Args[i].toExpr()
		}
		targs := make([]ast.Type, len(e.TypeArgs))
		for i := range e.TypeArgs {
			targs[i] = e.TypeArgs[i].toAST()
		}
		return passes.CallExpr{Callee: e.A.toExpr(), TypeArgs: targs, Args: args}
	case "methodcall":
		args := make([]passes.ExprSource, len(e.Args))
		for i := range e.Args {
			args[i] = e.Args[i].toExpr()
		}
		return passes.MethodCallExpr{Object: e.A.toExpr(), Method: e.Name, Args: args}
	case "field":
		return passes.FieldAccessExpr{Object: e.A.toExpr(), Name: e.Name, Unwrap: e.Unwrap}
	case "fieldassign":
		return passes.FieldAssignExpr{Object: e.A.toExpr(), Name: e.Name, Value: e.B.toExpr()}
	case "vardecl":
		return passes.VarDeclExpr{Name: e.Name, Mutable: e.Mutable, Type: e.Type.toAST(), Value: e.A.toExpr()}
	case "assign":
		return passes.AssignExpr{Name: e.Name, Value: e.A.toExpr()}
	case "if":
		return passes.IfExpr{Cond: e.A.toExpr(), Then: e.B.toExpr(), Else: e.C.toExpr()}
	case "when":
		arms := make([]passes.WhenArm, len(e.Arms))
		for i, a := range e.Arms {
			v, b := a.Value, a.Body
			arms[i] = passes.WhenArm{Value: v.toExpr(), Body: b.toExpr()}
		}
		return passes.WhenExpr{Scrutinee: e.A.toExpr(), Arms: arms, Else: e.B.toExpr()}
	case "for":
		return passes.ForExpr{Cond: e.A.toExpr(), Body: e.B.toExpr()}
	case "break":
		return passes.BreakExpr{Value: e.A.toExpr()}
	case "return":
		return passes.ReturnExpr{Value: e.A.toExpr()}
	case "block":
		exprs := make([]passes.ExprSource, len(e.Exprs))
		for i := range e.Exprs {
			exprs[i] = e.Exprs[i].toExpr()
		}
		return passes.BlockExpr{Exprs: exprs}
	case "closure":
		names := make([]string, len(e.Params))
		ptypes := make([]ast.Type, len(e.Params))
		for i, p := range e.Params {
			names[i] = p.Name
			ptypes[i] = p.Type.toAST()
		}
		return passes.ClosureExpr{Params: names, ParamTypes: ptypes, ReturnType: e.ReturnType.toAST(), Body: e.A.toExpr()}
	default:
		return nil
	}
}

// LoadDir reads every `*.module.json` file in dir and decodes each into
// a driver.ModuleUnit, ready for a PassDriver.Run call.
func LoadDir(dir string) ([]*driver.ModuleUnit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read module dir %s: %w", dir, err)
	}
	var units []*driver.ModuleUnit
	for _, e := range entries {
		if ok, _ := filepath.Match("*.module.json", e.Name()); e.IsDir() || !ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		var doc ModuleDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		units = append(units, doc.toUnit())
	}
	return units, nil
}

func (d *AdtDoc) toAdtSource() *adtSource {
	cases := make([]passes.AdtSource, len(d.Cases))
	for i := range d.Cases {
		cases[i] = d.Cases[i].toAdtSource()
	}
	return &adtSource{
		name:       d.Name,
		kind:       adtKind(d.Kind),
		typeParams: d.TypeParams,
		cases:      cases,
		simple:     d.Simple,
		external:   d.External,
	}
}

type adtSource struct {
	name       string
	kind       symbols.AdtKind
	typeParams []string
	cases      []passes.AdtSource
	simple     bool
	external   bool
}

func (a *adtSource) Name() string              { return a.name }
func (a *adtSource) Kind() symbols.AdtKind      { return a.kind }
func (a *adtSource) TypeParamNames() []string   { return a.typeParams }
func (a *adtSource) Cases() []passes.AdtSource  { return a.cases }
func (a *adtSource) Simple() bool               { return a.simple }
func (a *adtSource) External() bool             { return a.external }

func adtKind(s string) symbols.AdtKind {
	switch s {
	case "interface":
		return symbols.KindInterface
	case "enum":
		return symbols.KindEnum
	case "enum_case":
		return symbols.KindEnumCase
	default:
		return symbols.KindClass
	}
}

func (f FnDoc) toFnSource() passes.FnSource {
	names := make([]string, len(f.Params))
	ptypes := make([]ast.Type, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Name
		ptypes[i] = p.Type.toAST()
	}
	return passes.FnSource{
		Name:       f.Name,
		ParamNames: names,
		ParamTypes: ptypes,
		ReturnType: f.ReturnType.toAST(),
		TypeParams: f.TypeParams,
		External:   f.External,
	}
}

func (doc *ModuleDoc) toUnit() *driver.ModuleUnit {
	mod := symbols.NewModule(symbols.ModulePath(doc.Path))
	for _, imp := range doc.Imports {
		kind := symbols.ImportType
		if imp.Kind == "value" {
			kind = symbols.ImportValue
		}
		mod.Imports = append(mod.Imports, &symbols.PendingImport{
			Path: symbols.ModulePath(imp.Path), Symbol: imp.Symbol, Kind: kind,
		})
	}

	unit := &driver.ModuleUnit{
		Module:            mod,
		MethodsByAdt:      map[string][]passes.FnSource{},
		FieldsByAdt:       map[string][]passes.FieldSource{},
		ConstructorsByAdt: map[string][]passes.ConstructorSource{},
		FnBodies:          map[string]passes.ExprSource{},
		MethodBodies:      map[string]passes.ExprSource{},
		CtorBodies:        map[string][]passes.ExprSource{},
	}

	for _, a := range doc.Adts {
		unit.Adts = append(unit.Adts, a.toAdtSource())
		collectAdtMembers(unit, a)
	}
	for _, f := range doc.Fns {
		unit.Fns = append(unit.Fns, f.toFnSource())
		if f.Body != nil {
			unit.FnBodies[f.Name] = f.Body.toExpr()
		}
	}
	for _, impl := range doc.Impls {
		// Impl-site type arguments need a resolved types.Type, which
		// requires a module-bound resolver; fixtures describing a
		// generic interface impl are expected to list impl_site_args
		// only when every argument is a primitive name the resolver can
		// look up without module context (see resolveImplArg).
		args := make([]types.Type, 0, len(impl.ImplSiteArgs))
		for i := range impl.ImplSiteArgs {
			if arg, ok := resolveImplArg(impl.ImplSiteArgs[i]); ok {
				args = append(args, arg)
			}
		}
		unit.Impls = append(unit.Impls, passes.ImplSource{
			ImplementorName: impl.Implementor,
			InterfaceName:   impl.Interface,
			ImplSiteArgs:    args,
		})
	}
	return unit
}

func collectAdtMembers(unit *driver.ModuleUnit, a AdtDoc) {
	var methods []passes.FnSource
	for _, m := range a.Methods {
		methods = append(methods, m.toFnSource())
		if m.Body != nil {
			unit.MethodBodies[a.Name+"."+m.Name] = m.Body.toExpr()
		}
	}
	if len(methods) > 0 {
		unit.MethodsByAdt[a.Name] = methods
	}

	var fields []passes.FieldSource
	for _, f := range a.Fields {
		fields = append(fields, passes.FieldSource{
			Name: f.Name, Mutable: f.Mutable, Weak: f.Weak,
			Type: f.Type.toAST(), Initializer: exprOrNil(f.Initializer),
		})
	}
	if len(fields) > 0 {
		unit.FieldsByAdt[a.Name] = fields
	}

	var ctors []passes.ConstructorSource
	var bodies []passes.ExprSource
	for _, c := range a.Constructors {
		names := make([]string, len(c.Params))
		ptypes := make([]ast.Type, len(c.Params))
		for i, p := range c.Params {
			names[i] = p.Name
			ptypes[i] = p.Type.toAST()
		}
		ctors = append(ctors, passes.ConstructorSource{ParamNames: names, ParamTypes: ptypes})
		bodies = append(bodies, c.Body.toExpr())
	}
	if len(ctors) > 0 {
		unit.ConstructorsByAdt[a.Name] = ctors
		unit.CtorBodies[a.Name] = bodies
	}

	for _, sub := range a.Cases {
		collectAdtMembers(unit, sub)
	}
}

// resolveImplArg resolves the narrow case of a primitive-named impl-site
// type argument (e.g. `impl Container[i32] for Box`) without a
// module-bound resolver; a non-primitive name (another ADT, a type
// parameter) is out of scope for this fixture format and is dropped
// with ok=false, matching an empty ImplSiteArgs for impls that don't
// need substitution.
func resolveImplArg(t TypeDoc) (types.Type, bool) {
	if t.Kind != "ident" {
		return nil, false
	}
	return symbols.NewPrimitives(64).Lookup(t.Name)
}

func exprOrNil(e *ExprDoc) interface{} {
	if e == nil {
		return nil
	}
	return e.toExpr()
}

func girLitKind(s string) gir.LitKind {
	switch s {
	case "bool":
		return gir.LitBool
	case "int":
		return gir.LitInt
	case "float":
		return gir.LitFloat
	case "string":
		return gir.LitString
	default:
		return gir.LitNull
	}
}
