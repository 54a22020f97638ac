// Package driver orchestrates the fixed three-stage pass pipeline
// across every module in one compilation run: stage 1 (declarations +
// import stage 1/2 + intrinsics validation), stage 2 (fields, methods,
// constructors, interface impls, lifecycle methods), stage 3
// (expression lowering). Stages never interleave: every module finishes
// a stage before any module starts the next.
package driver

import (
	"time"

	"github.com/google/uuid"

	"github.com/gelix-lang/gelixc/internal/config"
	"github.com/gelix-lang/gelixc/internal/errors"
	"github.com/gelix-lang/gelixc/internal/gir"
	"github.com/gelix-lang/gelixc/internal/passes"
	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
)

// GeneratorContext is the shared state every pass reads and writes,
// owned exclusively by the pass driver: the primitive table, the impl
// table, and the running error list, plus a per-compilation-run
// correlation ID attached to every report so a batch `check` run's
// diagnostics can be grouped in logs.
type GeneratorContext struct {
	*passes.Context
	RunID string
}

// NewGeneratorContext builds the context for one compilation run: a
// fresh primitive table for the given pointer width (32 or 64) and a
// fresh correlation ID. Built once at driver start; immutable lookups
// thereafter.
func NewGeneratorContext(pointerWidth int) *GeneratorContext {
	return &GeneratorContext{
		Context: passes.NewContext(pointerWidth),
		RunID:   uuid.NewString(),
	}
}

// NewGeneratorContextFromConfig builds the context from a loaded
// internal/config.Config, additionally registering every configured
// extra intrinsic marker name before stage 1 runs.
func NewGeneratorContextFromConfig(cfg *config.Config) *GeneratorContext {
	gc := NewGeneratorContext(cfg.PointerWidth)
	for _, name := range cfg.Intrinsics {
		gc.Primitives.RegisterIntrinsic(name)
	}
	return gc
}

// ModuleUnit bundles one module's upstream-AST-derived sources — every
// shape a pass stage needs, pulled out ahead of time so the pipeline
// stays agnostic to concrete AST syntax. Bodies are addressed by name,
// not by the *symbols.Function the pipeline itself creates, since
// callers assemble a ModuleUnit before any declaration pass has run.
type ModuleUnit struct {
	Module *symbols.Module
	Adts   []passes.AdtSource
	Fns    []passes.FnSource

	MethodsByAdt      map[string][]passes.FnSource
	FieldsByAdt       map[string][]passes.FieldSource
	ConstructorsByAdt map[string][]passes.ConstructorSource
	Impls             []passes.ImplSource

	// FnBodies maps a free function's name to its body source.
	FnBodies map[string]passes.ExprSource
	// MethodBodies maps "AdtName.methodName" to its body source.
	MethodBodies map[string]passes.ExprSource
	// CtorBodies maps an ADT name to its constructors' body sources, in
	// the same order as ConstructorsByAdt[name]; a missing or short
	// entry means that constructor has no user body beyond the
	// synthesized field-setter prologue — always the case for the
	// compiler-synthesized default constructor.
	CtorBodies map[string][]passes.ExprSource
}

// Result is the outcome of one Run: every accumulated error report
// (already tagged with the run's correlation ID) plus per-stage
// timings.
type Result struct {
	RunID        string
	Errors       []*errors.Report
	PhaseTimings map[string]int64 // milliseconds
}

// PassDriver runs the fixed pipeline over a set of modules, holding the
// one GeneratorContext every pass shares.
type PassDriver struct {
	Ctx *GeneratorContext

	// ctorPrologue stashes each constructor's field-setter prologue
	// (built in stage 2) until stage 3 combines it with the
	// constructor's lowered user body, if any.
	ctorPrologue map[*symbols.Function][]gir.Expr
}

// NewPassDriver builds a driver for one compilation run.
func NewPassDriver(pointerWidth int) *PassDriver {
	return &PassDriver{
		Ctx:          NewGeneratorContext(pointerWidth),
		ctorPrologue: make(map[*symbols.Function][]gir.Expr),
	}
}

// NewPassDriverFromConfig builds a driver from a loaded config, the
// entry point cmd/gelixc's `check` and `trace` commands use.
func NewPassDriverFromConfig(cfg *config.Config) *PassDriver {
	return &PassDriver{
		Ctx:          NewGeneratorContextFromConfig(cfg),
		ctorPrologue: make(map[*symbols.Function][]gir.Expr),
	}
}

// Run executes all three stages over units in fixed order. No pass
// ever re-runs and no error is fatal within a pass; errors replace the
// offending node with a sentinel, so nothing downstream of an erroring
// declaration crashes. Run therefore always executes every stage and
// lets the caller decide whether result.Errors is non-empty enough to
// abort.
func (d *PassDriver) Run(units []*ModuleUnit) *Result {
	result := &Result{RunID: d.Ctx.RunID, PhaseTimings: make(map[string]int64)}

	d.timed(result, "stage1_declaration", func() { d.runStage1(units) })
	d.timed(result, "stage2_fields_methods", func() { d.runStage2(units) })
	d.timed(result, "stage3_expressions", func() { d.runStage3(units) })

	for _, u := range units {
		u.Module.AST = nil // nothing reads the AST once lowering is done
	}

	for _, rep := range d.Ctx.Errors {
		rep.WithData("run_id", d.Ctx.RunID)
	}
	result.Errors = d.Ctx.Errors
	return result
}

func (d *PassDriver) timed(result *Result, name string, fn func()) {
	start := time.Now()
	fn()
	result.PhaseTimings[name] = time.Since(start).Milliseconds()
}

func moduleList(units []*ModuleUnit) []*symbols.Module {
	mods := make([]*symbols.Module, len(units))
	for i, u := range units {
		mods[i] = u.Module
	}
	return mods
}

// runStage1 declares ADT shells, resolves type imports, declares free
// functions, validates intrinsics, then resolves value imports. There
// is no separate impl-shell step — IFaceImpls entries are created
// lazily by ImplTable.Get, so nothing needs pre-declaring.
func (d *PassDriver) runStage1(units []*ModuleUnit) {
	reg := passes.NewRegistry(moduleList(units))

	for _, u := range units {
		passes.DeclareAdts(d.Ctx.Context, &passes.ModuleSource{Module: u.Module, Adts: u.Adts})
	}
	for _, u := range units {
		passes.ImportStage1(d.Ctx.Context, reg, u.Module)
	}
	for _, u := range units {
		passes.DeclareFunctions(d.Ctx.Context, &passes.ModuleSource{Module: u.Module, Fns: u.Fns})
	}
	passes.RunIntrinsicsPass(d.Ctx.Context)
	for _, u := range units {
		passes.ImportStage2(d.Ctx.Context, reg, u.Module)
	}
}

// runStage2 populates ADT members. DeclareConstructors must run after
// InsertAdtFields, not alongside DeclareMethods: the compiler-
// synthesized default constructor takes one parameter per field, so it
// needs every field's resolved type, which does not exist until fields
// are inserted.
func (d *PassDriver) runStage2(units []*ModuleUnit) {
	for _, u := range units {
		passes.DeclareMethods(d.Ctx.Context, &passes.ModuleSource{Module: u.Module, Adts: u.Adts}, u.MethodsByAdt)
	}
	for _, u := range units {
		for _, impl := range u.Impls {
			passes.RunIfaceImplPass(d.Ctx.Context, u.Module, impl)
		}
	}
	for _, u := range units {
		for _, a := range u.Adts {
			adt := d.adtOf(u.Module, a.Name())
			if adt == nil {
				continue
			}
			d.lowerAdtFields(u, adt)
		}
	}
	for _, u := range units {
		for _, a := range u.Adts {
			adt := d.adtOf(u.Module, a.Name())
			if adt == nil {
				continue
			}
			ctors := passes.DeclareConstructors(d.Ctx.Context, u.Module, adt, u.ConstructorsByAdt[a.Name()])
			for _, ctor := range ctors {
				d.ctorPrologue[ctor] = passes.ConstructorSetters(adt, ctor, d.Ctx.NextID)
			}
		}
	}
	for _, u := range units {
		for _, a := range u.Adts {
			adt := d.adtOf(u.Module, a.Name())
			if adt == nil {
				continue
			}
			newInstance, freeWr, freeSr := passes.DeclareLifecycleMethods(u.Module, adt)
			if newInstance == nil {
				continue
			}
			// An external (FFI) class gets lifecycle declarations only;
			// their bodies are bound by the backend/linker.
			if adt.External {
				continue
			}
			passes.GenerateLifecycleMethods(adt, newInstance, freeWr, freeSr, d.Ctx.NextID)
		}
	}
}

// lowerAdtFields inserts adt's fields, lowering any field initializer in
// the context of a throwaway per-ADT pass bound to an implicit `this`.
func (d *PassDriver) lowerAdtFields(u *ModuleUnit, adt *symbols.ADT) {
	receiver := &symbols.LocalVariable{Name: "this", Type: &types.Adt{Inst: types.Instance{Decl: adt}}}
	initFn := symbols.NewFunction(adt.Name+"$init", u.Module)
	initFn.Parameters = []*symbols.LocalVariable{receiver}
	ep := passes.NewExprPass(d.Ctx.Context, u.Module, initFn)

	passes.InsertAdtFields(d.Ctx.Context, u.Module, adt, u.FieldsByAdt[adt.Name], func(raw interface{}) gir.Expr {
		return ep.Lower(raw.(passes.ExprSource))
	})
}

// runStage3 lowers every free function, method, and constructor body
// that has one. A constructor's final body is its stage-2 field-setter
// prologue followed by its lowered user body, if any; a bodyless
// constructor (the synthesized default, or an explicit one with no
// extra statements) keeps only the prologue.
func (d *PassDriver) runStage3(units []*ModuleUnit) {
	for _, u := range units {
		for name, src := range u.FnBodies {
			decl, ok := u.Module.Lookup(name)
			if !ok || decl.Fn == nil {
				continue
			}
			passes.NewExprPass(d.Ctx.Context, u.Module, decl.Fn).LowerBody(src)
		}

		for _, a := range u.Adts {
			adt := d.adtOf(u.Module, a.Name())
			if adt == nil {
				continue
			}
			d.lowerMethodBodies(u, adt)
			d.lowerConstructorBodies(u, adt)
		}
	}
}

func (d *PassDriver) lowerMethodBodies(u *ModuleUnit, adt *symbols.ADT) {
	for key, src := range u.MethodBodies {
		name, methodName, ok := splitMethodKey(key)
		if !ok || symbols.NormalizeName(name) != symbols.NormalizeName(adt.Name) {
			continue
		}
		method, ok := adt.Methods[symbols.NormalizeName(methodName)]
		if !ok {
			continue
		}
		passes.NewExprPass(d.Ctx.Context, u.Module, method).LowerBody(src)
	}
}

func (d *PassDriver) lowerConstructorBodies(u *ModuleUnit, adt *symbols.ADT) {
	bodies := u.CtorBodies[adt.Name]
	for i, ctor := range adt.Constructors {
		prologue := d.ctorPrologue[ctor]
		exprs := append([]gir.Expr{}, prologue...)
		if i < len(bodies) && bodies[i] != nil {
			ep := passes.NewExprPass(d.Ctx.Context, u.Module, ctor)
			exprs = append(exprs, ep.Lower(bodies[i]))
		}
		ctor.Body = gir.NewBlock(d.Ctx.NextID(), exprs)
	}
}

func (d *PassDriver) adtOf(mod *symbols.Module, name string) *symbols.ADT {
	decl, ok := mod.Lookup(name)
	if !ok || decl.Adt == nil {
		return nil
	}
	return decl.Adt
}

func splitMethodKey(key string) (adtName, methodName string, ok bool) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '.' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}
