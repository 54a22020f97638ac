package passes

import (
	"fmt"

	"github.com/gelix-lang/gelixc/internal/ast"
	"github.com/gelix-lang/gelixc/internal/errors"
	"github.com/gelix-lang/gelixc/internal/gir"
	"github.com/gelix-lang/gelixc/internal/resolver"
	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
)

// ExprSource is the minimal upstream contract for one unchecked function
// body: a small, closed set of expression shapes, each a distinct Go
// type, the same way package ast models typed positions. Whatever
// upstream parser exists hands the expression pass a tree built from
// these shapes.
type ExprSource interface{ exprNode() }

// LitExpr is a constant literal. Kind mirrors gir.LitKind; Value carries
// the parsed payload (bool, int64, float64, string, or nil for null).
type LitExpr struct {
	Kind  gir.LitKind
	Value interface{}
}

// IdentExpr is a bare name reference: a local variable, a free function,
// an ADT used as a constructor, or a static member access.
type IdentExpr struct{ Name string }

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	Op          string
	Left, Right ExprSource
}

// UnaryExpr is `op operand` (`-`, `!`, `~`).
type UnaryExpr struct {
	Op      string
	Operand ExprSource
}

// CallExpr invokes a free function, a closure value, or (when Callee
// names a Class) is syntactically a constructor call. TypeArgs carries
// explicit type arguments on a generic constructor call
// (`Box[i32](5)`); empty everywhere else.
type CallExpr struct {
	Callee   ExprSource
	TypeArgs []ast.Type
	Args     []ExprSource
}

// MethodCallExpr is `object.method(args)`, distinguished at the source
// level from a plain field get by trailing call parens.
type MethodCallExpr struct {
	Object ExprSource
	Method string
	Args   []ExprSource
}

// FieldAccessExpr is `object.field`, or `object!!.field` when Unwrap is
// set (an explicit null-check unwrap of a nullable receiver).
type FieldAccessExpr struct {
	Object ExprSource
	Name   string
	Unwrap bool
}

// FieldAssignExpr is `object.field = value`.
type FieldAssignExpr struct {
	Object ExprSource
	Name   string
	Value  ExprSource
}

// VarDeclExpr is `val`/`var name: Type = value` (Type nil infers from
// Value).
type VarDeclExpr struct {
	Name    string
	Mutable bool
	Type    ast.Type
	Value   ExprSource
}

// AssignExpr is `name = value` against an already-bound local.
type AssignExpr struct {
	Name  string
	Value ExprSource
}

// IfExpr is `if (cond) then [else else]`; Else nil means statement-typed.
type IfExpr struct {
	Cond, Then, Else ExprSource
}

// WhenArm is one `value -> body` arm of a when-expression.
type WhenArm struct {
	Value ExprSource
	Body  ExprSource
}

// WhenExpr lowers to an equality cascade against Scrutinee.
type WhenExpr struct {
	Scrutinee ExprSource
	Arms      []WhenArm
	Else      ExprSource
}

// ForExpr is a for-as-expression: Cond must be Bool; Body's type (folded
// across every enclosed Break) becomes the loop's type.
type ForExpr struct{ Cond, Body ExprSource }

// BreakExpr exits the nearest enclosing loop, optionally with a value.
type BreakExpr struct{ Value ExprSource }

// ReturnExpr exits the function, optionally with a value.
type ReturnExpr struct{ Value ExprSource }

// BlockExpr sequences a list of expressions, pushing a new scope.
type BlockExpr struct{ Exprs []ExprSource }

// ClosureExpr is a closure literal: Params/ParamTypes are the closure's
// own declared signature (not including the capture parameter, which
// the expression pass synthesizes); ReturnType nil defaults to None.
type ClosureExpr struct {
	Params     []string
	ParamTypes []ast.Type
	ReturnType ast.Type
	Body       ExprSource
}

func (LitExpr) exprNode()         {}
func (IdentExpr) exprNode()       {}
func (BinaryExpr) exprNode()      {}
func (UnaryExpr) exprNode()       {}
func (CallExpr) exprNode()        {}
func (MethodCallExpr) exprNode()  {}
func (FieldAccessExpr) exprNode() {}
func (FieldAssignExpr) exprNode() {}
func (VarDeclExpr) exprNode()     {}
func (AssignExpr) exprNode()      {}
func (IfExpr) exprNode()          {}
func (WhenExpr) exprNode()        {}
func (ForExpr) exprNode()         {}
func (BreakExpr) exprNode()       {}
func (ReturnExpr) exprNode()      {}
func (BlockExpr) exprNode()       {}
func (ClosureExpr) exprNode()     {}

// scope is one entry of the per-block/per-function environment stack.
// Redefinition within the same scope is rejected (E404); lookup walks
// outward, so shadowing across scopes is legal.
type scope struct {
	vars   map[string]*symbols.LocalVariable
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]*symbols.LocalVariable), parent: parent}
}

func (s *scope) define(v *symbols.LocalVariable) bool {
	key := symbols.NormalizeName(v.Name)
	if _, exists := s.vars[key]; exists {
		return false
	}
	s.vars[key] = v
	return true
}

func (s *scope) lookup(name string) (*symbols.LocalVariable, bool) {
	key := symbols.NormalizeName(name)
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// loopFrame tracks the nearest enclosing loop a Break targets, along
// with the implicit storage its breaks unify into.
type loopFrame struct {
	loop   *gir.Loop
	alloc  *symbols.LocalVariable
	merged types.Type
	parent *loopFrame
}

// ExprPass lowers one function body to typed IR. A fresh ExprPass is
// created per function; Resolver and Scope carry that function's
// type-parameter scope and its own local environment.
type ExprPass struct {
	Ctx *Context
	Mod *symbols.Module
	Fn  *symbols.Function
	R   *resolver.Resolver

	scope *scope
	loop  *loopFrame

	// captures accumulates free-variable references observed while
	// lowering a nested ClosureExpr's body; nil while lowering a
	// top-level function or method body.
	captures *captureSet
}

type captureSet struct {
	order []string
	types map[string]*symbols.LocalVariable
	outer *scope // the enclosing function/method's scope, searched for captures
}

// NewExprPass builds the pass for one function body, with the function's
// parameters already bound in the outermost scope and its own type
// parameters in the resolver's scope.
func NewExprPass(ctx *Context, mod *symbols.Module, fn *symbols.Function) *ExprPass {
	r := ctx.NewResolver(mod)
	r.Scope = resolver.Scope{TypeParams: fn.TypeParameters}

	top := newScope(nil)
	for _, p := range fn.Parameters {
		top.define(p)
	}
	return &ExprPass{Ctx: ctx, Mod: mod, Fn: fn, R: r, scope: top}
}

// LowerBody type-checks and lowers fn's body, assigning the result to
// fn.Body and accumulating fn.Variables. Accumulated errors are merged
// into ctx.Errors regardless of outcome; errors never halt a pass.
func (p *ExprPass) LowerBody(src ExprSource) {
	body := p.lower(src)
	p.Fn.Body = body
	p.Ctx.Errors = append(p.Ctx.Errors, p.R.Errors...)
}

// Lower lowers a single ExprSource to typed IR without assigning it as
// fn.Body — used by the field/method pass to lower a field initializer
// in the context of a throwaway per-ADT pass, and by the driver to
// lower one constructor's user-written body, which the driver then
// places after that constructor's field-setter prologue.
func (p *ExprPass) Lower(src ExprSource) gir.Expr { return p.lower(src) }

func (p *ExprPass) report(code, msg string) gir.Expr {
	p.Ctx.Errors = append(p.Ctx.Errors, errors.New(errors.PhaseExpr, code, msg, nil))
	return gir.NewLiteral(p.Ctx.NextID(), types.TAny, gir.LitNull, nil)
}

func (p *ExprPass) nextID() uint64 { return p.Ctx.NextID() }

// lower dispatches on the concrete ExprSource shape, mirroring the
// resolver's type switch over ast.Type.
func (p *ExprPass) lower(src ExprSource) gir.Expr {
	switch n := src.(type) {
	case LitExpr:
		return p.lowerLiteral(n)
	case IdentExpr:
		return p.lowerIdent(n)
	case BinaryExpr:
		return p.lowerBinary(n)
	case UnaryExpr:
		return p.lowerUnary(n)
	case CallExpr:
		return p.lowerCall(n)
	case MethodCallExpr:
		return p.lowerMethodCall(n)
	case FieldAccessExpr:
		return p.lowerFieldAccess(n)
	case FieldAssignExpr:
		return p.lowerFieldAssign(n)
	case VarDeclExpr:
		return p.lowerVarDecl(n)
	case AssignExpr:
		return p.lowerAssign(n)
	case IfExpr:
		return p.lowerIf(n)
	case WhenExpr:
		return p.lowerWhen(n)
	case ForExpr:
		return p.lowerFor(n)
	case BreakExpr:
		return p.lowerBreak(n)
	case ReturnExpr:
		return p.lowerReturn(n)
	case BlockExpr:
		return p.lowerBlock(n)
	case ClosureExpr:
		return p.lowerClosure(n)
	default:
		return p.report(errors.E400, fmt.Sprintf("unsupported expression shape %T", src))
	}
}

func (p *ExprPass) lowerLiteral(n LitExpr) gir.Expr {
	var t types.Type
	switch n.Kind {
	case gir.LitBool:
		t = types.TBool
	case gir.LitInt:
		t = types.TI32
	case gir.LitFloat:
		t = types.TF64
	case gir.LitString:
		// No String variant exists in the type model; a string literal
		// is a raw byte pointer, same as any other FFI buffer.
		t = &types.RawPtr{Inner: types.TU8}
	case gir.LitNull:
		t = types.TNull
	default:
		t = types.TAny
	}
	return gir.NewLiteral(p.nextID(), t, n.Kind, n.Value)
}

func (p *ExprPass) lowerIdent(n IdentExpr) gir.Expr {
	if local, ok := p.lookupLocal(n.Name); ok {
		return gir.NewVarLoad(p.nextID(), local)
	}
	if decl, ok := p.Mod.Lookup(n.Name); ok {
		return &identValue{base: gir.NewLiteral(p.nextID(), decl.ToType(), gir.LitNull, nil), decl: decl}
	}
	return p.report(errors.E300, fmt.Sprintf("unresolved identifier %q", n.Name))
}

// identValue is a lightweight gir.Expr wrapper carrying a resolved
// top-level Declaration (ADT or Function) through call/constructor-
// detection logic. lowerCall unwraps it when it is the callee; anywhere
// else (a bare enum case or function name used as a value, such as an
// if arm) it stays in the lowered tree as this node, typed by the
// declaration's own type.
type identValue struct {
	base gir.Expr
	decl *symbols.Declaration
}

func (v *identValue) GetType() types.Type { return v.base.GetType() }
func (v *identValue) GetNodeID() uint64   { return v.base.GetNodeID() }
func (v *identValue) String() string      { return v.decl.Name() }

// lookupLocal searches the current scope chain, then (if lowering a
// closure body) the enclosing function's scope, recording any hit there
// as a fresh capture.
func (p *ExprPass) lookupLocal(name string) (*symbols.LocalVariable, bool) {
	if local, ok := p.scope.lookup(name); ok {
		return local, true
	}
	if p.captures == nil {
		return nil, false
	}
	outer, ok := p.captures.outer.lookup(name)
	if !ok {
		return nil, false
	}
	key := symbols.NormalizeName(name)
	if _, seen := p.captures.types[key]; !seen {
		p.captures.order = append(p.captures.order, name)
		p.captures.types[key] = outer
	}
	return outer, true
}

// lowerBinary checks `+ - * /` (operands numeric and matching, result
// is the operand type) and treats comparison/logical operators as
// always Bool-typed, requiring only that their operands be comparable —
// not unified into one common type, which is TryUnifyType's job for
// branch-merging, not operand checking.
func (p *ExprPass) lowerBinary(n BinaryExpr) gir.Expr {
	left := p.lower(n.Left)
	right := p.lower(n.Right)

	if isLogicalOp(n.Op) {
		if !types.Equals(left.GetType(), types.TBool) || !types.Equals(right.GetType(), types.TBool) {
			return p.report(errors.E400, "logical operator requires bool operands")
		}
		return gir.NewBinaryOp(p.nextID(), types.TBool, n.Op, left, right)
	}

	if isComparisonOp(n.Op) {
		if !p.comparable(left.GetType(), right.GetType()) {
			return p.report(errors.E400, fmt.Sprintf(
				"cannot compare %s and %s", left.GetType(), right.GetType()))
		}
		return gir.NewBinaryOp(p.nextID(), types.TBool, n.Op, left, right)
	}

	if !types.IsNumber(left.GetType()) || !types.IsNumber(right.GetType()) {
		return p.report(errors.E400, fmt.Sprintf(
			"arithmetic operand must be numeric, got %s and %s", left.GetType(), right.GetType()))
	}
	if !types.Equals(left.GetType(), right.GetType()) {
		if casted, ok := p.R.TryCast(right, left.GetType()); ok {
			right = casted
		} else if casted, ok := p.R.TryCast(left, right.GetType()); ok {
			left = casted
		} else {
			return p.report(errors.E400, fmt.Sprintf(
				"operand type mismatch: %s vs %s", left.GetType(), right.GetType()))
		}
	}
	return gir.NewBinaryOp(p.nextID(), left.GetType(), n.Op, left, right)
}

// comparable reports whether a and b may stand on either side of an
// equality/ordering comparison: identical types, two numeric types, or
// either side being the null literal (legal against any nullable or ADT
// type — a plain equality check, not a unification).
func (p *ExprPass) comparable(a, b types.Type) bool {
	if types.Equals(a, b) {
		return true
	}
	if types.IsNumber(a) && types.IsNumber(b) {
		return true
	}
	if isNullLiteral(a) || isNullLiteral(b) {
		other := a
		if isNullLiteral(a) {
			other = b
		}
		if _, ok := other.(*types.Nullable); ok {
			return true
		}
		_, isAdt := other.(*types.Adt)
		return isAdt
	}
	return false
}

func isNullLiteral(t types.Type) bool {
	basic, ok := t.(*types.Basic)
	return ok && basic.Kind == types.KNull
}

func isComparisonOp(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return true
	default:
		return false
	}
}

func isLogicalOp(op string) bool { return op == "&&" || op == "||" }

func (p *ExprPass) lowerUnary(n UnaryExpr) gir.Expr {
	operand := p.lower(n.Operand)
	if n.Op == "!" {
		if !types.Equals(operand.GetType(), types.TBool) {
			return p.report(errors.E400, fmt.Sprintf("! requires bool, got %s", operand.GetType()))
		}
		return gir.NewUnaryOp(p.nextID(), types.TBool, n.Op, operand)
	}
	if !types.IsNumber(operand.GetType()) {
		return p.report(errors.E400, fmt.Sprintf("unary %s requires a numeric operand, got %s", n.Op, operand.GetType()))
	}
	return gir.NewUnaryOp(p.nextID(), operand.GetType(), n.Op, operand)
}

// lowerCall handles calls and bare-name construction together: a
// bare-identifier callee naming a Class is syntactically a constructor
// invocation, lowered to Allocate; anything else must resolve to a
// Function or Closure value.
func (p *ExprPass) lowerCall(n CallExpr) gir.Expr {
	if ident, ok := n.Callee.(IdentExpr); ok {
		if _, isLocal := p.lookupLocal(ident.Name); !isLocal {
			if prim, ok := p.Ctx.Primitives.Lookup(ident.Name); ok && types.IsNumber(prim) {
				return p.lowerNumericConversion(ident.Name, prim, n.Args)
			}
			if decl, ok := p.Mod.Lookup(ident.Name); ok && decl.Kind == symbols.DeclAdt && decl.Adt.Kind == symbols.KindClass {
				return p.lowerConstructorCall(decl.Adt, n.TypeArgs, n.Args)
			}
		}
	}

	callee := p.lower(n.Callee)
	args := p.lowerArgs(n.Args)

	if iv, ok := callee.(*identValue); ok && iv.decl.Kind == symbols.DeclFunction {
		return p.lowerDirectCall(iv.decl.Fn, args)
	}

	if !types.IsCallable(callee.GetType()) {
		return p.report(errors.E402, fmt.Sprintf("%s is not callable", callee.GetType()))
	}
	closure, ok := callee.GetType().(*types.Closure)
	if !ok {
		return p.report(errors.E402, "callee is not a closure value")
	}
	castArgs, ok := p.castCallArgs(args, closure.Sig.Params)
	if !ok {
		return p.report(errors.E400, "closure argument types do not match")
	}
	return gir.NewCall(p.nextID(), closure.Sig.Return, gir.CallClosure, callee, nil, castArgs)
}

func (p *ExprPass) lowerArgs(srcs []ExprSource) []gir.Expr {
	args := make([]gir.Expr, len(srcs))
	for i, s := range srcs {
		args[i] = p.lower(s)
	}
	return args
}

func (p *ExprPass) lowerDirectCall(fn *symbols.Function, args []gir.Expr) gir.Expr {
	if len(args) != len(fn.Parameters) {
		return p.report(errors.E321, fmt.Sprintf(
			"%s expects %d argument(s), got %d", fn.Name, len(fn.Parameters), len(args)))
	}
	castArgs, ok := p.castCallArgsToParams(args, fn.Parameters)
	if !ok {
		return p.report(errors.E400, fmt.Sprintf("argument type mismatch calling %s", fn.Name))
	}
	return gir.NewCall(p.nextID(), fn.ReturnType, gir.CallDirect, nil, fn, castArgs)
}

// lowerNumericConversion lowers a call to one of the named conversion
// intrinsics (`i8(x)` .. `f64(x)`), the only way an integer/float or
// truncating conversion happens.
func (p *ExprPass) lowerNumericConversion(name string, target types.Type, argSrcs []ExprSource) gir.Expr {
	if len(argSrcs) != 1 {
		return p.report(errors.E321, fmt.Sprintf("%s expects 1 argument, got %d", name, len(argSrcs)))
	}
	arg := p.lower(argSrcs[0])
	converted, ok := p.R.ExplicitNumericCast(arg, target)
	if !ok {
		return p.report(errors.E400, fmt.Sprintf("%s cannot convert %s", name, arg.GetType()))
	}
	return converted
}

func (p *ExprPass) lowerConstructorCall(adt *symbols.ADT, typeArgSrcs []ast.Type, argSrcs []ExprSource) gir.Expr {
	typeArgs := make([]types.Type, len(typeArgSrcs))
	for i, src := range typeArgSrcs {
		typeArgs[i] = p.R.FindType(src)
	}
	if len(typeArgs) != len(adt.TypeParameters) {
		return p.report(errors.E321, fmt.Sprintf(
			"%s expects %d type argument(s), got %d", adt.Name, len(adt.TypeParameters), len(typeArgs)))
	}

	args := p.lowerArgs(argSrcs)
	for _, ctor := range adt.Constructors {
		// A constructor's parameter list includes the implicit receiver
		// at index 0.
		if len(ctor.Parameters)-1 != len(args) {
			continue
		}
		castArgs, ok := p.castCallArgs(args, memberParamTypes(ctor.Parameters[1:], typeArgs))
		if !ok {
			continue
		}
		instTy := &types.Adt{Inst: types.Instance{Decl: adt, Args: typeArgs}}
		return gir.NewAllocate(p.nextID(), instTy, ctor, castArgs)
	}
	return p.report(errors.E402, fmt.Sprintf("no constructor of %s accepts %d argument(s)", adt.Name, len(args)))
}

// memberParamTypes resolves a member's parameter types against the
// receiver instance's type arguments, so a `Box[i32]` member taking a
// `T` checks against i32 at this call site.
func memberParamTypes(params []*symbols.LocalVariable, typeArgs []types.Type) []types.Type {
	out := make([]types.Type, len(params))
	for i, prm := range params {
		out[i] = memberType(prm.Type, typeArgs)
	}
	return out
}

func memberType(ty types.Type, typeArgs []types.Type) types.Type {
	if len(typeArgs) == 0 {
		return ty
	}
	return types.Resolve(ty, typeArgs)
}

func (p *ExprPass) castCallArgs(args []gir.Expr, paramTypes []types.Type) ([]gir.Expr, bool) {
	if len(args) != len(paramTypes) {
		return nil, false
	}
	out := make([]gir.Expr, len(args))
	for i, a := range args {
		casted, ok := p.R.TryCast(a, paramTypes[i])
		if !ok {
			return nil, false
		}
		out[i] = casted
	}
	return out, true
}

func (p *ExprPass) castCallArgsToParams(args []gir.Expr, params []*symbols.LocalVariable) ([]gir.Expr, bool) {
	paramTypes := make([]types.Type, len(params))
	for i, prm := range params {
		paramTypes[i] = prm.Type
	}
	return p.castCallArgs(args, paramTypes)
}

// lowerMethodCall lowers `object.method(args)`: a call through an
// interface-typed receiver lowers to a virtual call resolved at
// runtime; a call through a concrete ADT receiver lowers to a direct
// call against that ADT's own method.
func (p *ExprPass) lowerMethodCall(n MethodCallExpr) gir.Expr {
	object := p.lower(n.Object)
	args := p.lowerArgs(n.Args)

	adt, nullable := adtDeclOf(object.GetType())
	if adt == nil {
		return p.report(errors.E402, fmt.Sprintf("%s has no methods", object.GetType()))
	}
	if nullable {
		return p.report(errors.E403, fmt.Sprintf(
			"method call on nullable receiver %s requires an explicit unwrap", object.GetType()))
	}

	typeArgs := types.TypeArgs(object.GetType())
	method, ok := adt.Methods[symbols.NormalizeName(n.Method)]
	if !ok {
		return p.report(errors.E405, fmt.Sprintf("%s has no method %q", adt.Name, n.Method))
	}
	castArgs, ok := p.castCallArgs(args, memberParamTypes(method.Parameters[1:], typeArgs))
	if !ok {
		return p.report(errors.E400, fmt.Sprintf("argument type mismatch calling %s.%s", adt.Name, n.Method))
	}
	fullArgs := append([]gir.Expr{object}, castArgs...)
	retTy := memberType(method.ReturnType, typeArgs)

	if adt.Kind == symbols.KindInterface {
		// Dispatch through an interface-typed receiver is resolved by
		// the backend's vtable at runtime, keyed by the object's actual
		// type. The expression pass only needs the interface's own
		// declared method shape to type-check the call site; it is the
		// interface-impl pass (not this one) that registers
		// IFaceImpls[implementor], consulted by the cast lattice, not
		// by call lowering.
		return gir.NewCall(p.nextID(), retTy, gir.CallVirtual, object, method, fullArgs)
	}
	return gir.NewCall(p.nextID(), retTy, gir.CallDirect, nil, method, fullArgs)
}

func adtDeclOf(t types.Type) (*symbols.ADT, bool) {
	switch v := t.(type) {
	case *types.Adt:
		decl, ok := v.Inst.Decl.(*symbols.ADT)
		if !ok {
			return nil, false
		}
		return decl, false
	case *types.Nullable:
		decl, _ := adtDeclOf(v.Inner)
		return decl, decl != nil
	default:
		return nil, false
	}
}

// lowerFieldAccess requires the object to be an ADT, or a
// nullable-of-ADT carried through an explicit unwrap (Unwrap true),
// which the pass lowers directly into a FieldGet with Unwrap set —
// there is no separate "take" node.
func (p *ExprPass) lowerFieldAccess(n FieldAccessExpr) gir.Expr {
	object := p.lower(n.Object)
	adt, nullable := adtDeclOf(object.GetType())
	if adt == nil {
		return p.report(errors.E402, fmt.Sprintf("%s has no fields", object.GetType()))
	}
	if nullable && !n.Unwrap {
		return p.report(errors.E403, fmt.Sprintf(
			"field access on nullable receiver %s requires an explicit unwrap", object.GetType()))
	}
	field, ok := adt.Field(n.Name)
	if !ok {
		return p.report(errors.E405, fmt.Sprintf("%s has no field %q", adt.Name, n.Name))
	}
	fieldTy := memberType(field.Type, types.TypeArgs(object.GetType()))
	return gir.NewFieldGet(p.nextID(), fieldTy, object, field, n.Unwrap && nullable)
}

func (p *ExprPass) lowerFieldAssign(n FieldAssignExpr) gir.Expr {
	object := p.lower(n.Object)
	adt, nullable := adtDeclOf(object.GetType())
	if adt == nil {
		return p.report(errors.E402, fmt.Sprintf("%s has no fields", object.GetType()))
	}
	if nullable {
		return p.report(errors.E403, fmt.Sprintf(
			"field assignment on nullable receiver %s requires an explicit unwrap", object.GetType()))
	}
	field, ok := adt.Field(n.Name)
	if !ok {
		return p.report(errors.E405, fmt.Sprintf("%s has no field %q", adt.Name, n.Name))
	}
	if !field.Mutable {
		return p.report(errors.E401, fmt.Sprintf("field %q of %s is immutable", n.Name, adt.Name))
	}
	value := p.lower(n.Value)
	fieldTy := memberType(field.Type, types.TypeArgs(object.GetType()))
	casted, ok := p.R.TryCast(value, fieldTy)
	if !ok {
		return p.report(errors.E400, fmt.Sprintf(
			"cannot assign %s to field %q of type %s", value.GetType(), n.Name, fieldTy))
	}
	return gir.NewFieldSet(p.nextID(), object, field, casted)
}

func (p *ExprPass) lowerVarDecl(n VarDeclExpr) gir.Expr {
	value := p.lower(n.Value)
	var declared types.Type
	if n.Type != nil {
		declared = p.R.FindType(n.Type)
		casted, ok := p.R.TryCast(value, declared)
		if !ok {
			return p.report(errors.E400, fmt.Sprintf(
				"cannot initialize %s (declared %s) with %s", n.Name, declared, value.GetType()))
		}
		value = casted
	} else {
		declared = value.GetType()
	}
	local := &symbols.LocalVariable{Name: n.Name, Type: declared, Mutable: n.Mutable}
	if !p.scope.define(local) {
		return p.report(errors.E404, fmt.Sprintf("%q redefined in the same scope", n.Name))
	}
	p.Fn.Variables = append(p.Fn.Variables, local)
	return gir.NewVarStore(p.nextID(), local, value)
}

func (p *ExprPass) lowerAssign(n AssignExpr) gir.Expr {
	local, ok := p.lookupLocal(n.Name)
	if !ok {
		return p.report(errors.E300, fmt.Sprintf("unresolved identifier %q", n.Name))
	}
	if !local.Mutable {
		return p.report(errors.E401, fmt.Sprintf("%q is immutable", n.Name))
	}
	value := p.lower(n.Value)
	casted, ok := p.R.TryCast(value, local.Type)
	if !ok {
		return p.report(errors.E400, fmt.Sprintf(
			"cannot assign %s to %q of type %s", value.GetType(), n.Name, local.Type))
	}
	return gir.NewVarStore(p.nextID(), local, casted)
}

// lowerIf unifies the two branches via TryUnifyType; a failed
// unification demotes the expression to statement-typed (None) rather
// than reporting an error, since both arms remain individually
// well-typed.
func (p *ExprPass) lowerIf(n IfExpr) gir.Expr {
	cond := p.lower(n.Cond)
	if !types.Equals(cond.GetType(), types.TBool) {
		p.report(errors.E400, fmt.Sprintf("if condition must be bool, got %s", cond.GetType()))
	}

	then := p.lowerScoped(n.Then)
	if n.Else == nil {
		return gir.NewBranch(p.nextID(), types.TNone, cond, then, nil, nil)
	}
	els := p.lowerScoped(n.Else)

	unified, thenC, elseC := p.R.TryUnifyType(then, els)
	if unified == nil {
		return gir.NewBranch(p.nextID(), types.TNone, cond, then, els, nil)
	}
	merge := gir.NewPhi(p.nextID(), unified, []gir.PhiInput{
		{Value: thenC, SourceBlock: "then"},
		{Value: elseC, SourceBlock: "else"},
	})
	return gir.NewBranch(p.nextID(), unified, cond, thenC, elseC, merge)
}

func (p *ExprPass) lowerScoped(src ExprSource) gir.Expr {
	p.scope = newScope(p.scope)
	defer func() { p.scope = p.scope.parent }()
	return p.lower(src)
}

// lowerWhen lowers a when-expression to an equality cascade against
// the scrutinee. The arms' (and else's) types fold through
// TryUnifyType the same way Phi folds branch types; a fold failure
// demotes the whole expression to statement-typed (None) rather than
// reporting an error, mirroring lowerIf.
func (p *ExprPass) lowerWhen(n WhenExpr) gir.Expr {
	scrutinee := p.lower(n.Scrutinee)
	cases := make([]gir.SwitchCase, len(n.Arms))
	bodies := make([]gir.Expr, len(n.Arms))
	for i, arm := range n.Arms {
		value := p.lower(arm.Value)
		body := p.lowerScoped(arm.Body)
		cases[i] = gir.SwitchCase{Value: value, Body: body}
		bodies[i] = body
	}
	var els gir.Expr
	if n.Else != nil {
		els = p.lowerScoped(n.Else)
	}

	allBodies := append([]gir.Expr{}, bodies...)
	if els != nil {
		allBodies = append(allBodies, els)
	}
	resultTy, ok := p.unifyAll(allBodies)

	finalTy := types.Type(types.TNone)
	var merge *gir.Phi
	if ok {
		finalTy = resultTy
		inputs := make([]gir.PhiInput, 0, len(cases)+1)
		for i := range cases {
			if casted, ok := p.R.TryCast(cases[i].Body, resultTy); ok {
				cases[i].Body = casted
			}
			inputs = append(inputs, gir.PhiInput{Value: cases[i].Body, SourceBlock: fmt.Sprintf("case%d", i)})
		}
		if els != nil {
			if casted, ok := p.R.TryCast(els, resultTy); ok {
				els = casted
			}
			inputs = append(inputs, gir.PhiInput{Value: els, SourceBlock: "else"})
		}
		merge = gir.NewPhi(p.nextID(), finalTy, inputs)
	}
	return gir.NewSwitch(p.nextID(), finalTy, scrutinee, cases, els, merge)
}

// unifyAll folds TryUnifyType's resulting type pairwise across exprs
// (at least one element is required); it reports ok=false the moment any
// adjacent pair fails to unify.
func (p *ExprPass) unifyAll(exprs []gir.Expr) (types.Type, bool) {
	if len(exprs) == 0 {
		return nil, false
	}
	acc := exprs[0]
	for _, e := range exprs[1:] {
		u, a, _ := p.R.TryUnifyType(acc, e)
		if u == nil {
			return nil, false
		}
		acc = a
	}
	return acc.GetType(), true
}

// lowerFor lowers a for-as-expression: the implicit loop-body alloca
// is unified across every Break that targets this loop, and its final
// type becomes the loop's type.
func (p *ExprPass) lowerFor(n ForExpr) gir.Expr {
	cond := p.lower(n.Cond)
	if !types.Equals(cond.GetType(), types.TBool) {
		p.report(errors.E400, fmt.Sprintf("for condition must be bool, got %s", cond.GetType()))
	}

	alloc := &symbols.LocalVariable{Name: "$loop", Type: types.TNone, Mutable: true}
	p.Fn.Variables = append(p.Fn.Variables, alloc)
	loop := gir.NewLoop(p.nextID(), types.TNone, cond, nil, alloc)

	frame := &loopFrame{loop: loop, alloc: alloc, parent: p.loop}
	p.loop = frame
	body := p.lowerScoped(n.Body)
	p.loop = frame.parent

	loop.Body = body
	resultTy := types.Type(types.TNone)
	if frame.merged != nil {
		resultTy = frame.merged
	}
	loop.Type = resultTy
	alloc.Type = resultTy
	return loop
}

// lowerBreak folds value's type into the enclosing loop's running
// unification, matching how Phi folds branch types.
func (p *ExprPass) lowerBreak(n BreakExpr) gir.Expr {
	if p.loop == nil {
		return p.report(errors.E400, "break outside of a loop")
	}
	var value gir.Expr
	if n.Value != nil {
		value = p.lower(n.Value)
		if p.loop.merged == nil {
			p.loop.merged = value.GetType()
		} else if !types.Equals(p.loop.merged, value.GetType()) {
			casted, ok := p.R.TryCast(value, p.loop.merged)
			if ok {
				value = casted
			}
		}
	}
	return gir.NewBreak(p.nextID(), value, p.loop.loop)
}

// lowerReturn checks the value's type against the function's declared
// return; a cast-compatible value widens, anything else is a type
// mismatch.
func (p *ExprPass) lowerReturn(n ReturnExpr) gir.Expr {
	var value gir.Expr
	if n.Value != nil {
		value = p.lower(n.Value)
		casted, ok := p.R.TryCast(value, p.Fn.ReturnType)
		if !ok {
			p.report(errors.E400, fmt.Sprintf(
				"return type mismatch: function returns %s, got %s", p.Fn.ReturnType, value.GetType()))
		} else {
			value = casted
		}
	} else if !types.Equals(p.Fn.ReturnType, types.TNone) {
		p.report(errors.E400, fmt.Sprintf("missing return value; function returns %s", p.Fn.ReturnType))
	}
	return gir.NewReturn(p.nextID(), value)
}

func (p *ExprPass) lowerBlock(n BlockExpr) gir.Expr {
	p.scope = newScope(p.scope)
	defer func() { p.scope = p.scope.parent }()

	exprs := make([]gir.Expr, len(n.Exprs))
	for i, s := range n.Exprs {
		exprs[i] = p.lower(s)
	}
	return gir.NewBlock(p.nextID(), exprs)
}

// lowerClosure captures free variables referenced in Body lexically;
// they become the closure function's opaque first parameter
// (ClosureCaptured), which the closure's public Sig omits. There is no
// dedicated "closure value" IR node, so the value is carried as a
// Literal (gir.LitClosure) referencing the synthesized Function,
// matching how every other constant value lowers to a Literal.
func (p *ExprPass) lowerClosure(n ClosureExpr) gir.Expr {
	closureFn := symbols.NewFunction(fmt.Sprintf("closure$%d", p.nextID()), p.Mod)

	innerR := p.Ctx.NewResolver(p.Mod)
	innerR.Scope = resolver.Scope{TypeParams: p.Fn.TypeParameters}

	params := make([]*symbols.LocalVariable, len(n.Params))
	paramTypes := make([]types.Type, len(n.Params))
	for i, name := range n.Params {
		var ty types.Type = types.TAny
		if i < len(n.ParamTypes) && n.ParamTypes[i] != nil {
			ty = innerR.FindType(n.ParamTypes[i])
		}
		params[i] = &symbols.LocalVariable{Name: name, Type: ty}
		paramTypes[i] = ty
	}
	retTy := types.Type(types.TNone)
	if n.ReturnType != nil {
		retTy = innerR.FindType(n.ReturnType)
	}
	p.Ctx.Errors = append(p.Ctx.Errors, innerR.Errors...)

	capEnv := &symbols.LocalVariable{Name: "$captures", Type: nil}
	closureFn.Parameters = append([]*symbols.LocalVariable{capEnv}, params...)
	closureFn.ReturnType = retTy

	inner := &ExprPass{
		Ctx:   p.Ctx,
		Mod:   p.Mod,
		Fn:    closureFn,
		R:     p.Ctx.NewResolver(p.Mod),
		scope: newScope(nil),
		captures: &captureSet{
			types: make(map[string]*symbols.LocalVariable),
			outer: p.scope,
		},
	}
	inner.R.Scope = resolver.Scope{TypeParams: p.Fn.TypeParameters}
	for _, prm := range params {
		inner.scope.define(prm)
	}
	closureFn.Body = inner.lower(n.Body)
	inner.Ctx.Errors = append(inner.Ctx.Errors, inner.R.Errors...)

	capNames := inner.captures.order
	capTypes := make([]types.Type, len(capNames))
	for i, name := range capNames {
		capTypes[i] = inner.captures.types[symbols.NormalizeName(name)].Type
	}
	capEnv.Type = &types.ClosureCaptured{Names: capNames, Types: capTypes}

	closureTy := &types.Closure{Sig: types.ClosureSig{Params: paramTypes, Return: retTy}}
	return gir.NewLiteral(p.nextID(), closureTy, gir.LitClosure, closureFn)
}
