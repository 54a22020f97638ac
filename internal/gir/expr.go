// Package gir holds the typed intermediate-representation expression
// tree produced by the expression pass: the output every function body
// is lowered into once the final stage completes. Every node carries a
// resolved types.Type; GetType below is never nil after a function has
// been fully lowered.
package gir

import (
	"fmt"

	"github.com/gelix-lang/gelixc/internal/symbols"
	"github.com/gelix-lang/gelixc/internal/types"
)

// Expr is the interface every IR expression node implements. GetType
// returns the node's resolved type — a non-Variable type, once a
// non-generic function has been fully lowered.
type Expr interface {
	GetType() types.Type
	GetNodeID() uint64
	String() string
}

// base is embedded by every concrete node to provide NodeID/Type.
type base struct {
	NodeID uint64
	Type   types.Type
}

func (b base) GetNodeID() uint64   { return b.NodeID }
func (b base) GetType() types.Type { return b.Type }

// LitKind tags the payload carried by a Literal node.
type LitKind int

const (
	LitBool LitKind = iota
	LitInt
	LitFloat
	LitString
	LitNull
	// LitClosure carries a *symbols.Function (as Literal.Value): a
	// closure literal has no dedicated IR node of its own, so it rides
	// the Literal the same way any other constant value does.
	LitClosure
)

// Literal is a constant value.
type Literal struct {
	base
	Kind  LitKind
	Value interface{}
}

func (l *Literal) String() string { return fmt.Sprintf("%v", l.Value) }

// VarLoad reads a local variable (parameter, `val`/`var` binding, or the
// implicit `this`/capture parameter).
type VarLoad struct {
	base
	Local *symbols.LocalVariable
}

func (v *VarLoad) String() string { return v.Local.Name }

// VarStore assigns to a mutable local variable.
type VarStore struct {
	base
	Local *symbols.LocalVariable
	Value Expr
}

func (v *VarStore) String() string { return fmt.Sprintf("%s = %s", v.Local.Name, v.Value) }

// BinaryOp is an arithmetic, comparison or logical binary expression.
type BinaryOp struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

func (b *BinaryOp) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }

// UnaryOp negates or logically inverts its operand.
type UnaryOp struct {
	base
	Op      string
	Operand Expr
}

func (u *UnaryOp) String() string { return fmt.Sprintf("%s%s", u.Op, u.Operand) }

// CallKind distinguishes a direct call to a named Function, a virtual
// call dispatched through an IFaceImpls entry, and a call through a
// closure value.
type CallKind int

const (
	CallDirect CallKind = iota
	CallVirtual
	CallClosure
)

// Call invokes a function, method, or closure.
type Call struct {
	base
	Kind     CallKind
	Callee   Expr // nil for CallDirect, where Target names the function directly
	Target   *symbols.Function
	Args     []Expr
}

func (c *Call) String() string { return fmt.Sprintf("call(%v)", c.Args) }

// CastKind tags the coercion kind a Cast node performs, matching the
// tabulated policy in package resolver's can_cast_type.
type CastKind int

const (
	CastBitcast CastKind = iota
	CastToNullable
	CastToInterface
	CastNumericWiden
	CastNumericTruncate
	CastEnumCaseToParent
)

// Cast wraps a value, coercing it to a new type. Inserted wherever the
// resolver's TryCast succeeds with a non-trivial kind.
type Cast struct {
	base
	Kind  CastKind
	Value Expr
}

func (c *Cast) String() string { return fmt.Sprintf("cast<%v>(%s)", c.Kind, c.Value) }

// Allocate constructs a new ADT instance by invoking the chosen
// constructor; a bare-name call against a class lowers to this node.
type Allocate struct {
	base
	Constructor *symbols.Function
	Args        []Expr
}

func (a *Allocate) String() string { return fmt.Sprintf("alloc(%v)", a.Args) }

// FieldGet reads a field off an object. If Unwrap is set, the object was
// nullable and this node represents the lowered null-check-and-take.
type FieldGet struct {
	base
	Object Expr
	Field  *symbols.Field
	Unwrap bool
}

func (f *FieldGet) String() string { return fmt.Sprintf("%s.%s", f.Object, f.Field.Name) }

// FieldSet assigns to an object's field.
type FieldSet struct {
	base
	Object Expr
	Field  *symbols.Field
	Value  Expr
}

func (f *FieldSet) String() string {
	return fmt.Sprintf("%s.%s = %s", f.Object, f.Field.Name, f.Value)
}

// PhiInput is one predecessor's contribution to a Phi node.
type PhiInput struct {
	Value       Expr
	SourceBlock string
}

// Phi is a block-merge join point: its type is the unification of all
// its inputs' types.
type Phi struct {
	base
	Inputs []PhiInput
}

func (p *Phi) String() string { return fmt.Sprintf("phi(%d inputs)", len(p.Inputs)) }

// Branch is an if/then/else. Merge is non-nil when both arms rejoin
// through a Phi; nil when the expression is statement-typed (None).
type Branch struct {
	base
	Cond  Expr
	Then  Expr
	Else  Expr // nil if there is no else branch
	Merge *Phi
}

func (b *Branch) String() string { return fmt.Sprintf("if %s then %s else %v", b.Cond, b.Then, b.Else) }

// SwitchCase is one arm of a when-expression: an equality comparison of
// the scrutinee against Value, with Body run on match.
type SwitchCase struct {
	Value Expr
	Body  Expr
}

// Switch lowers a `when` expression to an equality-comparison cascade
// against the scrutinee.
type Switch struct {
	base
	Scrutinee Expr
	Cases     []SwitchCase
	Else      Expr
	Merge     *Phi
}

func (s *Switch) String() string { return fmt.Sprintf("when %s { %d cases }", s.Scrutinee, len(s.Cases)) }

// Loop is a for-as-expression: Cond must be Bool-typed, and Body's type
// becomes the loop expression's type via unification across every Break
// that targets it.
type Loop struct {
	base
	Cond  Expr
	Body  Expr
	Alloc *symbols.LocalVariable // implicit loop-body storage unified across breaks
}

func (l *Loop) String() string { return fmt.Sprintf("for %s { %s }", l.Cond, l.Body) }

// Break exits the nearest enclosing Loop, optionally carrying a value
// stored to that loop's implicit alloca.
type Break struct {
	base
	Value Expr // nil for a valueless break
	Loop  *Loop
}

func (b *Break) String() string { return "break" }

// Return exits the function, optionally carrying a value.
type Return struct {
	base
	Value Expr // nil for a valueless return
}

func (r *Return) String() string { return fmt.Sprintf("return %v", r.Value) }

// Block sequences expressions; its type is its last expression's type
// (or None if empty).
type Block struct {
	base
	Exprs []Expr
}

func (b *Block) String() string { return fmt.Sprintf("block(%d exprs)", len(b.Exprs)) }

// Node IDs are minted outside this package (passes.Context.NextID, shared
// through driver.GeneratorContext); every New* constructor below takes
// one explicitly, so this package never assigns identity itself.
func newBase(id uint64, t types.Type) base { return base{NodeID: id, Type: t} }

func NewLiteral(id uint64, t types.Type, kind LitKind, value interface{}) *Literal {
	return &Literal{base: newBase(id, t), Kind: kind, Value: value}
}

func NewVarLoad(id uint64, local *symbols.LocalVariable) *VarLoad {
	return &VarLoad{base: newBase(id, local.Type), Local: local}
}

func NewVarStore(id uint64, local *symbols.LocalVariable, value Expr) *VarStore {
	return &VarStore{base: newBase(id, types.TNone), Local: local, Value: value}
}

func NewBinaryOp(id uint64, t types.Type, op string, left, right Expr) *BinaryOp {
	return &BinaryOp{base: newBase(id, t), Op: op, Left: left, Right: right}
}

func NewUnaryOp(id uint64, t types.Type, op string, operand Expr) *UnaryOp {
	return &UnaryOp{base: newBase(id, t), Op: op, Operand: operand}
}

func NewCall(id uint64, t types.Type, kind CallKind, callee Expr, target *symbols.Function, args []Expr) *Call {
	return &Call{base: newBase(id, t), Kind: kind, Callee: callee, Target: target, Args: args}
}

func NewCast(id uint64, t types.Type, kind CastKind, value Expr) *Cast {
	return &Cast{base: newBase(id, t), Kind: kind, Value: value}
}

func NewAllocate(id uint64, t types.Type, ctor *symbols.Function, args []Expr) *Allocate {
	return &Allocate{base: newBase(id, t), Constructor: ctor, Args: args}
}

func NewFieldGet(id uint64, t types.Type, object Expr, field *symbols.Field, unwrap bool) *FieldGet {
	return &FieldGet{base: newBase(id, t), Object: object, Field: field, Unwrap: unwrap}
}

func NewFieldSet(id uint64, object Expr, field *symbols.Field, value Expr) *FieldSet {
	return &FieldSet{base: newBase(id, types.TNone), Object: object, Field: field, Value: value}
}

func NewPhi(id uint64, t types.Type, inputs []PhiInput) *Phi {
	return &Phi{base: newBase(id, t), Inputs: inputs}
}

func NewBranch(id uint64, t types.Type, cond, then, els Expr, merge *Phi) *Branch {
	return &Branch{base: newBase(id, t), Cond: cond, Then: then, Else: els, Merge: merge}
}

func NewSwitch(id uint64, t types.Type, scrutinee Expr, cases []SwitchCase, els Expr, merge *Phi) *Switch {
	return &Switch{base: newBase(id, t), Scrutinee: scrutinee, Cases: cases, Else: els, Merge: merge}
}

func NewLoop(id uint64, t types.Type, cond, body Expr, alloc *symbols.LocalVariable) *Loop {
	return &Loop{base: newBase(id, t), Cond: cond, Body: body, Alloc: alloc}
}

func NewBreak(id uint64, value Expr, loop *Loop) *Break {
	return &Break{base: newBase(id, types.TAny), Value: value, Loop: loop}
}

func NewReturn(id uint64, value Expr) *Return {
	return &Return{base: newBase(id, types.TAny), Value: value}
}

func NewBlock(id uint64, exprs []Expr) *Block {
	t := types.Type(types.TNone)
	if len(exprs) > 0 {
		t = exprs[len(exprs)-1].GetType()
	}
	return &Block{base: newBase(id, t), Exprs: exprs}
}
