package gir

import "github.com/gelix-lang/gelixc/internal/symbols"

// Program groups a lowered compilation unit: its modules, functions,
// ADTs and interface-impl table. The driver does not build one;
// PassDriver.Run returns a driver.Result and leaves the lowered state in
// the modules themselves.
type Program struct {
	Modules   []*symbols.Module
	Functions []*symbols.Function
	Adts      []*symbols.ADT
	Impls     *symbols.ImplTable
}

// NewProgram creates an empty program with a fresh impl table.
func NewProgram() *Program {
	return &Program{Impls: symbols.NewImplTable()}
}

// Walk visits every expression node reachable from e, depth-first,
// calling visit on each. Used by tests that assert structural shape.
func Walk(e Expr, visit func(Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch n := e.(type) {
	case *VarStore:
		Walk(n.Value, visit)
	case *BinaryOp:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case *UnaryOp:
		Walk(n.Operand, visit)
	case *Call:
		Walk(n.Callee, visit)
		for _, a := range n.Args {
			Walk(a, visit)
		}
	case *Cast:
		Walk(n.Value, visit)
	case *Allocate:
		for _, a := range n.Args {
			Walk(a, visit)
		}
	case *FieldGet:
		Walk(n.Object, visit)
	case *FieldSet:
		Walk(n.Object, visit)
		Walk(n.Value, visit)
	case *Phi:
		for _, in := range n.Inputs {
			Walk(in.Value, visit)
		}
	case *Branch:
		Walk(n.Cond, visit)
		Walk(n.Then, visit)
		Walk(n.Else, visit)
	case *Switch:
		Walk(n.Scrutinee, visit)
		for _, c := range n.Cases {
			Walk(c.Value, visit)
			Walk(c.Body, visit)
		}
		Walk(n.Else, visit)
	case *Loop:
		Walk(n.Cond, visit)
		Walk(n.Body, visit)
	case *Break:
		Walk(n.Value, visit)
	case *Return:
		Walk(n.Value, visit)
	case *Block:
		for _, c := range n.Exprs {
			Walk(c, visit)
		}
	}
}
