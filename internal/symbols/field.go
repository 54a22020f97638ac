package symbols

import "github.com/gelix-lang/gelixc/internal/types"

// Field is a single ADT member. Index is dense from 0 in field
// insertion order for the ADT's own fields; an EnumCase's fields start
// numbering at len(parent.Fields) so that the case's storage layout
// extends its parent's (see ADT.AddField).
type Field struct {
	Name        string
	Mutable     bool
	Type        types.Type
	Initializer interface{} // gir.Expr, set by the field/method pass; nil if none
	Index       int

	// Weak marks a weak-reference field: it never contributes to its
	// target's refcount, so free-wr/free-sr skip it, and it may not
	// point back at the ADT that declares it.
	Weak bool
}
