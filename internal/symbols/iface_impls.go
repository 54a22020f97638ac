package symbols

import "github.com/gelix-lang/gelixc/internal/types"

// IFaceImpls is, per implementor type, a map from interface to the
// methods it matched, plus a flat name-to-method map for fast dispatch
// lookup. It is built lazily: querying an implementor with no
// registered impls returns an empty, non-nil table rather than an
// error.
type IFaceImpls struct {
	// ByInterface maps an interface's canonical name to the methods the
	// implementor provides for it, keyed by method name.
	ByInterface map[string]map[string]*Function
	// Flat is the union of every interface's methods, keyed by method
	// name, for O(1) dispatch lookup regardless of which interface a
	// call site names.
	Flat map[string]*Function
}

func newIFaceImpls() *IFaceImpls {
	return &IFaceImpls{
		ByInterface: make(map[string]map[string]*Function),
		Flat:        make(map[string]*Function),
	}
}

// Add registers the implementor's methods for one interface.
func (i *IFaceImpls) Add(iface types.Type, methods map[string]*Function) {
	key := iface.String()
	i.ByInterface[key] = methods
	for name, fn := range methods {
		i.Flat[name] = fn
	}
}

// ImplTable maps an implementor type's canonical name to its
// IFaceImpls, created lazily as the interface-impl pass (or a later
// query) touches it.
type ImplTable struct {
	byImplementor map[string]*IFaceImpls
}

func NewImplTable() *ImplTable {
	return &ImplTable{byImplementor: make(map[string]*IFaceImpls)}
}

// Get returns the implementor's impl table, creating an empty one on
// first access. A missing entry is not an error — it's simply a type
// that implements nothing.
func (t *ImplTable) Get(implementor types.Type) *IFaceImpls {
	key := implementor.String()
	impls, ok := t.byImplementor[key]
	if !ok {
		impls = newIFaceImpls()
		t.byImplementor[key] = impls
	}
	return impls
}
