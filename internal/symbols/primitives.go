package symbols

import "github.com/gelix-lang/gelixc/internal/types"

// Primitives is the shared table of primitive type names and marker
// bounds. It is built once per compilation context (passes.NewContext,
// reached from driver.NewGeneratorContext), and every module's resolver
// consults the same instance. The type-name table is never changed after
// construction; RegisterIntrinsic adds marker names (the driver does so
// for configured intrinsics right after construction), and
// MarkNameReferenced records referenced marker names.
type Primitives struct {
	byName            map[string]types.Type
	markerByName      map[string]types.MarkerBound
	pointerWidth      int              // 32 or 64; governs isize/usize resolution
	referencedMarkers map[string]bool  // set by MarkNameReferenced
}

// NewPrimitives builds the primitive table for the given pointer width
// (32 or 64 bits), which picks the fixed-width types the isize/usize
// aliases resolve to.
func NewPrimitives(pointerWidth int) *Primitives {
	p := &Primitives{
		byName: map[string]types.Type{
			"Any":  types.TAny,
			"None": types.TNone,
			"bool": types.TBool,
			"i8":   types.TI8,
			"i16":  types.TI16,
			"i32":  types.TI32,
			"i64":  types.TI64,
			"u8":   types.TU8,
			"u16":  types.TU16,
			"u32":  types.TU32,
			"u64":  types.TU64,
			"f32":  types.TF32,
			"f64":  types.TF64,
		},
		markerByName: map[string]types.MarkerBound{
			"Unbounded":   types.Unbounded,
			"Primitive":   types.Primitive,
			"Number":      types.Number,
			"Integer":     types.Integer,
			"SignedInt":   types.SignedInt,
			"UnsignedInt": types.UnsignedInt,
			"Float":       types.Float,
			"Adt":         types.BoundAdt,
			"Nullable":    types.BoundNullable,
		},
		pointerWidth:      pointerWidth,
		referencedMarkers: make(map[string]bool),
	}
	if pointerWidth == 64 {
		p.byName["isize"] = types.TI64
		p.byName["usize"] = types.TU64
	} else {
		p.byName["isize"] = types.TI32
		p.byName["usize"] = types.TU32
	}
	return p
}

// Lookup resolves a primitive type name. Ok is false for any name that
// isn't a primitive (the caller then falls through to module symbol
// lookup).
func (p *Primitives) Lookup(name string) (types.Type, bool) {
	t, ok := p.byName[NormalizeName(name)]
	return t, ok
}

// MarkNameReferenced records that source referenced the marker bound
// `name` (e.g. as a generic parameter's `where T: Number` clause). Used
// by ValidateIntrinsics to check every referenced marker is bound.
func (p *Primitives) MarkNameReferenced(name string) {
	p.referencedMarkers[name] = true
}

// ValidateIntrinsics checks that every marker bound referenced by source
// (via MarkNameReferenced) has a registered implementation: a built-in
// marker from NewPrimitives or one added by RegisterIntrinsic. It returns
// the list of unregistered names, if any.
func (p *Primitives) ValidateIntrinsics() []string {
	var missing []string
	for name := range p.referencedMarkers {
		if _, ok := p.markerByName[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// MarkerBound resolves a bound marker by name.
func (p *Primitives) MarkerBound(name string) (types.MarkerBound, bool) {
	m, ok := p.markerByName[name]
	return m, ok
}

// RegisterIntrinsic extends the marker table with an extra name that
// should validate as already-implemented (the
// internal/config.Config.Intrinsics extension point): it is registered
// as types.Unbounded, the weakest marker, so any
// classification predicate that checks it trivially succeeds without
// granting it Number/Integer/etc. semantics it was never declared with.
// A no-op if name already names a built-in marker.
func (p *Primitives) RegisterIntrinsic(name string) {
	if _, exists := p.markerByName[name]; exists {
		return
	}
	p.markerByName[name] = types.Unbounded
}
