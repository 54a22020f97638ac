// Package errors provides the structured, phase-grouped error-code
// taxonomy and report type every pass reports through: resolution,
// type, and structural errors all accumulate as *Report values rather
// than aborting the pass that raised them.
package errors

// Error codes, grouped by the pass that raises them. Numbering follows
// the resolver's own scheme (E3xx) where the original implementation
// already assigned one, and extends it for passes the original left
// unnumbered.
const (
	// ============================================================================
	// Resolver errors (E3##) — type resolution, casts, unification
	// ============================================================================

	// E300 indicates an identifier that resolves to no type parameter,
	// primitive, or module declaration.
	E300 = "E300"

	// E301 indicates a bare function type used in a value position where
	// only a closure or instance type is legal.
	E301 = "E301"

	// E302 indicates a nullable wrapping another nullable (`T??`).
	E302 = "E302"

	// E304 indicates type-argument attachment failed (the target type
	// holds no Instance to attach to).
	E304 = "E304"

	// E321 indicates a type-argument or call-argument count mismatch.
	E321 = "E321"

	// ============================================================================
	// Import resolution errors (E-IMPORT)
	// ============================================================================

	// EImport indicates an import left unresolved after both import
	// stages have run.
	EImport = "E-IMPORT"

	// ============================================================================
	// Declaration pass errors (E1##)
	// ============================================================================

	// E100 indicates a duplicate top-level declaration name within a module.
	E100 = "E100"

	// ============================================================================
	// Field & method pass errors (E2##)
	// ============================================================================

	// E200 indicates a duplicate field name on an ADT.
	E200 = "E200"

	// E201 indicates a field name colliding with a method name (or vice
	// versa) on the same ADT.
	E201 = "E201"

	// E202 indicates a field holding a weak reference to its own
	// enclosing ADT; such a field's value cannot escape the instance
	// that owns it.
	E202 = "E202"

	// E203 indicates an EnumCase whose inherited fields do not match its
	// parent's fields element-wise.
	E203 = "E203"

	// E204 indicates an enum case or class extending something that is
	// not a valid parent for its kind.
	E204 = "E204"

	// E205 indicates a method declares its own type parameters; methods
	// inherit the enclosing ADT's parameters only.
	E205 = "E205"

	// ============================================================================
	// Expression pass errors (E4##)
	// ============================================================================

	// E400 indicates a type mismatch that no cast or unification could resolve.
	E400 = "E400"

	// E401 indicates an assignment to an immutable binding.
	E401 = "E401"

	// E402 indicates a call to a non-callable expression.
	E402 = "E402"

	// E403 indicates a field access on a nullable receiver without an
	// intervening null check or unwrap.
	E403 = "E403"

	// E404 indicates a variable redefinition within the same scope
	// (shadowing across scopes remains legal).
	E404 = "E404"

	// E405 indicates an unknown field name on an ADT.
	E405 = "E405"

	// ============================================================================
	// Interface-impl pass errors (E5##)
	// ============================================================================

	// E500 indicates a class claims to implement an interface but is
	// missing one or more of its methods.
	E500 = "E500"

	// ============================================================================
	// Intrinsics errors (E6##)
	// ============================================================================

	// E600 indicates a marker bound referenced by source with no
	// registered implementation.
	E600 = "E600"
)

// Phase names used in Report.Phase.
const (
	PhaseResolver  = "resolver"
	PhaseImport    = "import"
	PhaseDecl      = "declaration"
	PhaseFields    = "fields"
	PhaseExpr      = "expression"
	PhaseIfaceImpl = "ifaceimpl"
	PhaseIntrinsic = "intrinsics"
)
