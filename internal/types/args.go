package types

// TypeArgs returns the argument vector of the outermost Instance,
// recursing inward through Nullable, RawPtr and TypeOf (which carry no
// arguments of their own, only an inner type that might).
func TypeArgs(t Type) []Type {
	switch v := t.(type) {
	case *Adt:
		return v.Inst.Args
	case *Function:
		return v.Inst.Args
	case *Nullable:
		return TypeArgs(v.Inner)
	case *RawPtr:
		return TypeArgs(v.Inner)
	case *TypeOf:
		return TypeArgs(v.Inner)
	default:
		return nil
	}
}

// TypeParams returns the declaration's type parameters the same way
// TypeArgs returns its arguments: from the outermost Instance, recursing
// through the transparent wrapper variants.
func TypeParams(t Type) []*TypeParameter {
	switch v := t.(type) {
	case *Adt:
		if v.Inst.Decl == nil {
			return nil
		}
		return v.Inst.Decl.DeclTypeParams()
	case *Function:
		if v.Inst.Decl == nil {
			return nil
		}
		return v.Inst.Decl.DeclTypeParams()
	case *Nullable:
		return TypeParams(v.Inner)
	case *RawPtr:
		return TypeParams(v.Inner)
	case *TypeOf:
		return TypeParams(v.Inner)
	default:
		return nil
	}
}

// SetTypeArgs mutates the outermost Instance's argument list in place.
// It is a no-op (returning false) on every other variant: a type with
// no instance to attach arguments to simply cannot accept them.
func SetTypeArgs(t Type, args []Type) bool {
	switch v := t.(type) {
	case *Adt:
		v.Inst.Args = args
		return true
	case *Function:
		v.Inst.Args = args
		return true
	case *Nullable:
		return SetTypeArgs(v.Inner, args)
	case *RawPtr:
		return SetTypeArgs(v.Inner, args)
	case *TypeOf:
		return SetTypeArgs(v.Inner, args)
	default:
		return false
	}
}

// Resolve substitutes type variables occurring in t by the corresponding
// entries of args (indexed by TypeVariable.Index), then recursively
// resolves any nested arguments, then — if the result is an unspecialized
// instance whose declaration takes parameters — attaches args to it
// verbatim. The three steps run in that order; reversing substitute and
// attach would double-substitute an instance that happens to share its
// declaration's own parameter list with the caller's args.
func Resolve(t Type, args []Type) Type {
	substituted := substituteVars(t, args)
	recursed := resolveNested(substituted, args)
	return attachIfUnspecialized(recursed, args)
}

func substituteVars(t Type, args []Type) Type {
	switch v := t.(type) {
	case *Variable:
		if v.TypeVar.Index >= 0 && v.TypeVar.Index < len(args) {
			return args[v.TypeVar.Index]
		}
		return v
	case *Nullable:
		return &Nullable{Inner: substituteVars(v.Inner, args)}
	case *RawPtr:
		return &RawPtr{Inner: substituteVars(v.Inner, args)}
	case *TypeOf:
		return &TypeOf{Inner: substituteVars(v.Inner, args)}
	case *Closure:
		params := make([]Type, len(v.Sig.Params))
		for i, p := range v.Sig.Params {
			params[i] = substituteVars(p, args)
		}
		return &Closure{Sig: ClosureSig{Params: params, Return: substituteVars(v.Sig.Return, args)}}
	case *Adt:
		return &Adt{Inst: substituteInstance(v.Inst, args)}
	case *Function:
		return &Function{Inst: substituteInstance(v.Inst, args)}
	default:
		return t
	}
}

func substituteInstance(i Instance, args []Type) Instance {
	if len(i.Args) == 0 {
		return i
	}
	newArgs := make([]Type, len(i.Args))
	for k, a := range i.Args {
		newArgs[k] = substituteVars(a, args)
	}
	return Instance{Decl: i.Decl, Args: newArgs}
}

func resolveNested(t Type, args []Type) Type {
	switch v := t.(type) {
	case *Adt:
		v.Inst.Args = resolveArgList(v.Inst.Args, args)
		return v
	case *Function:
		v.Inst.Args = resolveArgList(v.Inst.Args, args)
		return v
	case *Nullable:
		v.Inner = resolveNested(v.Inner, args)
		return v
	case *RawPtr:
		v.Inner = resolveNested(v.Inner, args)
		return v
	case *TypeOf:
		v.Inner = resolveNested(v.Inner, args)
		return v
	default:
		return t
	}
}

func resolveArgList(inner []Type, args []Type) []Type {
	if len(inner) == 0 {
		return inner
	}
	out := make([]Type, len(inner))
	for i, a := range inner {
		out[i] = Resolve(a, args)
	}
	return out
}

func attachIfUnspecialized(t Type, args []Type) Type {
	switch v := t.(type) {
	case *Adt:
		if v.Inst.Unspecialized() {
			v.Inst.Args = args
		}
		return v
	case *Function:
		if v.Inst.Unspecialized() {
			v.Inst.Args = args
		}
		return v
	default:
		return t
	}
}
