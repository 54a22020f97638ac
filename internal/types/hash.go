package types

import "hash/fnv"

// Hash computes a hash consistent with strict Equals: Equals(a, b) implies
// Hash(a) == Hash(b). It hashes the variant tag plus whatever payload
// discriminates that variant under strict equality (declaration name for
// nominal types, inner type for Nullable/RawPtr/TypeOf, index for
// variables, parameter/return types for closures).
func Hash(t Type) uint64 {
	h := fnv.New64a()
	writeHash(h, t)
	return h.Sum64()
}

type hasher interface {
	Write(p []byte) (int, error)
}

func writeHash(h hasher, t Type) {
	switch v := t.(type) {
	case *Basic:
		writeTag(h, 1)
		writeInt(h, int(v.Kind))
	case *Adt:
		writeTag(h, 2)
		writeInstance(h, v.Inst)
	case *Function:
		writeTag(h, 3)
		writeInstance(h, v.Inst)
	case *Closure:
		writeTag(h, 4)
		writeInt(h, len(v.Sig.Params))
		for _, p := range v.Sig.Params {
			writeHash(h, p)
		}
		writeHash(h, v.Sig.Return)
	case *ClosureCaptured:
		writeTag(h, 5)
		for _, ct := range v.Types {
			writeHash(h, ct)
		}
	case *Nullable:
		writeTag(h, 6)
		writeHash(h, v.Inner)
	case *RawPtr:
		writeTag(h, 7)
		writeHash(h, v.Inner)
	case *Variable:
		writeTag(h, 8)
		writeInt(h, v.TypeVar.Index)
	case *TypeOf:
		writeTag(h, 9)
		writeHash(h, v.Inner)
	default:
		writeTag(h, 0)
	}
}

func writeInstance(h hasher, i Instance) {
	if i.Decl != nil {
		_, _ = h.Write([]byte(i.Decl.DeclName()))
	}
	for _, a := range i.Args {
		writeHash(h, a)
	}
}

func writeTag(h hasher, tag byte) {
	_, _ = h.Write([]byte{tag})
}

func writeInt(h hasher, n int) {
	_, _ = h.Write([]byte{
		byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24),
	})
}
