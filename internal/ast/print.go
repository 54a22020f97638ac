package ast

import (
	"encoding/json"
	"fmt"
)

// Print produces a deterministic JSON representation of a Type node,
// used for golden snapshot tests. Spans are omitted so snapshots stay
// stable across reformatting.
func Print(t Type) string {
	if t == nil {
		return "null"
	}
	data, err := json.MarshalIndent(simplify(t), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

func simplify(t Type) interface{} {
	if t == nil {
		return nil
	}
	switch n := t.(type) {
	case *TypeIdent:
		return map[string]interface{}{"type": "Ident", "name": n.Name}
	case *TypeNullable:
		return map[string]interface{}{"type": "Nullable", "inner": simplify(n.Inner)}
	case *TypeRawPtr:
		return map[string]interface{}{"type": "RawPtr", "inner": simplify(n.Inner)}
	case *TypeClosure:
		params := make([]interface{}, len(n.Params))
		for i, p := range n.Params {
			params[i] = simplify(p)
		}
		m := map[string]interface{}{"type": "Closure", "params": params}
		if n.Ret != nil {
			m["ret"] = simplify(n.Ret)
		}
		return m
	case *TypeGeneric:
		args := make([]interface{}, len(n.Args))
		for i, a := range n.Args {
			args[i] = simplify(a)
		}
		return map[string]interface{}{"type": "Generic", "ident": n.Ident, "args": args}
	default:
		return fmt.Sprintf("%v", t)
	}
}
