package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintNullableOfGeneric(t *testing.T) {
	generic := NewTypeGeneric("List", []Type{NewTypeIdent("i32", Span{})}, Span{})
	nullable := NewTypeNullable(generic, Span{})

	out := Print(nullable)
	assert.Contains(t, out, `"type": "Nullable"`)
	assert.Contains(t, out, `"type": "Generic"`)
	assert.Contains(t, out, `"ident": "List"`)
}

func TestPrintNil(t *testing.T) {
	assert.Equal(t, "null", Print(nil))
}

func TestClosureChildrenIncludesParamsAndRet(t *testing.T) {
	i32 := NewTypeIdent("i32", Span{})
	boolT := NewTypeIdent("bool", Span{})
	closure := NewTypeClosure([]Type{i32, i32}, boolT, Span{})

	assert.Len(t, closure.Children(), 3)
	assert.Equal(t, i32, closure.FirstChild())
}

func TestClosureWithNoReturnOmitsRet(t *testing.T) {
	closure := NewTypeClosure(nil, nil, Span{})
	assert.Len(t, closure.Children(), 0)
	assert.Nil(t, closure.FirstChild())
}
