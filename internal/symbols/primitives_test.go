package symbols

import (
	"testing"

	"github.com/gelix-lang/gelixc/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrimitivesResolvesPointerWidth64(t *testing.T) {
	p := NewPrimitives(64)
	isize, ok := p.Lookup("isize")
	require.True(t, ok)
	assert.Equal(t, types.TI64, isize)

	usize, ok := p.Lookup("usize")
	require.True(t, ok)
	assert.Equal(t, types.TU64, usize)
}

func TestNewPrimitivesResolvesPointerWidth32(t *testing.T) {
	p := NewPrimitives(32)
	isize, ok := p.Lookup("isize")
	require.True(t, ok)
	assert.Equal(t, types.TI32, isize)
}

func TestLookupUnknownNameIsMiss(t *testing.T) {
	p := NewPrimitives(64)
	_, ok := p.Lookup("NotAPrimitive")
	assert.False(t, ok)
}

func TestValidateIntrinsicsAllRegisteredMarkersPass(t *testing.T) {
	p := NewPrimitives(64)
	p.MarkNameReferenced("Number")
	p.MarkNameReferenced("SignedInt")
	assert.Empty(t, p.ValidateIntrinsics())
}

func TestMarkerBoundLookup(t *testing.T) {
	p := NewPrimitives(64)
	m, ok := p.MarkerBound("Integer")
	require.True(t, ok)
	assert.Equal(t, types.Integer, m)
}
