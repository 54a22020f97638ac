package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gelix-lang/gelixc/internal/driver"
)

// TestLoadDirIdentityClass exercises the JSON fixture format end to
// end: `class Foo { val x: i32 }` should produce one field, one
// synthesized constructor, and a free-sr method.
func TestLoadDirIdentityClass(t *testing.T) {
	dir := t.TempDir()
	doc := `{
		"path": ["demo"],
		"adts": [{
			"name": "Foo",
			"kind": "class",
			"fields": [{"name": "x", "mutable": false, "type": {"kind": "ident", "name": "i32"}}]
		}]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.module.json"), []byte(doc), 0644))

	units, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, units, 1)

	d := driver.NewPassDriver(64)
	result := d.Run(units)
	assert.Empty(t, result.Errors)

	decl, ok := units[0].Module.Lookup("Foo")
	require.True(t, ok)
	require.NotNil(t, decl.Adt)

	fields := decl.Adt.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, "x", fields[0].Name)
	assert.Equal(t, 0, fields[0].Index)

	require.Len(t, decl.Adt.Constructors, 1)
	_, hasFreeSr := decl.Adt.Methods["free-sr"]
	assert.True(t, hasFreeSr)
}

func TestLoadDirFreeFunctionBody(t *testing.T) {
	dir := t.TempDir()
	doc := `{
		"path": ["demo"],
		"fns": [{
			"name": "add",
			"params": [
				{"name": "a", "type": {"kind": "ident", "name": "i32"}},
				{"name": "b", "type": {"kind": "ident", "name": "i32"}}
			],
			"return_type": {"kind": "ident", "name": "i32"},
			"body": {
				"kind": "binary",
				"op": "+",
				"a": {"kind": "ident", "name": "a"},
				"b": {"kind": "ident", "name": "b"}
			}
		}]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.module.json"), []byte(doc), 0644))

	units, err := LoadDir(dir)
	require.NoError(t, err)

	d := driver.NewPassDriver(64)
	result := d.Run(units)
	assert.Empty(t, result.Errors)

	decl, ok := units[0].Module.Lookup("add")
	require.True(t, ok)
	require.NotNil(t, decl.Fn)
	assert.NotNil(t, decl.Fn.Body)
}
