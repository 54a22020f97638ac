package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.PointerWidth)
	assert.Empty(t, cfg.ModulePaths)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gelixc.yml")
	contents := "pointer_width: 32\nmodule_paths:\n  - ./std\n  - ./vendor\nintrinsics:\n  - Ordered\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.PointerWidth)
	assert.Equal(t, []string{"./std", "./vendor"}, cfg.ModulePaths)
	assert.Equal(t, []string{"Ordered"}, cfg.Intrinsics)
}

func TestLoadRejectsBadPointerWidth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gelixc.yml")
	require.NoError(t, os.WriteFile(path, []byte("pointer_width: 16\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
