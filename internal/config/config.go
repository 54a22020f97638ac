// Package config loads the compiler-wide configuration the driver needs
// before it can build a GeneratorContext: the target pointer width that
// governs isize/usize resolution, a list of module search paths (decoded
// but not read by the CLI's module-set loader), and which intrinsic
// marker bounds are considered
// registered. It is read once at driver startup and never mutated
// afterward.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level shape of a gelixc.yml file.
type Config struct {
	// PointerWidth is 32 or 64; it governs which fixed-width IR type
	// the isize/usize aliases resolve to.
	PointerWidth int `yaml:"pointer_width"`

	// ModulePaths lists module search directories, in order. It is only
	// decoded: the CLI's module-set loader (fixture.LoadDir) loads the
	// one directory it is given and does not consult this list.
	ModulePaths []string `yaml:"module_paths"`

	// Intrinsics lists extra marker-bound names, beyond the built-in
	// Number/Integer/SignedInt/UnsignedInt/Float/... table in
	// internal/symbols/primitives.go, that the intrinsics pass should
	// treat as already registered. Each is wired in via
	// symbols.Primitives.RegisterIntrinsic as an Unbounded marker.
	Intrinsics []string `yaml:"intrinsics"`
}

// Default returns the configuration used when no gelixc.yml is present:
// a 64-bit pointer width, no extra module paths, and no extra
// intrinsics beyond the built-in table.
func Default() *Config {
	return &Config{PointerWidth: 64}
}

// Load reads and parses a gelixc.yml file at path. A missing file is
// not an error — callers fall back to Default(), matching the CLI's
// "config is optional" contract.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.PointerWidth != 32 && cfg.PointerWidth != 64 {
		return nil, fmt.Errorf("config %s: pointer_width must be 32 or 64, got %d", path, cfg.PointerWidth)
	}
	return cfg, nil
}
