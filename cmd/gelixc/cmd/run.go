package cmd

import (
	"fmt"

	"github.com/gelix-lang/gelixc/internal/config"
	"github.com/gelix-lang/gelixc/internal/driver"
	"github.com/gelix-lang/gelixc/internal/fixture"
	"github.com/gelix-lang/gelixc/internal/symbols"
)

// compile loads moduleDir's fixture files and runs the full pipeline,
// returning the module set and the run result. Shared by `check` and
// `trace` so both commands build an identical GeneratorContext.
func compile(moduleDir string) ([]*symbols.Module, *driver.PassDriver, *driver.Result, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	units, err := fixture.LoadDir(moduleDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading modules from %s: %w", moduleDir, err)
	}

	d := driver.NewPassDriverFromConfig(cfg)
	result := d.Run(units)

	modules := make([]*symbols.Module, len(units))
	for i, u := range units {
		modules[i] = u.Module
	}
	return modules, d, result, nil
}
