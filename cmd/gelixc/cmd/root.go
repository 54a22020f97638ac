package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "gelixc",
	Short: "gelix semantic analysis and IR construction core",
	Long: `gelixc is the declaration/field/expression pass pipeline for the
gelix compiler: it consumes an upstream AST (here, a JSON module-set
fixture), resolves types and interface implementations, and lowers
every function, method, and constructor body to typed IR.

It does not parse gelix source and it does not execute anything it
builds — it stops at IR.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "gelixc.yml", "path to compiler config (missing file falls back to defaults)")
}
