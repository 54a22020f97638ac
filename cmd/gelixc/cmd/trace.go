package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gelix-lang/gelixc/internal/trace"
)

var traceCmd = &cobra.Command{
	Use:   "trace <module-dir>",
	Short: "Run the pass pipeline and inspect the resulting IR interactively",
	Long: `trace loads every *.module.json fixture under <module-dir>, runs
the pass pipeline, and opens an interactive inspector over the
resulting modules, ADTs, functions, and interface implementations.

It never evaluates anything the pipeline built — it only lets you
browse it.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)
}

func runTrace(_ *cobra.Command, args []string) error {
	modules, d, result, err := compile(args[0])
	if err != nil {
		return err
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d error(s) accumulated during this run; inspect with :errors\n", len(result.Errors))
	}

	trace.New(modules, result, d.Ctx.Impls).Start(os.Stdin, os.Stdout)
	return nil
}
