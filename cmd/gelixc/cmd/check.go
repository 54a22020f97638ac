package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkQuiet bool

var checkCmd = &cobra.Command{
	Use:   "check <module-dir>",
	Short: "Run the pass pipeline over a module set and report errors",
	Long: `check loads every *.module.json fixture under <module-dir>, runs
the declaration/field/expression pass pipeline over the set, and prints
every accumulated error report.

Examples:
  # Check a directory of module fixtures
  gelixc check ./testdata/demo

  # Check quietly, relying only on the exit code
  gelixc check ./testdata/demo --quiet`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "suppress per-error output, report only the count")
}

func runCheck(_ *cobra.Command, args []string) error {
	_, _, result, err := compile(args[0])
	if err != nil {
		return err
	}

	if len(result.Errors) == 0 {
		fmt.Fprintln(os.Stdout, "ok: no errors")
		return nil
	}

	if !checkQuiet {
		for _, rep := range result.Errors {
			fmt.Fprintf(os.Stderr, "[%s/%s] %s\n", rep.Phase, rep.Code, rep.Message)
			if rep.Span != nil {
				fmt.Fprintf(os.Stderr, "  at %s\n", rep.Span.String())
			}
			if rep.Fix != nil {
				fmt.Fprintf(os.Stderr, "  fix: %s (confidence %.2f)\n", rep.Fix.Suggestion, rep.Fix.Confidence)
			}
		}
	}

	return fmt.Errorf("%d error(s)", len(result.Errors))
}
