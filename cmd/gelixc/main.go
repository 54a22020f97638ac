// Command gelixc is the driver CLI: it loads a JSON module-set fixture
// (internal/fixture), runs the fixed three-stage pipeline
// (internal/driver) over it, and either reports the accumulated errors
// (`check`) or drops into the interactive IR inspector (`trace`).
package main

import (
	"fmt"
	"os"

	"github.com/gelix-lang/gelixc/cmd/gelixc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
