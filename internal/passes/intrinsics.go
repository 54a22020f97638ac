package passes

import (
	"fmt"

	"github.com/gelix-lang/gelixc/internal/errors"
)

// RunIntrinsicsPass runs after stage 1's declarations, reporting E600
// for every marker name recorded through Primitives.MarkNameReferenced
// that has no registered implementation (neither a built-in marker from
// NewPrimitives nor one added by RegisterIntrinsic). The resolver and
// the driver do not call MarkNameReferenced; names are recorded only by
// its direct callers.
func RunIntrinsicsPass(ctx *Context) {
	for _, name := range ctx.Primitives.ValidateIntrinsics() {
		ctx.report(errors.PhaseIntrinsic, errors.E600, fmt.Sprintf(
			"marker bound %q referenced by source has no registered implementation", name))
	}
}
