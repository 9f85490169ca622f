package driving

import (
	"context"

	"github.com/custodia-labs/qontosync/internal/core/domain"
	"github.com/custodia-labs/qontosync/internal/period"
)

// Syncer runs one reconciliation pass over a period window and returns
// the aggregated summary. A non-nil error means the run could not start
// or was aborted by a fatal configuration problem; per-document transfer
// failures are counted in the summary instead.
type Syncer interface {
	Run(ctx context.Context, window period.Window) (*domain.Summary, error)
}
