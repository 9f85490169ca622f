package driven

import (
	"context"

	"github.com/custodia-labs/qontosync/internal/core/domain"
)

// Notifier posts a run summary to an external channel. Delivery failures
// never affect the sync outcome or exit status.
type Notifier interface {
	Notify(ctx context.Context, summary *domain.Summary) error
}
