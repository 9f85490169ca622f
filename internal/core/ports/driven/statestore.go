package driven

import (
	"context"

	"github.com/custodia-labs/qontosync/internal/core/domain"
)

// StateStore persists the document id to StateRecord mapping between runs.
type StateStore interface {
	// Load returns the persisted state. It fails open: missing, corrupt
	// or undecodable data yields an empty state and a warning log, never
	// an error. Redundant re-transfers are cheaper than refusing to run.
	Load(ctx context.Context) domain.SyncState

	// Save persists the full state. Failures are reported to the caller,
	// which logs them without failing the run.
	Save(ctx context.Context, state domain.SyncState) error
}
