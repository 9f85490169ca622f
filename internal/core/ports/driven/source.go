package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/qontosync/internal/core/domain"
)

// Source lists the remote transactions and attachments for a period and
// fetches attachment content. Implementations own pagination, auth and
// rate limiting; callers see flat slices.
type Source interface {
	// ListLabels returns the full label id to display name index.
	ListLabels(ctx context.Context) (domain.LabelIndex, error)

	// ListTransactions returns the transactions with attachments settled
	// inside [from, to], sorted by settlement time ascending.
	ListTransactions(ctx context.Context, from, to time.Time) ([]domain.Transaction, error)

	// ListAttachments returns the documents attached to a transaction.
	ListAttachments(ctx context.Context, transactionID string) ([]domain.Document, error)

	// FetchBytes downloads the raw content behind a document's URL.
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}
