package domain

import "time"

// Document represents one remote attachment belonging to a Transaction.
// It is immutable once listed for a given sync pass.
type Document struct {
	// ID is the attachment identifier assigned by the source system.
	ID string

	// OriginalName is the filename the attachment carries at the source.
	OriginalName string

	// ByteSize is the attachment size in bytes. Zero when the source
	// omitted the field.
	ByteSize int64

	// CreatedAt is the source-side creation timestamp, kept as the raw
	// string the API returned. Empty when absent.
	CreatedAt string

	// ContentType is the MIME type reported by the source.
	ContentType string

	// ContentURL is the pre-signed URL the attachment bytes are fetched from.
	ContentURL string
}

// Transaction is the business record a Document is filed under.
// Its fields feed the naming engine; nothing else reads them.
type Transaction struct {
	// ID is the transaction identifier at the source.
	ID string

	// Amount is the settled amount in the account currency.
	Amount float64

	// Counterparty is the cleaned counterparty name, when the source
	// provides one.
	Counterparty string

	// Label is the free-form transaction label, used as the author
	// fallback when Counterparty is empty.
	Label string

	// SettledAt is the settlement timestamp as returned by the API
	// (RFC 3339). Empty when the transaction has not settled.
	SettledAt string

	// LabelIDs are the analytic label ids attached to the transaction,
	// in source order. May be empty and may repeat across transactions.
	LabelIDs []string
}

// Author returns the display name filed into enriched filenames:
// the counterparty when known, the transaction label otherwise.
func (t Transaction) Author() string {
	if t.Counterparty != "" {
		return t.Counterparty
	}
	if t.Label != "" {
		return t.Label
	}
	return "Unknown"
}

// SettledTime parses the settlement timestamp.
// ok is false when the timestamp is missing or malformed.
func (t Transaction) SettledTime() (time.Time, bool) {
	if t.SettledAt == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, t.SettledAt)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// MonthGroup returns the "YYYY-MM" container a transaction's attachments
// are routed into, or "unknown" when the settlement date is unusable.
func (t Transaction) MonthGroup() string {
	ts, ok := t.SettledTime()
	if !ok {
		return "unknown"
	}
	return ts.UTC().Format("2006-01")
}

// Label is one analytic label defined at the source.
type Label struct {
	ID   string
	Name string
}

// LabelIndex maps label ids to display names. It is built once per run
// and treated as immutable for the duration of the run.
type LabelIndex map[string]string
