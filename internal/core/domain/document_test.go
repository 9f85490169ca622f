package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionAuthor(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
		want string
	}{
		{"counterparty wins", Transaction{Counterparty: "ACME", Label: "travel"}, "ACME"},
		{"label fallback", Transaction{Label: "travel"}, "travel"},
		{"nothing known", Transaction{}, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tx.Author())
		})
	}
}

func TestTransactionSettledTime(t *testing.T) {
	ts, ok := Transaction{SettledAt: "2025-06-03T10:30:00Z"}.SettledTime()
	assert.True(t, ok)
	assert.Equal(t, 2025, ts.Year())
	assert.Equal(t, 3, ts.Day())

	_, ok = Transaction{}.SettledTime()
	assert.False(t, ok)

	_, ok = Transaction{SettledAt: "yesterday"}.SettledTime()
	assert.False(t, ok)
}

func TestTransactionMonthGroup(t *testing.T) {
	assert.Equal(t, "2025-06", Transaction{SettledAt: "2025-06-30T23:59:00Z"}.MonthGroup())
	assert.Equal(t, "unknown", Transaction{}.MonthGroup())
	assert.Equal(t, "unknown", Transaction{SettledAt: "not a date"}.MonthGroup())

	// Grouping is by UTC month, so a timestamp late in a zone ahead of
	// UTC can land in the previous month.
	assert.Equal(t, "2025-05", Transaction{SettledAt: "2025-06-01T00:30:00+02:00"}.MonthGroup())
}

func TestFingerprintEqual(t *testing.T) {
	doc := Document{ByteSize: 100, CreatedAt: "2025-06-03T10:00:00.000Z"}

	assert.True(t, doc.Fingerprint().Equal(Fingerprint{ByteSize: 100, CreatedAt: "2025-06-03T10:00:00.000Z"}))
	assert.False(t, doc.Fingerprint().Equal(Fingerprint{ByteSize: 101, CreatedAt: "2025-06-03T10:00:00.000Z"}))
	assert.False(t, doc.Fingerprint().Equal(Fingerprint{ByteSize: 100, CreatedAt: "2025-06-03T10:00:01.000Z"}))

	// Timestamps are compared verbatim, not semantically.
	assert.False(t, doc.Fingerprint().Equal(Fingerprint{ByteSize: 100, CreatedAt: "2025-06-03T12:00:00.000+02:00"}))

	// Absent fields on both sides still compare equal.
	assert.True(t, Document{}.Fingerprint().Equal(Fingerprint{}))
}

func TestSyncStateLookup(t *testing.T) {
	state := SyncState{"a": {DestinationName: "a.pdf"}}

	rec := state.Lookup("a")
	assert.NotNil(t, rec)
	assert.Equal(t, "a.pdf", rec.DestinationName)

	assert.Nil(t, state.Lookup("missing"))

	// Lookup hands out a copy, not a reference into the map.
	rec.DestinationName = "mutated.pdf"
	assert.Equal(t, "a.pdf", state["a"].DestinationName)
}

func TestNewStateRecord(t *testing.T) {
	doc := Document{
		ID:           "att-1",
		OriginalName: "invoice.pdf",
		ByteSize:     100,
		CreatedAt:    "2025-06-03T10:00:00.000Z",
		ContentType:  "application/pdf",
	}
	rec := NewStateRecord(doc, "invoice-42EUR-ACME-20250603-att-1.pdf")

	assert.Equal(t, "invoice.pdf", rec.OriginalName)
	assert.Equal(t, "invoice-42EUR-ACME-20250603-att-1.pdf", rec.DestinationName)
	assert.True(t, rec.Fingerprint().Equal(doc.Fingerprint()))
	assert.Equal(t, "application/pdf", rec.ContentType)
}

func TestSummaryChanged(t *testing.T) {
	assert.False(t, (&Summary{Skipped: 10, Errors: 2}).Changed())
	assert.True(t, (&Summary{Fetched: 1}).Changed())
	assert.True(t, (&Summary{Renamed: 1}).Changed())
}
