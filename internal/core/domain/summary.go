package domain

// NewItem describes one freshly transferred attachment, with the display
// metadata the notifier needs.
type NewItem struct {
	// Name is the enriched destination filename.
	Name string

	// Amount is the transaction amount.
	Amount float64

	// Author is the counterparty or label the document was filed under.
	Author string

	// Date is the settlement date as "YYYY-MM-DD", empty when unknown.
	Date string

	// Group is the month container the file was routed into ("2025-06").
	Group string
}

// Summary aggregates the outcome of one sync run.
type Summary struct {
	// RunID uniquely identifies the run in logs and notifications.
	RunID string

	// PeriodLabel is the human-readable description of the synced window.
	PeriodLabel string

	Fetched int
	Renamed int
	Skipped int
	Errors  int

	// NewItems lists the attachments fetched or renamed during the run,
	// in processing order.
	NewItems []NewItem

	// GroupLinks maps month groups to external container links, when the
	// backend can produce them. Empty for backends without a web UI.
	GroupLinks map[string]string
}

// Changed reports whether the run transferred or renamed anything.
func (s *Summary) Changed() bool {
	return s.Fetched > 0 || s.Renamed > 0
}
