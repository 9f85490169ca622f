package domain

// StateRecord is the persisted snapshot of one document's last successful
// transfer. Records are created on first transfer, overwritten on every
// later transfer or rename, and only removed by the pruning policy.
type StateRecord struct {
	// OriginalName is the source filename at the time of the transfer.
	OriginalName string `json:"original_name"`

	// DestinationName is the enriched name the object currently has at
	// the backend.
	DestinationName string `json:"destination_name"`

	// ByteSize and CreatedAt form the stored fingerprint.
	ByteSize  int64  `json:"byte_size"`
	CreatedAt string `json:"created_at"`

	// ContentType is the MIME type the source reported.
	ContentType string `json:"content_type"`
}

// Fingerprint returns the fingerprint stored at last transfer.
func (r StateRecord) Fingerprint() Fingerprint {
	return Fingerprint{ByteSize: r.ByteSize, CreatedAt: r.CreatedAt}
}

// NewStateRecord snapshots a document after a successful transfer or
// rename under destinationName.
func NewStateRecord(doc Document, destinationName string) StateRecord {
	return StateRecord{
		OriginalName:    doc.OriginalName,
		DestinationName: destinationName,
		ByteSize:        doc.ByteSize,
		CreatedAt:       doc.CreatedAt,
		ContentType:     doc.ContentType,
	}
}

// SyncState is the full persisted mapping from document id to its last
// synchronised record. It is loaded once at run start, mutated in memory
// under the orchestrator's lock, and persisted at run end.
type SyncState map[string]StateRecord

// Lookup returns the prior record for a document id, or nil when the
// document has never been synchronised.
func (s SyncState) Lookup(id string) *StateRecord {
	rec, ok := s[id]
	if !ok {
		return nil
	}
	return &rec
}
