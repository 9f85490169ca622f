package domain

// Fingerprint is the (byte size, creation timestamp) pair used as a cheap
// proxy for "content unchanged". The timestamp is compared as the raw
// string the source returned; parsing it would risk false changes from
// timezone or precision normalisation.
//
// Zero values stand in for fields the source omitted. Two fingerprints
// with the same field absent compare equal, which can mask a real change
// when the source stops reporting a field; that trade-off is accepted.
type Fingerprint struct {
	ByteSize  int64
	CreatedAt string
}

// Fingerprint extracts the change-detection signature of a document.
func (d Document) Fingerprint() Fingerprint {
	return Fingerprint{ByteSize: d.ByteSize, CreatedAt: d.CreatedAt}
}

// Equal reports whether two fingerprints denote unchanged content.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f == other
}
