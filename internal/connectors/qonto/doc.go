// Package qonto implements the driven.Source port against the Qonto
// third-party REST API: paginated listing of labels and settled
// transactions, per-transaction attachment listing, and raw byte download
// of attachment content.
//
// The client owns authentication headers, pagination and client-side rate
// limiting; callers see flat slices of domain types.
package qonto
