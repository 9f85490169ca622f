// Package domain defines the core business entities for qontosync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: One remote attachment belonging to a Transaction
//   - Transaction: The business record an attachment is filed under
//   - Fingerprint: The (size, created-at) change-detection signature
//   - StateRecord / SyncState: The persisted last-synchronised mapping
//   - Action: One reconciliation decision (fetch, rename, skip)
//   - Summary: The aggregated outcome of a run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
