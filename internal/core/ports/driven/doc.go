// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Source: Lists transactions, attachments and labels, fetches bytes
//   - Backend: The destination store (local filesystem, Drive, S3)
//   - StateStore: Persisted sync state
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Notifier: Posts a run summary to a chat channel. Without it, runs
//     only report to the terminal.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
