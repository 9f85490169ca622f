package driven

import "context"

// Backend is a destination store for synchronised attachments.
//
// A parent is an opaque container identity whose shape is backend
// specific: an absolute directory path for the local filesystem, a folder
// id for Google Drive, a key prefix for S3. Callers obtain parents from
// Root and EnsureContainer and pass them back verbatim; no backend
// specific branching may happen above this interface.
//
// Failures are classified with the domain sentinels: domain.ErrNotFound
// for missing objects, domain.ErrConfig for fatal misconfiguration,
// domain.ErrTransient for retryable I/O.
type Backend interface {
	// Exists reports whether an object named name lives in parent,
	// returning its backend identity, or domain.ErrNotFound.
	Exists(ctx context.Context, name, parent string) (string, error)

	// Write upserts an object: it creates the object when absent and
	// overwrites it in place when present. It must never produce two
	// objects of the same name in the same parent, and a failed write
	// must not leave a partial object under name.
	Write(ctx context.Context, name, parent string, data []byte) error

	// Rename moves an object within parent. A missing source object is
	// reported as domain.ErrNotFound, distinct from other failures, so
	// the caller can fall back to a fresh transfer.
	Rename(ctx context.Context, oldName, newName, parent string) error

	// Read returns an object's bytes, or domain.ErrNotFound.
	Read(ctx context.Context, name, parent string) ([]byte, error)

	// EnsureContainer creates the named child container of parent if it
	// does not exist and returns its identity. Idempotent.
	EnsureContainer(ctx context.Context, name, parent string) (string, error)

	// Root returns the identity of the configured root container.
	Root() string

	// Location describes the destination for logs and run output.
	Location() string

	// ContainerLink returns an external browser link for a container
	// identity, or "" when the backend has no web UI.
	ContainerLink(id string) string
}
