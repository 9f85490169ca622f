package domain

import "errors"

// Error taxonomy. Adapters classify their failures into one of these
// sentinels (via %w wrapping) so the orchestrator can react uniformly
// without knowing which backend or client produced the error.
var (
	// ErrNotFound indicates a requested object does not exist at the
	// backend. Reported distinctly so a failed rename can fall back to a
	// fresh transfer instead of aborting.
	ErrNotFound = errors.New("not found")

	// ErrConfig indicates a fatal configuration problem (bad credentials,
	// unreachable destination container). Never retried.
	ErrConfig = errors.New("configuration error")

	// ErrTransient indicates a transient I/O failure (network hiccup,
	// throttling, 5xx). Safe to retry with bounded attempts.
	ErrTransient = errors.New("transient error")
)

// IsNotFound reports whether err denotes a missing object.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConfig reports whether err is a fatal configuration error.
func IsConfig(err error) bool { return errors.Is(err, ErrConfig) }

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool { return errors.Is(err, ErrTransient) }
