// Package local implements the driven.Backend port on the local
// filesystem. Containers are subdirectories of a root output directory;
// object identities are absolute paths.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/qontosync/internal/core/domain"
	"github.com/custodia-labs/qontosync/internal/core/ports/driven"
)

// Ensure Backend implements the port.
var _ driven.Backend = (*Backend)(nil)

// Backend stores synchronised attachments under a root directory.
type Backend struct {
	root string
}

// New creates the root directory if needed and returns the backend.
// An unusable root is a fatal configuration error.
func New(root string) (*Backend, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve output dir %q: %w", domain.ErrConfig, root, err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return nil, fmt.Errorf("%w: create output dir %q: %w", domain.ErrConfig, abs, err)
	}
	return &Backend{root: abs}, nil
}

// Exists reports whether a file named name lives in parent.
func (b *Backend) Exists(_ context.Context, name, parent string) (string, error) {
	path := filepath.Join(parent, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return path, nil
}

// Write upserts a file. The bytes land in a temporary sibling first and
// are moved into place, so a crash never leaves a partial object under
// the final name.
func (b *Backend) Write(_ context.Context, name, parent string, data []byte) error {
	if err := os.MkdirAll(parent, 0o700); err != nil {
		return fmt.Errorf("create container %s: %w", parent, err)
	}

	path := filepath.Join(parent, name)
	tmp := path + ".partial"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit %s: %w", path, err)
	}
	return nil
}

// Rename moves a file within parent.
func (b *Backend) Rename(_ context.Context, oldName, newName, parent string) error {
	oldPath := filepath.Join(parent, oldName)
	newPath := filepath.Join(parent, newName)
	if err := os.Rename(oldPath, newPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, oldPath)
		}
		return fmt.Errorf("rename %s: %w", oldPath, err)
	}
	return nil
}

// Read returns a file's bytes.
func (b *Backend) Read(_ context.Context, name, parent string) ([]byte, error) {
	path := filepath.Join(parent, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// EnsureContainer creates a subdirectory of parent. Idempotent.
func (b *Backend) EnsureContainer(_ context.Context, name, parent string) (string, error) {
	path := filepath.Join(parent, name)
	if err := os.MkdirAll(path, 0o700); err != nil {
		return "", fmt.Errorf("create container %s: %w", path, err)
	}
	return path, nil
}

// Root returns the configured output directory.
func (b *Backend) Root() string { return b.root }

// Location describes the destination for run output.
func (b *Backend) Location() string { return "local directory " + b.root }

// ContainerLink returns "" - directories have no web UI.
func (b *Backend) ContainerLink(string) string { return "" }
