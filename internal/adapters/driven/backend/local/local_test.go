package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qontosync/internal/core/domain"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := New(filepath.Join(t.TempDir(), "receipts"))
	require.NoError(t, err)
	return b
}

func TestNewCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "receipts")
	b, err := New(root)
	require.NoError(t, err)

	info, err := os.Stat(b.Root())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.True(t, filepath.IsAbs(b.Root()))
}

func TestWriteAndRead(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	parent, err := b.EnsureContainer(ctx, "2025-06", b.Root())
	require.NoError(t, err)

	require.NoError(t, b.Write(ctx, "a.pdf", parent, []byte("v1")))

	data, err := b.Read(ctx, "a.pdf", parent)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)

	// Writing again replaces the content.
	require.NoError(t, b.Write(ctx, "a.pdf", parent, []byte("v2")))
	data, err = b.Read(ctx, "a.pdf", parent)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
}

func TestWriteLeavesNoPartialFile(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Write(ctx, "a.pdf", b.Root(), []byte("bytes")))

	entries, err := os.ReadDir(b.Root())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.pdf", entries[0].Name())
}

func TestExists(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	_, err := b.Exists(ctx, "a.pdf", b.Root())
	assert.True(t, domain.IsNotFound(err))

	require.NoError(t, b.Write(ctx, "a.pdf", b.Root(), []byte("bytes")))
	path, err := b.Exists(ctx, "a.pdf", b.Root())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(b.Root(), "a.pdf"), path)
}

func TestRename(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Write(ctx, "old.pdf", b.Root(), []byte("bytes")))
	require.NoError(t, b.Rename(ctx, "old.pdf", "new.pdf", b.Root()))

	_, err := b.Exists(ctx, "old.pdf", b.Root())
	assert.True(t, domain.IsNotFound(err))
	data, err := b.Read(ctx, "new.pdf", b.Root())
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), data)
}

func TestRenameMissingSource(t *testing.T) {
	b := newTestBackend(t)
	err := b.Rename(context.Background(), "missing.pdf", "new.pdf", b.Root())
	assert.True(t, domain.IsNotFound(err))
}

func TestReadMissing(t *testing.T) {
	b := newTestBackend(t)
	_, err := b.Read(context.Background(), "missing.pdf", b.Root())
	assert.True(t, domain.IsNotFound(err))
}

func TestEnsureContainerIdempotent(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	first, err := b.EnsureContainer(ctx, "2025-06", b.Root())
	require.NoError(t, err)
	second, err := b.EnsureContainer(ctx, "2025-06", b.Root())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLocationAndLink(t *testing.T) {
	b := newTestBackend(t)
	assert.Contains(t, b.Location(), b.Root())
	assert.Empty(t, b.ContainerLink("anything"))
}
