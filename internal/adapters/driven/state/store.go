// Package state persists the sync state as a single JSON object stored
// under a well-known name at the destination backend's root. Keeping the
// state next to the synced files means every destination carries its own
// history, and a fresh destination naturally starts empty.
package state

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/qontosync/internal/core/domain"
	"github.com/custodia-labs/qontosync/internal/core/ports/driven"
	"github.com/custodia-labs/qontosync/internal/logger"
)

// DefaultObjectName is the well-known state object at the backend root.
// The leading dot keeps it out of the way in directory listings.
const DefaultObjectName = ".sync_state.json"

// Ensure Store implements the port.
var _ driven.StateStore = (*Store)(nil)

// Store reads and writes the state blob through a Backend.
type Store struct {
	backend driven.Backend
	name    string
}

// New creates a store persisting under DefaultObjectName.
func New(backend driven.Backend) *Store {
	return &Store{backend: backend, name: DefaultObjectName}
}

// Load returns the persisted state. It fails open: a missing object, an
// unreadable object or undecodable JSON all yield an empty state with a
// warning, never an error. The run then re-fetches everything, which the
// upsert Write keeps harmless.
func (s *Store) Load(ctx context.Context) domain.SyncState {
	data, err := s.backend.Read(ctx, s.name, s.backend.Root())
	if err != nil {
		if !domain.IsNotFound(err) {
			logger.Warn("Reading sync state failed, starting empty: %v", err)
		}
		return make(domain.SyncState)
	}

	// Decode record by record so one malformed entry costs only itself,
	// not the whole state.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("Sync state is corrupt, starting empty: %v", err)
		return make(domain.SyncState)
	}

	result := make(domain.SyncState, len(raw))
	for id, blob := range raw {
		var rec domain.StateRecord
		if err := json.Unmarshal(blob, &rec); err != nil {
			logger.Warn("Dropping unreadable state record %s: %v", id, err)
			continue
		}
		result[id] = rec
	}
	return result
}

// Save persists the full state, overwriting the previous blob.
func (s *Store) Save(ctx context.Context, syncState domain.SyncState) error {
	data, err := json.MarshalIndent(syncState, "", "  ")
	if err != nil {
		return err
	}
	return s.backend.Write(ctx, s.name, s.backend.Root(), data)
}
