package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/capsql/internal/core/domain"
	"github.com/custodia-labs/capsql/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory implementation of driven.SnapshotStore.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
	writes    int
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[string]domain.Snapshot),
	}
}

// Get retrieves the snapshot for a name.
func (s *SnapshotStore) Get(_ context.Context, name string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	snap.Data = append([]byte{}, snap.Data...)
	return &snap, nil
}

// Set stores a copy of data under name.
func (s *SnapshotStore) Set(_ context.Context, name string, data []byte) (*domain.Snapshot, error) {
	snap := domain.Snapshot{
		Name:     name,
		Data:     append([]byte{}, data...),
		Revision: uuid.NewString(),
		SavedAt:  time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[name] = snap
	s.writes++

	snap.Data = append([]byte{}, data...)
	return &snap, nil
}

// Keys lists stored names, sorted.
func (s *SnapshotStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.snapshots))
	for k := range s.snapshots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Writes returns how many times Set has been called.
func (s *SnapshotStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Close is a no-op for the memory store.
func (s *SnapshotStore) Close() error {
	return nil
}
