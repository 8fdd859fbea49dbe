package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/capsql/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/capsql/internal/core/domain"
	"github.com/custodia-labs/capsql/internal/core/ports/driven"
)

// mockEngine delegates to a real engine while counting and optionally
// failing Init calls.
type mockEngine struct {
	driven.SQLEngine

	mu        sync.Mutex
	initErrs  []error
	initCalls atomic.Int32
	newErr    error
}

func (m *mockEngine) Init(ctx context.Context) error {
	m.initCalls.Add(1)
	m.mu.Lock()
	if len(m.initErrs) > 0 {
		err := m.initErrs[0]
		m.initErrs = m.initErrs[1:]
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()
	return m.SQLEngine.Init(ctx)
}

func (m *mockEngine) New(ctx context.Context) (driven.DatabaseHandle, error) {
	if m.newErr != nil {
		return nil, m.newErr
	}
	return m.SQLEngine.New(ctx)
}

// failingStore wraps a memory store and can fail individual calls.
type failingStore struct {
	*memory.SnapshotStore
	getErr error
	setErr error
}

func (f *failingStore) Get(ctx context.Context, name string) (*domain.Snapshot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.SnapshotStore.Get(ctx, name)
}

func (f *failingStore) Set(ctx context.Context, name string, data []byte) (*domain.Snapshot, error) {
	if f.setErr != nil {
		return nil, f.setErr
	}
	return f.SnapshotStore.Set(ctx, name, data)
}
