package driven

import (
	"context"

	"github.com/custodia-labs/capsql/internal/core/domain"
)

// SnapshotStore persists database images keyed by database name.
type SnapshotStore interface {
	// Get retrieves the snapshot for a name.
	// Returns domain.ErrNotFound if none was saved.
	Get(ctx context.Context, name string) (*domain.Snapshot, error)

	// Set writes the image for a name, replacing any earlier snapshot.
	// Returns the stored snapshot with its new revision.
	Set(ctx context.Context, name string, data []byte) (*domain.Snapshot, error)

	// Keys lists the names that have a snapshot, sorted.
	Keys(ctx context.Context) ([]string, error)

	// Close releases the store.
	Close() error
}
