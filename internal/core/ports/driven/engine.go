package driven

import (
	"context"

	"github.com/custodia-labs/capsql/internal/core/domain"
)

// SQLEngine loads the in-memory SQL runtime and creates database handles.
// Init must succeed before New or Load are called.
type SQLEngine interface {
	// Init loads the engine runtime. It is called once per process.
	Init(ctx context.Context) error

	// Version returns the engine version. Empty before Init.
	Version() string

	// New creates an empty in-memory database.
	New(ctx context.Context) (DatabaseHandle, error)

	// Load creates an in-memory database from a serialised image.
	// An empty image yields an empty database.
	Load(ctx context.Context, image []byte) (DatabaseHandle, error)
}

// DatabaseHandle is one open in-memory database.
// Handles are not safe for concurrent use; callers serialise access.
type DatabaseHandle interface {
	// Exec runs raw SQL without parameters. The text may hold several
	// statements separated by semicolons.
	Exec(ctx context.Context, sql string) (domain.Changes, error)

	// Run executes a single statement with bound values.
	// Values must already be sanitised.
	Run(ctx context.Context, sql string, values []domain.Value) (domain.Changes, error)

	// Query executes a statement with bound values and returns every row.
	// Values must already be sanitised.
	Query(ctx context.Context, sql string, values []domain.Value) ([]domain.Row, error)

	// Export serialises the full database image.
	Export(ctx context.Context) ([]byte, error)

	// Close releases engine resources. The handle is unusable afterwards.
	Close() error
}
