package driving

import (
	"context"

	"github.com/custodia-labs/capsql/internal/core/domain"
)

// DatabaseService is the host plugin contract: named database sessions over
// an in-memory SQL engine, checkpointed to a snapshot store on request.
//
// Every name-scoped operation other than CreateConnection fails with
// domain.ErrUnknownDatabase when the name has no open connection.
type DatabaseService interface {
	// Initialize loads the SQL engine. It must complete before CreateConnection.
	Initialize(ctx context.Context) error

	// CreateConnection opens a database, loading its snapshot when one exists
	// and persisting an empty snapshot when none does. No-op if already open.
	CreateConnection(ctx context.Context, database string) error

	// Open acknowledges an open connection.
	Open(ctx context.Context, database string) error

	// Close releases the connection without saving.
	Close(ctx context.Context, database string) error

	// CloseConnection is an alias of Close.
	CloseConnection(ctx context.Context, database string) error

	// SaveToStore writes the database image to the snapshot store.
	SaveToStore(ctx context.Context, database string) error

	// Execute runs raw SQL statements in order and reports the changes of the last one.
	Execute(ctx context.Context, database string, statements []string) (domain.Changes, error)

	// ExecuteSet runs a statement set and reports the summed changes.
	ExecuteSet(ctx context.Context, database string, set []domain.Statement) (domain.Changes, error)

	// Run executes a single statement with bound values.
	Run(ctx context.Context, database, statement string, values []domain.Value) (domain.Changes, error)

	// Query returns every row produced by a statement.
	Query(ctx context.Context, database, statement string, values []domain.Value) ([]domain.Row, error)

	// IsTableExists reports whether a table exists in the database.
	IsTableExists(ctx context.Context, database, table string) (bool, error)

	// CheckConnectionsConsistency acknowledges the host's connection list.
	CheckConnectionsConsistency(ctx context.Context, databases, openModes []string) (bool, error)

	// Echo returns its input.
	Echo(ctx context.Context, value string) (string, error)
}

// SnapshotCatalog lists persisted and open databases.
type SnapshotCatalog interface {
	// Databases returns the names with a saved snapshot.
	Databases(ctx context.Context) ([]string, error)

	// OpenDatabases returns the names with an open connection, sorted.
	OpenDatabases() []string
}
