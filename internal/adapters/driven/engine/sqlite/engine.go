package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/capsql/internal/core/ports/driven"
)

const (
	driverName = "sqlite"
	memoryDSN  = ":memory:"
)

// errNoSerialization is returned when the driver connection lacks the
// serialize extension.
var errNoSerialization = errors.New("sqlite driver does not support serialization")

// serializer and deserializer are the modernc connection extensions.
type serializer interface {
	Serialize() ([]byte, error)
}

type deserializer interface {
	Deserialize(buf []byte) error
}

// Ensure Engine implements the interface.
var _ driven.SQLEngine = (*Engine)(nil)

// Engine creates in-memory SQLite databases.
type Engine struct {
	mu      sync.RWMutex
	version string
}

// NewEngine creates an engine. Call Init before creating handles.
func NewEngine() *Engine {
	return &Engine{}
}

// Init probes the runtime by opening a scratch database and reading its version.
func (e *Engine) Init(ctx context.Context) error {
	db, err := sql.Open(driverName, memoryDSN)
	if err != nil {
		return fmt.Errorf("opening probe database: %w", err)
	}
	defer db.Close()

	var version string
	if err := db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return fmt.Errorf("probing sqlite runtime: %w", err)
	}

	e.mu.Lock()
	e.version = version
	e.mu.Unlock()
	return nil
}

// Version returns the SQLite library version, or empty before Init.
func (e *Engine) Version() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.version
}

// New creates an empty in-memory database.
func (e *Engine) New(ctx context.Context) (driven.DatabaseHandle, error) {
	return openHandle(ctx, nil)
}

// Load creates an in-memory database from a serialised image.
func (e *Engine) Load(ctx context.Context, image []byte) (driven.DatabaseHandle, error) {
	return openHandle(ctx, image)
}

func openHandle(ctx context.Context, image []byte) (*Handle, error) {
	db, err := sql.Open(driverName, memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A :memory: database belongs to one connection; never let the pool open a second.
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}

	if len(image) > 0 {
		err := conn.Raw(func(driverConn any) error {
			d, ok := driverConn.(deserializer)
			if !ok {
				return errNoSerialization
			}
			return d.Deserialize(image)
		})
		if err != nil {
			conn.Close()
			db.Close()
			return nil, fmt.Errorf("restoring image: %w", err)
		}
	}

	return &Handle{db: db, conn: conn}, nil
}
