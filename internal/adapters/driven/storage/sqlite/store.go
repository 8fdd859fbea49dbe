package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/capsql/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/capsql/internal/core/domain"
	"github.com/custodia-labs/capsql/internal/core/ports/driven"
	"github.com/custodia-labs/capsql/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

// Store keeps database snapshots in one collection of a SQLite file.
type Store struct {
	db        *sqlx.DB
	path      string
	storeName string
}

// snapshotRow mirrors a row of the snapshots table.
type snapshotRow struct {
	Name     string `db:"name"`
	Data     []byte `db:"data"`
	Revision string `db:"revision"`
	SavedAt  string `db:"saved_at"`
}

// NewStore opens the store instance called name inside dataDir and selects
// the storeName collection. If dataDir is empty, defaults to ~/.capsql/data.
func NewStore(dataDir, name, storeName string) (*Store, error) {
	if name == "" || storeName == "" {
		return nil, fmt.Errorf("%w: store name and collection are required", domain.ErrInvalidInput)
	}

	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".capsql", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, name+".db")

	// Open database with WAL mode for better concurrency
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:        db,
		path:      dbPath,
		storeName: storeName,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Get retrieves the snapshot for a name.
func (s *Store) Get(ctx context.Context, name string) (*domain.Snapshot, error) {
	var row snapshotRow
	err := s.db.GetContext(ctx, &row, `
		SELECT name, data, revision, saved_at
		FROM snapshots WHERE store_name = ? AND name = ?
	`, s.storeName, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting snapshot: %w", err)
	}
	return row.toDomain()
}

// Set writes data under name, replacing any earlier snapshot.
func (s *Store) Set(ctx context.Context, name string, data []byte) (*domain.Snapshot, error) {
	snap := domain.Snapshot{
		Name:     name,
		Data:     data,
		Revision: uuid.NewString(),
		SavedAt:  time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (store_name, name, data, revision, saved_at, size)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(store_name, name) DO UPDATE SET
			data = excluded.data,
			revision = excluded.revision,
			saved_at = excluded.saved_at,
			size = excluded.size
	`, s.storeName, name, data, snap.Revision, snap.SavedAt.Format(time.RFC3339Nano), len(data))
	if err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}
	return &snap, nil
}

// Keys lists the names stored in this collection, sorted.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	keys := []string{}
	err := s.db.SelectContext(ctx, &keys, `
		SELECT name FROM snapshots WHERE store_name = ? ORDER BY name
	`, s.storeName)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return keys, nil
}

// Size returns the stored byte length for a name.
func (s *Store) Size(ctx context.Context, name string) (int64, error) {
	var size int64
	err := s.db.GetContext(ctx, &size, `
		SELECT size FROM snapshots WHERE store_name = ? AND name = ?
	`, s.storeName, name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("getting snapshot size: %w", err)
	}
	return size, nil
}

func (r snapshotRow) toDomain() (*domain.Snapshot, error) {
	savedAt, err := time.Parse(time.RFC3339Nano, r.SavedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing saved_at: %w", err)
	}
	data := r.Data
	if data == nil {
		data = []byte{}
	}
	return &domain.Snapshot{
		Name:     r.Name,
		Data:     data,
		Revision: r.Revision,
		SavedAt:  savedAt,
	}, nil
}

// migration is one numbered .up.sql file.
type migration struct {
	version int
	file    string
}

// pendingMigrations lists the .up.sql files in fsys newer than applied, oldest first.
func pendingMigrations(fsys fs.FS, applied int) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}

	var pending []migration
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= applied {
			continue
		}
		pending = append(pending, migration{version: version, file: name})
	}

	slices.SortFunc(pending, func(a, b migration) int { return a.version - b.version })
	return pending, nil
}

// migrate applies pending migrations, each in its own transaction together
// with its schema_migrations row.
func (s *Store) migrate(fsys fs.FS) error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var applied int
	if err := s.db.Get(&applied, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	pending, err := pendingMigrations(fsys, applied)
	if err != nil {
		return err
	}

	for _, m := range pending {
		script, err := fs.ReadFile(fsys, m.file)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", m.file, err)
		}

		tx, err := s.db.Beginx()
		if err != nil {
			return fmt.Errorf("starting migration %s: %w", m.file, err)
		}
		if _, err := tx.Exec(string(script)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("applying migration %s: %w", m.file, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", m.file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", m.file, err)
		}
		logger.Debug("applied snapshot store migration %s", m.file)
	}

	return nil
}
