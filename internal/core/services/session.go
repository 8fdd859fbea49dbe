package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/capsql/internal/core/domain"
	"github.com/custodia-labs/capsql/internal/core/ports/driven"
	"github.com/custodia-labs/capsql/internal/core/ports/driving"
	"github.com/custodia-labs/capsql/internal/logger"
)

// tableExistsSQL looks a table up in the schema catalog.
const tableExistsSQL = "SELECT name FROM sqlite_master WHERE type='table' AND name=?"

// Ensure SessionManager implements the interfaces.
var (
	_ driving.DatabaseService = (*SessionManager)(nil)
	_ driving.SnapshotCatalog = (*SessionManager)(nil)
)

// SessionManager owns the registry of open databases and mediates every
// read and write against them and the snapshot store.
//
// Snapshots are written only by SaveToStore and by the first
// CreateConnection of a new name. They may lag the in-memory database.
type SessionManager struct {
	engine driven.SQLEngine
	store  driven.SnapshotStore

	initMu sync.Mutex
	ready  atomic.Bool

	mu       sync.RWMutex
	sessions map[string]driven.DatabaseHandle

	queue *nameQueue
}

// NewSessionManager creates a session manager.
// Initialize must be called before any connection is created.
func NewSessionManager(engine driven.SQLEngine, store driven.SnapshotStore) *SessionManager {
	return &SessionManager{
		engine:   engine,
		store:    store,
		sessions: make(map[string]driven.DatabaseHandle),
		queue:    newNameQueue(),
	}
}

// Initialize loads the SQL engine once. Concurrent callers wait for the
// first attempt; a failed attempt may be retried.
func (m *SessionManager) Initialize(ctx context.Context) error {
	m.initMu.Lock()
	defer m.initMu.Unlock()

	if m.ready.Load() {
		return nil
	}
	if err := m.engine.Init(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInitialization, err)
	}
	m.ready.Store(true)

	logger.Info("SQL engine ready (sqlite %s)", m.engine.Version())
	return nil
}

// CreateConnection opens a database. An existing snapshot is loaded;
// otherwise a new empty database is created and its snapshot written.
// Calling it for an open name does nothing.
func (m *SessionManager) CreateConnection(ctx context.Context, database string) error {
	if database == "" {
		return fmt.Errorf("%w: database name is required", domain.ErrInvalidInput)
	}
	if !m.ready.Load() {
		return fmt.Errorf("%w: engine not initialized", domain.ErrInitialization)
	}

	release, err := m.queue.acquire(ctx, database)
	if err != nil {
		return err
	}
	defer release()

	if _, err := m.handle(database); err == nil {
		logger.Debug("connection %q already open", database)
		return nil
	}

	snap, err := m.store.Get(ctx, database)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h, err := m.createEmpty(ctx, database)
		if err != nil {
			return err
		}
		m.register(database, h)
		logger.Info("created database %q", database)
		return nil
	case err != nil:
		return fmt.Errorf("reading snapshot %q: %w", database, err)
	}

	h, err := m.engine.Load(ctx, snap.Data)
	if err != nil {
		return fmt.Errorf("loading database %q: %w", database, err)
	}
	m.register(database, h)
	logger.Info("loaded database %q from snapshot (%d bytes)", database, len(snap.Data))
	return nil
}

func (m *SessionManager) createEmpty(ctx context.Context, database string) (driven.DatabaseHandle, error) {
	h, err := m.engine.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating database %q: %w", database, err)
	}

	image, err := h.Export(ctx)
	if err == nil {
		_, err = m.store.Set(ctx, database, image)
	}
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("persisting database %q: %w", database, err)
	}
	return h, nil
}

// Open acknowledges an open connection. There is no opened state distinct
// from being registered.
func (m *SessionManager) Open(_ context.Context, database string) error {
	_, err := m.handle(database)
	return err
}

// Close releases the database without saving it.
func (m *SessionManager) Close(ctx context.Context, database string) error {
	release, err := m.queue.acquire(ctx, database)
	if err != nil {
		return err
	}
	defer release()

	m.mu.Lock()
	h, ok := m.sessions[database]
	if ok {
		delete(m.sessions, database)
	}
	m.mu.Unlock()

	if !ok {
		return unknownDatabase(database)
	}
	if err := h.Close(); err != nil {
		return fmt.Errorf("closing database %q: %w", database, err)
	}

	logger.Info("closed database %q", database)
	return nil
}

// CloseConnection is an alias of Close.
func (m *SessionManager) CloseConnection(ctx context.Context, database string) error {
	return m.Close(ctx, database)
}

// SaveToStore exports the database image and overwrites its snapshot.
func (m *SessionManager) SaveToStore(ctx context.Context, database string) error {
	return m.withHandle(ctx, database, func(h driven.DatabaseHandle) error {
		image, err := h.Export(ctx)
		if err != nil {
			return fmt.Errorf("exporting database %q: %w", database, err)
		}

		snap, err := m.store.Set(ctx, database, image)
		if err != nil {
			return fmt.Errorf("saving database %q: %w", database, err)
		}

		logger.Info("saved database %q (%d bytes, revision %s)", database, len(image), snap.Revision)
		return nil
	})
}

// Execute runs raw statements in order and stops at the first failure.
// The result holds the changes of the last statement only.
func (m *SessionManager) Execute(ctx context.Context, database string, statements []string) (domain.Changes, error) {
	var result domain.Changes
	err := m.withHandle(ctx, database, func(h driven.DatabaseHandle) error {
		for _, stmt := range statements {
			changes, err := h.Exec(ctx, stmt)
			if err != nil {
				return &domain.StatementError{Err: err}
			}
			result = changes
		}
		return nil
	})
	return result, err
}

// ExecuteSet runs a statement set in order and stops at the first failure.
// The result sums the rows modified by every statement.
func (m *SessionManager) ExecuteSet(ctx context.Context, database string, set []domain.Statement) (domain.Changes, error) {
	var total domain.Changes
	err := m.withHandle(ctx, database, func(h driven.DatabaseHandle) error {
		for _, stmt := range set {
			values := domain.Sanitize(stmt.Values)
			changes, err := h.Run(ctx, stmt.SQL, values)
			if err != nil {
				return &domain.StatementError{Statement: stmt.SQL, Values: values, Err: err}
			}
			total.Changes += changes.Changes
			total.LastID = changes.LastID
		}
		return nil
	})
	if err != nil {
		return domain.Changes{}, err
	}

	logger.Debug("executed %d statement(s) on %q: %d change(s)", len(set), database, total.Changes)
	return total, nil
}

// Run executes a single statement with bound values.
func (m *SessionManager) Run(
	ctx context.Context,
	database, statement string,
	values []domain.Value,
) (domain.Changes, error) {
	return m.ExecuteSet(ctx, database, []domain.Statement{{SQL: statement, Values: values}})
}

// Query returns every row produced by a statement.
func (m *SessionManager) Query(
	ctx context.Context,
	database, statement string,
	values []domain.Value,
) ([]domain.Row, error) {
	var rows []domain.Row
	err := m.withHandle(ctx, database, func(h driven.DatabaseHandle) error {
		var err error
		rows, err = h.Query(ctx, statement, domain.Sanitize(values))
		if err != nil {
			logger.Warn("query on %q failed: %v", database, err)
			return &domain.StatementError{Err: err}
		}
		return nil
	})
	return rows, err
}

// IsTableExists reports whether a table exists, using Query.
func (m *SessionManager) IsTableExists(ctx context.Context, database, table string) (bool, error) {
	rows, err := m.Query(ctx, database, tableExistsSQL, []domain.Value{table})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// CheckConnectionsConsistency acknowledges the host's view of its
// connections. No check is performed.
func (m *SessionManager) CheckConnectionsConsistency(_ context.Context, _, _ []string) (bool, error) {
	return true, nil
}

// Echo returns its input.
func (m *SessionManager) Echo(_ context.Context, value string) (string, error) {
	return value, nil
}

// Databases lists the names that have a saved snapshot.
func (m *SessionManager) Databases(ctx context.Context) ([]string, error) {
	return m.store.Keys(ctx)
}

// OpenDatabases lists the registered names, sorted.
func (m *SessionManager) OpenDatabases() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sessions))
	for name := range m.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shutdown closes every open database without saving.
func (m *SessionManager) Shutdown(ctx context.Context) error {
	var errs []error
	for _, name := range m.OpenDatabases() {
		if err := m.Close(ctx, name); err != nil && !errors.Is(err, domain.ErrUnknownDatabase) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// withHandle runs fn with exclusive use of the named database.
func (m *SessionManager) withHandle(
	ctx context.Context,
	database string,
	fn func(driven.DatabaseHandle) error,
) error {
	release, err := m.queue.acquire(ctx, database)
	if err != nil {
		return err
	}
	defer release()

	h, err := m.handle(database)
	if err != nil {
		return err
	}
	return fn(h)
}

func (m *SessionManager) handle(database string) (driven.DatabaseHandle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.sessions[database]
	if !ok {
		return nil, unknownDatabase(database)
	}
	return h, nil
}

func (m *SessionManager) register(database string, h driven.DatabaseHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[database] = h
}

func unknownDatabase(database string) error {
	return fmt.Errorf("%w: %q", domain.ErrUnknownDatabase, database)
}
