package mcp

import (
	"context"

	"github.com/custodia-labs/capsql/internal/core/domain"
)

// mockDatabaseService is a mock implementation of driving.DatabaseService.
// It records the last call's arguments.
type mockDatabaseService struct {
	err     error
	changes domain.Changes
	rows    []domain.Row
	exists  bool

	calls      []string
	database   string
	statements []string
	set        []domain.Statement
	statement  string
	values     []domain.Value
	table      string
}

func (m *mockDatabaseService) record(op, database string) {
	m.calls = append(m.calls, op)
	m.database = database
}

func (m *mockDatabaseService) Initialize(_ context.Context) error {
	m.record("initialize", "")
	return m.err
}

func (m *mockDatabaseService) CreateConnection(_ context.Context, database string) error {
	m.record("createConnection", database)
	return m.err
}

func (m *mockDatabaseService) Open(_ context.Context, database string) error {
	m.record("open", database)
	return m.err
}

func (m *mockDatabaseService) Close(_ context.Context, database string) error {
	m.record("close", database)
	return m.err
}

func (m *mockDatabaseService) CloseConnection(_ context.Context, database string) error {
	m.record("closeConnection", database)
	return m.err
}

func (m *mockDatabaseService) SaveToStore(_ context.Context, database string) error {
	m.record("saveToStore", database)
	return m.err
}

func (m *mockDatabaseService) Execute(_ context.Context, database string, statements []string) (domain.Changes, error) {
	m.record("execute", database)
	m.statements = statements
	return m.changes, m.err
}

func (m *mockDatabaseService) ExecuteSet(
	_ context.Context,
	database string,
	set []domain.Statement,
) (domain.Changes, error) {
	m.record("executeSet", database)
	m.set = set
	return m.changes, m.err
}

func (m *mockDatabaseService) Run(
	_ context.Context,
	database, statement string,
	values []domain.Value,
) (domain.Changes, error) {
	m.record("run", database)
	m.statement = statement
	m.values = values
	return m.changes, m.err
}

func (m *mockDatabaseService) Query(
	_ context.Context,
	database, statement string,
	values []domain.Value,
) ([]domain.Row, error) {
	m.record("query", database)
	m.statement = statement
	m.values = values
	return m.rows, m.err
}

func (m *mockDatabaseService) IsTableExists(_ context.Context, database, table string) (bool, error) {
	m.record("isTableExists", database)
	m.table = table
	return m.exists, m.err
}

func (m *mockDatabaseService) CheckConnectionsConsistency(_ context.Context, _, _ []string) (bool, error) {
	m.record("checkConnectionsConsistency", "")
	return true, m.err
}

func (m *mockDatabaseService) Echo(_ context.Context, value string) (string, error) {
	m.record("echo", "")
	return value, m.err
}

// mockCatalog is a mock implementation of driving.SnapshotCatalog.
type mockCatalog struct {
	saved []string
	open  []string
	err   error
}

func (m *mockCatalog) Databases(_ context.Context) ([]string, error) {
	return m.saved, m.err
}

func (m *mockCatalog) OpenDatabases() []string {
	return m.open
}
