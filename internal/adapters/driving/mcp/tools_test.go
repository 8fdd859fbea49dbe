package mcp

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/capsql/internal/core/domain"
)

func setupServer(t *testing.T, db *mockDatabaseService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Database: db})
	require.NoError(t, err)
	return server
}

func TestServer_LifecycleTools(t *testing.T) {
	ctx := context.Background()
	db := &mockDatabaseService{}
	server := setupServer(t, db)
	input := DatabaseInput{Database: "app"}

	_, out, err := server.handleInitialize(ctx, nil, struct{}{})
	require.NoError(t, err)
	assert.True(t, out.OK)

	for _, call := range []func() (AckOutput, error){
		func() (AckOutput, error) { _, o, err := server.handleCreateConnection(ctx, nil, input); return o, err },
		func() (AckOutput, error) { _, o, err := server.handleOpen(ctx, nil, input); return o, err },
		func() (AckOutput, error) { _, o, err := server.handleSaveToStore(ctx, nil, input); return o, err },
		func() (AckOutput, error) { _, o, err := server.handleClose(ctx, nil, input); return o, err },
		func() (AckOutput, error) { _, o, err := server.handleCloseConnection(ctx, nil, input); return o, err },
	} {
		out, err := call()
		require.NoError(t, err)
		assert.True(t, out.OK)
		assert.Equal(t, "app", db.database)
	}

	assert.Equal(t, []string{
		"initialize", "createConnection", "open", "saveToStore", "close", "closeConnection",
	}, db.calls)
}

func TestServer_LifecycleTools_Error(t *testing.T) {
	db := &mockDatabaseService{err: domain.ErrUnknownDatabase}
	server := setupServer(t, db)

	_, out, err := server.handleOpen(context.Background(), nil, DatabaseInput{Database: "ghost"})

	assert.ErrorIs(t, err, domain.ErrUnknownDatabase)
	assert.False(t, out.OK)
}

func TestServer_handleExecute(t *testing.T) {
	db := &mockDatabaseService{changes: domain.Changes{Changes: 2, LastID: 7}}
	server := setupServer(t, db)

	_, out, err := server.handleExecute(context.Background(), nil, ExecuteInput{
		Database:   "app",
		Statements: []string{"CREATE TABLE t(id)", "INSERT INTO t VALUES (1), (2)"},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.Changes{Changes: 2, LastID: 7}, out.Changes)
	assert.Len(t, db.statements, 2)
}

func TestServer_handleExecuteSet(t *testing.T) {
	db := &mockDatabaseService{changes: domain.Changes{Changes: 3}}
	server := setupServer(t, db)

	_, out, err := server.handleExecuteSet(context.Background(), nil, ExecuteSetInput{
		Database: "app",
		Set: []StatementInput{
			{Statement: "INSERT INTO t VALUES (?, ?)", Values: []any{float64(1), "a"}},
			{Statement: "DELETE FROM t"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), out.Changes.Changes)
	require.Len(t, db.set, 2)
	assert.Equal(t, []domain.Value{int64(1), "a"}, db.set[0].Values)
	assert.Nil(t, db.set[1].Values)
}

func TestServer_handleRun_Error(t *testing.T) {
	stmtErr := &domain.StatementError{Statement: "INSERT", Err: errors.New("no such table: t")}
	db := &mockDatabaseService{err: stmtErr}
	server := setupServer(t, db)

	_, out, err := server.handleRun(context.Background(), nil, StatementRequest{
		Database: "app", Statement: "INSERT INTO t VALUES (?)", Values: []any{true},
	})

	assert.ErrorIs(t, err, domain.ErrStatement)
	assert.Equal(t, domain.Changes{}, out.Changes)
	assert.Equal(t, []domain.Value{true}, db.values)
}

func TestServer_handleQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns columns and rows", func(t *testing.T) {
		row := domain.NewRow(2)
		row.Set("id", int64(1))
		row.Set("flag", int64(1))
		db := &mockDatabaseService{rows: []domain.Row{row}}
		server := setupServer(t, db)

		_, out, err := server.handleQuery(ctx, nil, StatementRequest{
			Database: "app", Statement: "SELECT * FROM t WHERE id = ?", Values: []any{float64(1)},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"id", "flag"}, out.Columns)
		assert.Equal(t, []map[string]any{{"id": int64(1), "flag": int64(1)}}, out.Values)
		assert.Equal(t, []domain.Value{int64(1)}, db.values)
	})

	t.Run("no rows", func(t *testing.T) {
		server := setupServer(t, &mockDatabaseService{rows: []domain.Row{}})

		_, out, err := server.handleQuery(ctx, nil, StatementRequest{Database: "app", Statement: "SELECT 1 WHERE 0"})

		require.NoError(t, err)
		assert.Empty(t, out.Columns)
		assert.NotNil(t, out.Values)
		assert.Empty(t, out.Values)
	})

	t.Run("error", func(t *testing.T) {
		server := setupServer(t, &mockDatabaseService{err: domain.ErrUnknownDatabase})

		_, _, err := server.handleQuery(ctx, nil, StatementRequest{Database: "ghost", Statement: "SELECT 1"})

		assert.ErrorIs(t, err, domain.ErrUnknownDatabase)
	})
}

func TestServer_handleIsTableExists(t *testing.T) {
	db := &mockDatabaseService{exists: true}
	server := setupServer(t, db)

	_, out, err := server.handleIsTableExists(context.Background(), nil, TableInput{Database: "app", Table: "users"})

	require.NoError(t, err)
	assert.True(t, out.Result)
	assert.Equal(t, "users", db.table)
}

func TestServer_handleCheckConnectionsConsistency(t *testing.T) {
	server := setupServer(t, &mockDatabaseService{})

	_, out, err := server.handleCheckConnectionsConsistency(context.Background(), nil, ConsistencyInput{
		DBNames: []string{"a"}, OpenModes: []string{"RW"},
	})

	require.NoError(t, err)
	assert.True(t, out.Result)
}

func TestServer_handleEcho(t *testing.T) {
	server := setupServer(t, &mockDatabaseService{})

	_, out, err := server.handleEcho(context.Background(), nil, EchoInput{Value: "hello"})

	require.NoError(t, err)
	assert.Equal(t, "hello", out.Value)
}

func TestBindValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want domain.Value
	}{
		{"integral float", float64(42), int64(42)},
		{"negative integral", float64(-3), int64(-3)},
		{"fraction", 1.5, 1.5},
		{"too large", math.MaxFloat64, math.MaxFloat64},
		{"string", "x", "x"},
		{"bool", true, true},
		{"null", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bindValue(tt.in))
		})
	}
}

func TestBindValues_Nil(t *testing.T) {
	assert.Nil(t, bindValues(nil))
	assert.Equal(t, []domain.Value{}, bindValues([]any{}))
}
