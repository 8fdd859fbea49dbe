package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	sqlengine "github.com/custodia-labs/capsql/internal/adapters/driven/engine/sqlite"
	"github.com/custodia-labs/capsql/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/capsql/internal/core/services"
)

// setupTestServices installs a session manager over an in-memory snapshot
// store and an in-memory config store.
func setupTestServices(t *testing.T) (*memory.SnapshotStore, func()) {
	t.Helper()

	store := memory.NewSnapshotStore()
	manager := services.NewSessionManager(sqlengine.NewEngine(), store)
	require.NoError(t, manager.Initialize(context.Background()))

	databaseService = manager
	catalog = manager
	configStore = memory.NewConfigStore()

	return store, func() {
		_ = manager.Shutdown(context.Background())
		databaseService = nil
		catalog = nil
		configStore = nil
		queryJSON = false
	}
}

// executeCommand runs the root command with args and captures its output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
