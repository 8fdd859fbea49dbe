// Package cli provides the capsql command-line interface.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/capsql/internal/app"
	"github.com/custodia-labs/capsql/internal/core/ports/driven"
	"github.com/custodia-labs/capsql/internal/core/ports/driving"
	"github.com/custodia-labs/capsql/internal/logger"
)

// Command annotations controlling bootstrap.
const (
	annotationBootstrap = "bootstrap"
	bootstrapNone       = "none"
	bootstrapConfig     = "config"
)

var version = "dev"

var (
	configDir   string
	backendFlag string
	dataDirFlag string
	verbose     bool
)

// Services used by commands. Set by bootstrap, or directly by tests.
var (
	databaseService driving.DatabaseService
	catalog         driving.SnapshotCatalog
	configStore     driven.ConfigStore

	shutdown func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "capsql",
	Short: "Named in-memory SQL databases with snapshot persistence",
	Long: `capsql keeps named SQLite databases in memory and checkpoints them to a
snapshot store on request.

Changes are durable only after a save. Commands that modify a database save
it before exiting; the MCP server leaves saving to the host.`,
	SilenceUsage:      true,
	PersistentPreRunE: bootstrap,
}

func init() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.capsql)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "snapshot store backend: sqlite, filesystem or memory")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "directory for snapshot data (default ~/.capsql/data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command and releases any services it started.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if shutdown != nil {
		err = errors.Join(err, shutdown(ctx))
		shutdown = nil
	}
	return err
}

// bootstrap builds the services a command needs unless they are already set.
func bootstrap(cmd *cobra.Command, _ []string) error {
	if verbose {
		logger.SetVerbose(true)
	}

	mode := cmd.Annotations[annotationBootstrap]
	if mode == bootstrapNone {
		return nil
	}

	if configStore == nil {
		cfg, err := app.LoadConfig(configDir)
		if err != nil {
			return err
		}
		configStore = cfg
	}
	if mode == bootstrapConfig || databaseService != nil {
		return nil
	}

	a, err := app.New(cmd.Context(), app.Options{
		Config:  configStore,
		Backend: backendFlag,
		DataDir: dataDirFlag,
		Verbose: verbose,
	})
	if err != nil {
		return err
	}

	databaseService = a.Manager
	catalog = a.Manager
	shutdown = a.Close
	return nil
}
