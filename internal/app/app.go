// Package app wires configuration, the snapshot store and the SQL engine
// into a ready session manager.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/capsql/internal/adapters/driven/config/file"
	sqlengine "github.com/custodia-labs/capsql/internal/adapters/driven/engine/sqlite"
	"github.com/custodia-labs/capsql/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/capsql/internal/adapters/driven/storage/memory"
	sqlitestore "github.com/custodia-labs/capsql/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/capsql/internal/core/domain"
	"github.com/custodia-labs/capsql/internal/core/ports/driven"
	"github.com/custodia-labs/capsql/internal/core/services"
	"github.com/custodia-labs/capsql/internal/logger"
)

// Options override configured settings. Zero values keep the configuration.
type Options struct {
	// Config is the configuration source. Nil loads config.toml from ConfigDir.
	Config driven.ConfigStore

	// ConfigDir is where config.toml lives. Empty means ~/.capsql.
	ConfigDir string

	// Backend overrides storage.backend.
	Backend string

	// DataDir overrides storage.data_dir.
	DataDir string

	// Verbose forces debug logging.
	Verbose bool
}

// App holds the assembled components.
type App struct {
	Config   driven.ConfigStore
	Settings domain.StoreSettings
	Store    driven.SnapshotStore
	Manager  *services.SessionManager
}

// LoadConfig opens the TOML configuration in dir.
func LoadConfig(dir string) (driven.ConfigStore, error) {
	cfg, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Settings resolves store settings from cfg with opts applied on top.
func Settings(cfg driven.ConfigStore, opts Options) (domain.StoreSettings, error) {
	settings, err := services.LoadStoreSettings(cfg)
	if err != nil && opts.Backend == "" {
		return settings, err
	}

	if opts.Backend != "" {
		settings.Backend = domain.StorageBackend(opts.Backend)
	}
	if opts.DataDir != "" {
		settings.DataDir = opts.DataDir
	}
	if opts.Verbose {
		settings.Verbose = true
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// OpenStore creates the snapshot store selected by settings.
func OpenStore(settings domain.StoreSettings) (driven.SnapshotStore, error) {
	switch settings.Backend {
	case domain.StorageBackendSQLite:
		return sqlitestore.NewStore(settings.DataDir, settings.Name, settings.StoreName)
	case domain.StorageBackendFilesystem:
		return filesystem.NewStore(settings.DataDir, settings.Name, settings.StoreName)
	case domain.StorageBackendMemory:
		return memory.NewSnapshotStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, settings.Backend)
	}
}

// New builds the application and initialises the SQL engine.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = LoadConfig(opts.ConfigDir); err != nil {
			return nil, err
		}
	}

	settings, err := Settings(cfg, opts)
	if err != nil {
		return nil, err
	}
	if settings.Verbose {
		logger.SetVerbose(true)
	}

	store, err := OpenStore(settings)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", settings.Backend, err)
	}

	manager := services.NewSessionManager(sqlengine.NewEngine(), store)
	if err := manager.Initialize(ctx); err != nil {
		store.Close()
		return nil, err
	}

	logger.Debug("using %s", settings.Backend.Description())
	return &App{
		Config:   cfg,
		Settings: settings,
		Store:    store,
		Manager:  manager,
	}, nil
}

// Close shuts every open database without saving, then closes the store.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(a.Manager.Shutdown(ctx), a.Store.Close())
}
