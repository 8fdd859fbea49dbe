package domain

import "fmt"

const unknownDescription = "Unknown"

// StorageBackend selects where database snapshots are persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageBackendSQLite keeps snapshots as rows of a local SQLite file.
	StorageBackendSQLite StorageBackend = "sqlite"

	// StorageBackendFilesystem keeps one file per snapshot in a directory.
	StorageBackendFilesystem StorageBackend = "filesystem"

	// StorageBackendMemory keeps snapshots in process memory only.
	StorageBackendMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageBackendSQLite, StorageBackendFilesystem, StorageBackendMemory:
		return true
	default:
		return false
	}
}

// IsDurable returns true if snapshots survive process exit.
func (b StorageBackend) IsDurable() bool {
	return b == StorageBackendSQLite || b == StorageBackendFilesystem
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageBackendSQLite:
		return "SQLite (single local database file)"
	case StorageBackendFilesystem:
		return "Filesystem (one file per database)"
	case StorageBackendMemory:
		return "Memory (lost on exit)"
	default:
		return unknownDescription
	}
}

// Configuration keys understood by LoadStoreSettings.
const (
	KeyStorageBackend   = "storage.backend"
	KeyStorageDataDir   = "storage.data_dir"
	KeyStorageName      = "storage.name"
	KeyStorageStoreName = "storage.store_name"
	KeyLogVerbose       = "log.verbose"
)

// Default store instance naming.
const (
	DefaultStoreName      = "sqliteStore"
	DefaultStoreTableName = "databases"
)

// StoreSettings configures the snapshot store.
type StoreSettings struct {
	// Backend selects the store implementation.
	Backend StorageBackend

	// DataDir is where durable backends keep their files.
	// Empty means ~/.capsql/data.
	DataDir string

	// Name is the store instance name.
	Name string

	// StoreName is the collection within the instance that holds snapshots.
	StoreName string

	// Verbose enables debug logging.
	Verbose bool
}

// DefaultStoreSettings returns settings for a SQLite-backed store in the default location.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		Backend:   StorageBackendSQLite,
		Name:      DefaultStoreName,
		StoreName: DefaultStoreTableName,
	}
}

// Validate checks the settings are usable.
func (s StoreSettings) Validate() error {
	if !s.Backend.IsValid() {
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidInput, s.Backend)
	}
	if s.Name == "" {
		return fmt.Errorf("%w: store name is empty", ErrInvalidInput)
	}
	if s.StoreName == "" {
		return fmt.Errorf("%w: store table name is empty", ErrInvalidInput)
	}
	return nil
}
