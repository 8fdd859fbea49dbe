package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/capsql/internal/core/domain"
	"github.com/custodia-labs/capsql/internal/core/ports/driven"
)

// fileName is the configuration file inside the config directory.
const fileName = "config.toml"

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// document is the on-disk layout of config.toml. Unset fields are omitted
// when the file is written, so only explicit choices are persisted.
type document struct {
	Storage *storageTable `toml:"storage,omitempty"`
	Log     *logTable     `toml:"log,omitempty"`
}

type storageTable struct {
	Backend   *string `toml:"backend,omitempty"`
	DataDir   *string `toml:"data_dir,omitempty"`
	Name      *string `toml:"name,omitempty"`
	StoreName *string `toml:"store_name,omitempty"`
}

type logTable struct {
	Verbose *bool `toml:"verbose,omitempty"`
}

// ConfigStore keeps capsql settings in a TOML file.
// Keys use dot-notation ("storage.backend"); only the keys listed in
// domain are accepted.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	doc      document
}

// NewConfigStore opens config.toml in configDir, creating the directory if
// needed. If configDir is empty, defaults to ~/.capsql.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".capsql")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{filePath: filepath.Join(configDir, fileName)}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.get(key)
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := v.(bool)
	return b
}

// Keys returns the keys set in the file, sorted.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for _, key := range knownKeys {
		if _, ok := s.doc.get(key); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Set stores a value and writes the file.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	if err := next.set(key, value); err != nil {
		return err
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

// Unset removes a key and writes the file.
func (s *ConfigStore) Unset(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	if err := next.set(key, nil); err != nil {
		return err
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

// Save writes the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(s.doc)
}

func (s *ConfigStore) write(doc document) error {
	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Load reads config.toml. A missing file yields an empty configuration.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		s.doc = document{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", s.filePath, err)
	}
	s.doc = doc
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// knownKeys lists every key the document can hold.
var knownKeys = []string{
	domain.KeyStorageBackend,
	domain.KeyStorageDataDir,
	domain.KeyStorageName,
	domain.KeyStorageStoreName,
	domain.KeyLogVerbose,
}

func (d document) get(key string) (any, bool) {
	if field := d.stringField(key); field != nil {
		if *field == nil {
			return nil, false
		}
		return **field, true
	}
	if key == domain.KeyLogVerbose && d.Log != nil && d.Log.Verbose != nil {
		return *d.Log.Verbose, true
	}
	return nil, false
}

// set assigns value to key. A nil value clears the key.
func (d *document) set(key string, value any) error {
	if key == domain.KeyLogVerbose {
		if value == nil {
			if d.Log != nil {
				d.Log.Verbose = nil
			}
			d.prune()
			return nil
		}
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %s expects a boolean, got %T", domain.ErrInvalidInput, key, value)
		}
		if d.Log == nil {
			d.Log = &logTable{}
		}
		d.Log.Verbose = &b
		return nil
	}

	if d.Storage == nil {
		d.Storage = &storageTable{}
	}
	field := d.stringField(key)
	if field == nil {
		d.prune()
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if value == nil {
		*field = nil
		d.prune()
		return nil
	}
	str, ok := value.(string)
	if !ok {
		d.prune()
		return fmt.Errorf("%w: %s expects a string, got %T", domain.ErrInvalidInput, key, value)
	}
	*field = &str
	return nil
}

// stringField returns the storage field backing key, or nil if key is not a
// storage key or the table is absent.
func (d document) stringField(key string) **string {
	if d.Storage == nil {
		return nil
	}
	switch key {
	case domain.KeyStorageBackend:
		return &d.Storage.Backend
	case domain.KeyStorageDataDir:
		return &d.Storage.DataDir
	case domain.KeyStorageName:
		return &d.Storage.Name
	case domain.KeyStorageStoreName:
		return &d.Storage.StoreName
	default:
		return nil
	}
}

// prune drops tables left without values.
func (d *document) prune() {
	if s := d.Storage; s != nil && s.Backend == nil && s.DataDir == nil && s.Name == nil && s.StoreName == nil {
		d.Storage = nil
	}
	if d.Log != nil && d.Log.Verbose == nil {
		d.Log = nil
	}
}

// clone copies the document so a failed write leaves the store unchanged.
func (d document) clone() document {
	var c document
	if d.Storage != nil {
		st := *d.Storage
		c.Storage = &st
	}
	if d.Log != nil {
		lt := *d.Log
		c.Log = &lt
	}
	return c
}
