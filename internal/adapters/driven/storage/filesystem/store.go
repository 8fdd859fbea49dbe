// Package filesystem provides a directory-backed implementation of driven.SnapshotStore.
//
// Each snapshot is an ordinary SQLite database file named after its key,
// with a small JSON sidecar holding the revision. Files live in
// <data_dir>/<store name>/<collection>/ and are accessed through go-billy,
// so the same store also runs on an in-memory filesystem.
package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-billy/v6/util"
	"github.com/google/uuid"

	"github.com/custodia-labs/capsql/internal/core/domain"
	"github.com/custodia-labs/capsql/internal/core/ports/driven"
)

const (
	imageSuffix = ".sqlite"
	metaSuffix  = ".meta.json"
	tmpSuffix   = ".tmp"
)

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

// Store keeps one file per snapshot.
type Store struct {
	mu   sync.RWMutex
	fs   billy.Filesystem
	root string
}

// meta is the sidecar written next to each image.
type meta struct {
	Revision string    `json:"revision"`
	SavedAt  time.Time `json:"saved_at"`
	Size     int       `json:"size"`
}

// NewStore opens the collection directory on disk, creating it if needed.
// If dataDir is empty, defaults to ~/.capsql/data.
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

	root := filepath.Join(dataDir, name, storeName)
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	return &Store{fs: osfs.New(root), root: root}, nil
}

// NewMemoryStore creates a store on an in-memory filesystem.
func NewMemoryStore() *Store {
	return &Store{fs: memfs.New(), root: "memfs://"}
}

// Root returns the directory holding the snapshot files.
func (s *Store) Root() string {
	return s.root
}

// Get retrieves the snapshot for a name.
func (s *Store) Get(_ context.Context, name string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := util.ReadFile(s.fs, fileName(name, imageSuffix))
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	snap := &domain.Snapshot{Name: name, Data: data}

	raw, err := util.ReadFile(s.fs, fileName(name, metaSuffix))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading snapshot metadata: %w", err)
	}
	if err == nil {
		var m meta
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decoding snapshot metadata: %w", err)
		}
		snap.Revision = m.Revision
		snap.SavedAt = m.SavedAt
	}

	return snap, nil
}

// Set writes the image and its sidecar, replacing any earlier snapshot.
func (s *Store) Set(_ context.Context, name string, data []byte) (*domain.Snapshot, error) {
	m := meta{
		Revision: uuid.NewString(),
		SavedAt:  time.Now().UTC(),
		Size:     len(data),
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot metadata: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.replaceFile(fileName(name, imageSuffix), data); err != nil {
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}
	if err := s.replaceFile(fileName(name, metaSuffix), raw); err != nil {
		return nil, fmt.Errorf("writing snapshot metadata: %w", err)
	}

	return &domain.Snapshot{
		Name:     name,
		Data:     data,
		Revision: m.Revision,
		SavedAt:  m.SavedAt,
	}, nil
}

// Keys lists the stored names, sorted.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.fs.ReadDir("/")
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	keys := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), imageSuffix) {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(entry.Name(), imageSuffix))
		if err != nil {
			continue // Not written by this store
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op; files are closed after each operation.
func (s *Store) Close() error {
	return nil
}

// replaceFile writes data to a temporary file and renames it over name.
func (s *Store) replaceFile(name string, data []byte) error {
	tmp := name + tmpSuffix
	if err := util.WriteFile(s.fs, tmp, data, 0600); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}
	if err := s.fs.Rename(tmp, name); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}
	return nil
}

// fileName escapes a key so any database name maps to one flat file.
func fileName(key, suffix string) string {
	return url.PathEscape(key) + suffix
}
