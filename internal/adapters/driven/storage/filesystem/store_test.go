package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/capsql/internal/core/domain"
)

func TestNewStore_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir, "sqliteStore", "databases")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sqliteStore", "databases"), store.Root())
	assert.DirExists(t, store.Root())
}

func TestNewStore_RequiresNames(t *testing.T) {
	_, err := NewStore(t.TempDir(), "", "databases")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_SetAndGet_OnDisk(t *testing.T) {
	store, err := NewStore(t.TempDir(), "sqliteStore", "databases")
	require.NoError(t, err)
	ctx := context.Background()

	saved, err := store.Set(ctx, "app", []byte("image"))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(store.Root(), "app.sqlite"))
	assert.FileExists(t, filepath.Join(store.Root(), "app.meta.json"))

	got, err := store.Get(ctx, "app")
	require.NoError(t, err)
	assert.Equal(t, []byte("image"), got.Data)
	assert.Equal(t, saved.Revision, got.Revision)
	assert.True(t, saved.SavedAt.Equal(got.SavedAt))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(dir, "sqliteStore", "databases")
	require.NoError(t, err)
	_, err = first.Set(ctx, "app", []byte("durable"))
	require.NoError(t, err)

	second, err := NewStore(dir, "sqliteStore", "databases")
	require.NoError(t, err)
	got, err := second.Get(ctx, "app")
	require.NoError(t, err)
	assert.Equal(t, []byte("durable"), got.Data)
}

func TestStore_Get_NotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Set_Overwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Set(ctx, "app", []byte("a much longer first version"))
	require.NoError(t, err)
	second, err := store.Set(ctx, "app", []byte("v2"))
	require.NoError(t, err)

	got, err := store.Get(ctx, "app")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got.Data)
	assert.Equal(t, second.Revision, got.Revision)
}

func TestStore_EmptyImage(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Set(ctx, "empty", []byte{})
	require.NoError(t, err)

	got, err := store.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got.Data)
}

func TestStore_Keys(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	for _, name := range []string{"b", "a/with/slashes", "c d"} {
		_, err := store.Set(ctx, name, []byte(name))
		require.NoError(t, err)
	}

	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/with/slashes", "b", "c d"}, keys)

	got, err := store.Get(ctx, "a/with/slashes")
	require.NoError(t, err)
	assert.Equal(t, []byte("a/with/slashes"), got.Data)
}

func TestStore_Keys_IgnoresForeignFiles(t *testing.T) {
	store, err := NewStore(t.TempDir(), "sqliteStore", "databases")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(store.Root(), "README.txt"), []byte("x"), 0600))
	require.NoError(t, os.Mkdir(filepath.Join(store.Root(), "nested.sqlite"), 0700))
	_, err = store.Set(ctx, "app", []byte("image"))
	require.NoError(t, err)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"app"}, keys)
}

func TestStore_Get_WithoutSidecar(t *testing.T) {
	store, err := NewStore(t.TempDir(), "sqliteStore", "databases")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(store.Root(), "legacy.sqlite"), []byte("old"), 0600))

	got, err := store.Get(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), got.Data)
	assert.Empty(t, got.Revision)
}

// renameFailFS fails every rename, as if the process died before it.
type renameFailFS struct {
	billy.Filesystem
}

func (renameFailFS) Rename(_, _ string) error {
	return errors.New("rename interrupted")
}

func TestStore_Set_FailedWriteKeepsPreviousSnapshot(t *testing.T) {
	fs := memfs.New()
	ctx := context.Background()

	store := &Store{fs: fs, root: "memfs://"}
	saved, err := store.Set(ctx, "app", []byte("first image"))
	require.NoError(t, err)

	broken := &Store{fs: renameFailFS{fs}, root: "memfs://"}
	_, err = broken.Set(ctx, "app", []byte("second"))
	require.Error(t, err)

	got, err := store.Get(ctx, "app")
	require.NoError(t, err)
	assert.Equal(t, []byte("first image"), got.Data)
	assert.Equal(t, saved.Revision, got.Revision)

	_, err = fs.Stat("app.sqlite" + tmpSuffix)
	assert.ErrorIs(t, err, os.ErrNotExist)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"app"}, keys)
}

func TestStore_Set_LeavesNoTemporaryFiles(t *testing.T) {
	store, err := NewStore(t.TempDir(), "sqliteStore", "databases")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Set(ctx, "app", []byte("one"))
	require.NoError(t, err)
	_, err = store.Set(ctx, "app", []byte("two"))
	require.NoError(t, err)

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"app.sqlite", "app.meta.json"}, names)

	data, err := util.ReadFile(store.fs, "app.sqlite")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "app.sqlite", fileName("app", imageSuffix))
	assert.Equal(t, "a%2Fb.sqlite", fileName("a/b", imageSuffix))
	assert.Equal(t, "x%20y.meta.json", fileName("x y", metaSuffix))
}

func TestStore_Close(t *testing.T) {
	assert.NoError(t, NewMemoryStore().Close())
}
