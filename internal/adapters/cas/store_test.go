package cas_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xlcache/internal/adapters/cas"
	"go.trai.ch/xlcache/internal/core/domain"
)

func TestStore_FetchStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store, err := cas.NewStore(fs, "/cache", "en-de")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	key := domain.DeriveKey("hello")

	t.Run("miss", func(t *testing.T) {
		t.Parallel()
		_, err := store.Fetch(ctx, domain.DeriveKey("missing"))
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, store.Store(ctx, key, "Hallo"))
		got, err := store.Fetch(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "Hallo", got)
	})
}

func TestStore_LastWriteWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := cas.NewStore(afero.NewMemMapFs(), "/cache", "en-de")
	require.NoError(t, err)

	key := domain.DeriveKey("world")
	require.NoError(t, store.Store(ctx, key, "Welt"))
	require.NoError(t, store.Store(ctx, key, "Erde"))

	got, err := store.Fetch(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Erde", got)
}

func TestStore_NamespacesAreIndependent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs := afero.NewMemMapFs()
	de, err := cas.NewStore(fs, "/cache", "en-de")
	require.NoError(t, err)
	fr, err := cas.NewStore(fs, "/cache", "en-fr")
	require.NoError(t, err)

	key := domain.DeriveKey("hello")
	require.NoError(t, de.Store(ctx, key, "Hallo"))

	_, err = fr.Fetch(ctx, key)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Layout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store, err := cas.NewStore(fs, "/cache", "en-de")
	require.NoError(t, err)

	key := domain.DeriveKey("hello")
	require.NoError(t, store.Store(ctx, key, "Hallo"))

	dir := cas.NamespaceDir("/cache", "en-de")
	data, err := afero.ReadFile(fs, filepath.Join(dir, "5d", key.String()))
	require.NoError(t, err)
	assert.Equal(t, "Hallo", string(data))

	marker, err := afero.ReadFile(fs, filepath.Join(dir, domain.NamespaceFileName))
	require.NoError(t, err)
	assert.Equal(t, "en-de\n", string(marker))

	entries, err := afero.ReadDir(fs, filepath.Join(dir, "5d"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestPurge(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store, err := cas.NewStore(fs, "/cache", "en-de")
	require.NoError(t, err)
	require.NoError(t, store.Store(ctx, domain.DeriveKey("hello"), "Hallo"))

	require.NoError(t, cas.Purge(fs, "/cache", "en-de"))

	exists, err := afero.DirExists(fs, cas.NamespaceDir("/cache", "en-de"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewStore_ReadOnlyFs(t *testing.T) {
	t.Parallel()

	_, err := cas.NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/cache", "en-de")
	require.ErrorContains(t, err, domain.ErrStoreOpenFailed.Error())
}
