// internal/blobstore/file_test.go
package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(ctx, "catalog")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Save(ctx, "catalog", []byte(`[{"id":"prod-1"}]`)))

	blob, err := store.Load(ctx, "catalog")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"prod-1"}]`, string(blob))
}

func TestFileStoreKeyEncoding(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	key := NotificationsKey("usr-1")
	require.NoError(t, store.Save(ctx, key, []byte(`[]`)))

	// Colons never reach the filesystem
	_, err = os.Stat(filepath.Join(dir, "notifications~usr-1.json"))
	require.NoError(t, err)

	keys, err := store.Keys(ctx, "notifications:")
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "users", []byte(`[]`)))
	require.NoError(t, store.Delete(ctx, "users"))

	_, err = store.Load(ctx, "users")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.NoError(t, store.Delete(ctx, "users"))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "cart:usr-1", []byte(`[{"quantity":2}]`)))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	blob, err := reopened.Load(ctx, "cart:usr-1")
	require.NoError(t, err)
	assert.Equal(t, `[{"quantity":2}]`, string(blob))
}
