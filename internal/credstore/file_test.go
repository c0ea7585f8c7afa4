package credstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	return store, path
}

func TestFileStore_GetMissingKey(t *testing.T) {
	store, _ := newTestFileStore(t)

	v, ok, err := store.Get(context.Background(), KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestFileStore_SetGetRoundtrip(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyAccessToken, "tok1"))
	require.NoError(t, store.Set(ctx, KeyRefreshToken, "ref1"))

	v, ok, err := store.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok1", v)

	v, ok, err = store.Get(ctx, KeyRefreshToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ref1", v)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	store, path := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyUser, `{"name":"Alice"}`))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	v, ok, err := reopened.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"name":"Alice"}`, v)
}

func TestFileStore_Delete(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyUser, "u"))
	require.NoError(t, store.Set(ctx, KeyAccessToken, "a"))
	require.NoError(t, store.Set(ctx, KeyRefreshToken, "r"))

	require.NoError(t, store.Delete(ctx, Keys...))

	for _, key := range Keys {
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, "key %s should be gone", key)
	}
}

func TestFileStore_DeleteAbsentKeyIsNoError(t *testing.T) {
	store, _ := newTestFileStore(t)

	require.NoError(t, store.Delete(context.Background(), KeyUser))
	require.NoError(t, store.Delete(context.Background(), KeyUser, KeyAccessToken))
}

func TestFileStore_FilePermissions(t *testing.T) {
	store, path := newTestFileStore(t)

	require.NoError(t, store.Set(context.Background(), KeyAccessToken, "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptDocumentTreatedAsEmpty(t *testing.T) {
	store, path := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, ok, err := store.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)

	// Next write replaces the corrupt document
	require.NoError(t, store.Set(ctx, KeyAccessToken, "tok"))
	v, ok, err := store.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)
}

func TestNewFileStore_EmptyPath(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestMemoryStore_Roundtrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, KeyUser, "u"))
	v, ok, err := store.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "u", v)

	require.NoError(t, store.Delete(ctx, KeyUser))
	_, ok, err = store.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)
}
