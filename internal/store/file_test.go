package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khatapp/khata/internal/store"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Get(ctx, "appDb")
	assert.ErrorIs(t, err, store.ErrKeyMissing)

	require.NoError(t, fs.Set(ctx, "appDb", []byte(`{"hello":1}`)))
	value, err := fs.Get(ctx, "appDb")
	require.NoError(t, err)
	assert.Equal(t, `{"hello":1}`, string(value))

	require.NoError(t, fs.Set(ctx, "appDb", []byte(`{"hello":2}`)))
	value, err = fs.Get(ctx, "appDb")
	require.NoError(t, err)
	assert.Equal(t, `{"hello":2}`, string(value), "Set replaces the whole value")
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, err := store.NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, fs.Set(ctx, "preferences", []byte(`{}`)))
	require.NoError(t, fs.Delete(ctx, "preferences", "neverExisted"))

	_, err = fs.Get(ctx, "preferences")
	assert.ErrorIs(t, err, store.ErrKeyMissing)
}

func TestFileStoreLeavesNoTempFilesBehind(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, err := store.NewFileStore(dir)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, fs.Set(ctx, "appDb", []byte(`{}`)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "appDb.json", filepath.Base(entries[0].Name()))
}

func TestFileStoreCreatesDataDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := store.NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
