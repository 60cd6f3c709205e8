package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()

	_, ok, err := kv.Get("setting_link")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("setting_link", "#ff0000"))
	v, ok, err := kv.Get("setting_link")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "#ff0000", v)

	require.NoError(t, kv.Set("setting_link", "#00ff00"))
	v, _, err = kv.Get("setting_link")
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", v)

	require.NoError(t, kv.Set("compiled_styles", ""))
	v, ok, err = kv.Get("compiled_styles")
	require.NoError(t, err)
	assert.True(t, ok, "empty values are still present")
	assert.Empty(t, v)

	require.NoError(t, kv.Delete("setting_link"))
	require.NoError(t, kv.Delete("setting_link"))
	_, ok, err = kv.Get("setting_link")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory(t *testing.T) {
	t.Parallel()
	exerciseKV(t, NewMemory())
}

func TestFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	store := NewFile(path)
	require.NoError(t, store.EnsureDirs())
	exerciseKV(t, store)

	require.NoError(t, store.Set("setting_text", "#123"))
	reopened := NewFile(path)
	v, ok, err := reopened.Get("setting_text")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "#123", v)
}

func TestFileCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, _, err := NewFile(path).Get("x")
	assert.Error(t, err)
}

func TestSQLite(t *testing.T) {
	t.Parallel()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	exerciseKV(t, db.Settings())
	exerciseKV(t, db.Transients())

	require.NoError(t, db.Settings().Set("shared", "settings"))
	_, ok, err := db.Transients().Get("shared")
	require.NoError(t, err)
	assert.False(t, ok, "tables are separate namespaces")
}

func TestOpen(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{"", KindMemory, KindFile, KindSQLite} {
		dir := filepath.Join(t.TempDir(), "data")
		backend, err := Open(kind, dir)
		require.NoError(t, err, kind)

		require.NoError(t, backend.Values.Set("k", "v"))
		_, ok, err := backend.Cache.Get("k")
		require.NoError(t, err)
		assert.False(t, ok, kind)
		require.NoError(t, backend.Close())
	}

	_, err := Open("redis", t.TempDir())
	assert.Error(t, err)
}
