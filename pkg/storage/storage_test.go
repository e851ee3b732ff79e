package storage

import (
	"os"
	"path/filepath"
	"testing"

	"agentchat/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAll(t *testing.T) map[string]KV {
	t.Helper()

	fileKV, err := NewFileKV(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	sqliteKV, err := NewSQLiteKV(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteKV.Close() })

	return map[string]KV{
		"memory": NewMemoryKV(),
		"file":   fileKV,
		"sqlite": sqliteKV,
	}
}

func TestKV_LoadMissing(t *testing.T) {
	for name, kv := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			data, ok, err := kv.Load("chatConversations")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, data)
		})
	}
}

func TestKV_SaveThenLoad(t *testing.T) {
	for name, kv := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Save("chatConversations", []byte(`[{"id":"1"}]`)))

			data, ok, err := kv.Load("chatConversations")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":"1"}]`, string(data))
		})
	}
}

func TestKV_SaveOverwrites(t *testing.T) {
	for name, kv := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Save("slot", []byte("first")))
			require.NoError(t, kv.Save("slot", []byte("second")))

			data, ok, err := kv.Load("slot")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "second", string(data))
		})
	}
}

func TestKV_KeysAreIndependent(t *testing.T) {
	for name, kv := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Save("a", []byte("one")))
			require.NoError(t, kv.Save("b", []byte("two")))

			a, _, err := kv.Load("a")
			require.NoError(t, err)
			b, _, err := kv.Load("b")
			require.NoError(t, err)
			assert.Equal(t, "one", string(a))
			assert.Equal(t, "two", string(b))
		})
	}
}

func TestKV_InvalidKey(t *testing.T) {
	for name, kv := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "  ", "../escape", `a\b`, ".."} {
				assert.ErrorIs(t, kv.Save(key, []byte("x")), ErrInvalidKey, "key %q", key)
				_, _, err := kv.Load(key)
				assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
			}
		})
	}
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	data := []byte("abc")
	require.NoError(t, kv.Save("k", data))
	data[0] = 'z'

	got, _, err := kv.Load("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, _, err := kv.Load("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestFileKV_LeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	require.NoError(t, kv.Save("chatConversations", []byte("[]")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "chatConversations.json", entries[0].Name())
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "agentchat.db")

	kv, err := NewSQLiteKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Save("chatConversations", []byte("[1,2,3]")))
	require.NoError(t, kv.Close())

	reopened, err := NewSQLiteKV(path)
	require.NoError(t, err)
	defer reopened.Close()

	data, ok, err := reopened.Load("chatConversations")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[1,2,3]", string(data))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	kv, err := Open(config.StorageConfig{Driver: config.DriverFile, Path: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileKV{}, kv)

	kv, err = Open(config.StorageConfig{Driver: config.DriverSQLite, Path: dir})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteKV{}, kv)
	require.NoError(t, kv.Close())
	assert.FileExists(t, filepath.Join(dir, sqliteFileName))

	kv, err = Open(config.StorageConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)

	_, err = Open(config.StorageConfig{Driver: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
