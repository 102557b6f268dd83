package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "exports"))
	require.NoError(t, err)

	path, err := store.Save("2026/allocations.csv", []byte("application\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "exports", "2026", "allocations.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "application\n", string(data))
	_, err = os.Stat(path + ".part")
	assert.True(t, os.IsNotExist(err))

	for _, name := range []string{"../escape.csv", "/etc/passwd", "", "a/../../b"} {
		_, err := store.Save(name, []byte("x"))
		assert.Error(t, err, name)
	}
}

func TestLocalStoragePrune(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	oldPath, err := store.Save("old.pdf", []byte("%PDF"))
	require.NoError(t, err)
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))
	freshPath, err := store.Save("fresh.pdf", []byte("%PDF"))
	require.NoError(t, err)

	deleted, err := store.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.pdf"}, deleted)
	_, err = os.Stat(freshPath)
	assert.NoError(t, err)
}
