// Package storage_test tests the local audio file store.
package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ngqkhai/voice-synthesis/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Save(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	store, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	path, err := store.Save("abc-123", []byte("audio bytes"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "abc-123.mp3"), path)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("audio bytes"), written)
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "static", "audio")

	_, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStore_RejectsBadInput(t *testing.T) {
	t.Parallel()

	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("", []byte("audio"))
	require.ErrorIs(t, err, storage.ErrEmptyID)

	_, err = store.Save("../escape", []byte("audio"))
	require.ErrorIs(t, err, storage.ErrInvalidID)

	_, err = store.Save("abc-123", nil)
	require.ErrorIs(t, err, storage.ErrEmptyData)
}
