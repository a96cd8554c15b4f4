package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	require.NoError(t, store.Save("IMPORT-abc123.csv", []byte("Email\na@b.com\n")))

	data, err := store.Read("IMPORT-abc123.csv")
	require.NoError(t, err)
	assert.Equal(t, "Email\na@b.com\n", string(data))

	err = store.Save("IMPORT-abc123.csv", []byte("other"))
	assert.Error(t, err, "keys are write-once")

	_, err = store.Read("IMPORT-missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreConfinesKeys(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(root)
	require.NoError(t, err)

	require.NoError(t, store.Save("../../escape.csv", []byte("x")))

	data, err := store.Read("escape.csv")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data), "path traversal in keys is stripped to the base name")
}
