package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a stored file no longer exists on disk.
var ErrNotFound = errors.New("file not found")

// LocalStore is a disk-backed blob store rooted at a configured directory.
// Files are written once under a generated key and read back by the same key.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Save(key string, data []byte) error {
	path := s.path(key)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file %s already exists", key)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *LocalStore) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// path keeps keys confined to the storage root.
func (s *LocalStore) path(key string) string {
	return filepath.Join(s.root, filepath.Base(key))
}
