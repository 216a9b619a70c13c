package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// FileStore persists each key as one file under dir. It is the localStorage
// analog used when no Redis address is configured. Keys are hex-encoded so
// separators like ':' never leak into file names.
type FileStore struct {
	dir string
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, hex.EncodeToString([]byte(key))+".json")
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (f *FileStore) Set(_ context.Context, key string, value []byte) error {
	// Write-then-rename so a crash mid-write never leaves a torn value.
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
