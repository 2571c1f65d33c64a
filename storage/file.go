// ABOUTME: File-backed storage slot
// ABOUTME: Stores each key as <key>.json and replaces it atomically on write
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSlot keeps one JSON file per key inside a directory.
type FileSlot struct {
	dir string
}

func OpenFileSlot(dir string) (*FileSlot, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileSlot{dir: dir}, nil
}

func (f *FileSlot) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid slot key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *FileSlot) Get(key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrSlotEmpty
	}
	return data, err
}

// Set writes to a temp file in the same directory and renames it over the
// target so readers never observe a half-written document.
func (f *FileSlot) Set(key string, value []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (f *FileSlot) Delete(key string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FileSlot) Close() error { return nil }
