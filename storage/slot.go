// ABOUTME: Durable key-value slot abstraction and backend selection
// ABOUTME: Opens file, badger, bolt, sqlite or in-memory slots by name
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrSlotEmpty is returned by Get when nothing is stored under the key.
var ErrSlotEmpty = errors.New("storage slot is empty")

// Slot is a durable local key-value store holding whole documents.
type Slot interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backends lists every backend Open understands.
var Backends = []string{BackendFile, BackendBadger, BackendBolt, BackendSQLite, BackendMemory}

// Options selects and locates a slot backend.
type Options struct {
	Backend string
	DataDir string
}

// Open creates the data directory if needed and opens the requested backend.
func Open(opts Options) (Slot, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = BackendFile
	}
	if backend == BackendMemory {
		return NewMemorySlot(), nil
	}

	if opts.DataDir == "" {
		return nil, fmt.Errorf("data directory is required for %s backend", backend)
	}
	if err := os.MkdirAll(opts.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	switch backend {
	case BackendFile:
		return OpenFileSlot(opts.DataDir)
	case BackendBadger:
		return OpenBadgerSlot(filepath.Join(opts.DataDir, "badger"))
	case BackendBolt:
		return OpenBoltSlot(filepath.Join(opts.DataDir, "crm.bolt"))
	case BackendSQLite:
		return OpenSQLiteSlot(filepath.Join(opts.DataDir, "crm.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected one of %s)", opts.Backend, strings.Join(Backends, ", "))
	}
}
