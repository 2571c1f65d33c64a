// ABOUTME: BoltDB-backed storage slot
// ABOUTME: Single-file B+tree store with one bucket holding the documents
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltBucket = "slots"

type BoltSlot struct {
	db     *bolt.DB
	bucket []byte
}

// OpenBoltSlot opens the bolt file at path and ensures the bucket exists.
func OpenBoltSlot(path string) (*BoltSlot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltSlot{db: db, bucket: []byte(boltBucket)}, nil
}

func (s *BoltSlot) Get(key string) ([]byte, error) {
	var result []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v == nil {
			return ErrSlotEmpty
		}
		// bolt values are only valid inside the transaction
		result = append([]byte(nil), v...)
		return nil
	})
	return result, err
}

func (s *BoltSlot) Set(key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), value)
	})
}

func (s *BoltSlot) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
}

func (s *BoltSlot) Close() error {
	return s.db.Close()
}
