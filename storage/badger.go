// ABOUTME: BadgerDB-backed storage slot
// ABOUTME: Embedded LSM key-value store, one value per slot key
package storage

import (
	"errors"

	"github.com/dgraph-io/badger/v3"
)

type BadgerSlot struct {
	db *badger.DB
}

// OpenBadgerSlot opens (or creates) a badger database in dir.
func OpenBadgerSlot(dir string) (*BadgerSlot, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(nil) // badger's own logging is noise at this scale

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerSlot{db: db}, nil
}

func (b *BadgerSlot) Get(key string) ([]byte, error) {
	var result []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSlotEmpty
	}
	return result, err
}

func (b *BadgerSlot) Set(key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (b *BadgerSlot) Delete(key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (b *BadgerSlot) Close() error {
	return b.db.Close()
}
