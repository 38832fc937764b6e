// Package badger keeps the notifier's record of handled events in an
// embedded key-value store.
package badger

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "dedup/"

var _ ports.DeduplicationStore = (*DedupStore)(nil)

// DedupStore remembers natural keys for ttl. A zero ttl keeps them forever.
type DedupStore struct {
	db  *badger.DB
	ttl time.Duration
}

// Open opens the store in dir. An empty dir keeps everything in memory.
func Open(dir string, ttl time.Duration) (*DedupStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &DedupStore{db: db, ttl: ttl}, nil
}

func (s *DedupStore) MarkIfNew(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errs.NewValueIsRequiredError("natural key")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var fresh bool
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(storeKey(key))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		entry := badger.NewEntry(storeKey(key), []byte(time.Now().UTC().Format(time.RFC3339)))
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		fresh = true
		return txn.SetEntry(entry)
	})
	if errors.Is(err, badger.ErrConflict) {
		// A concurrent consumer claimed the key first.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return fresh, nil
}

func (s *DedupStore) Forget(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(storeKey(key))
	})
}

func (s *DedupStore) Close() error {
	return s.db.Close()
}

func storeKey(key string) []byte {
	return []byte(keyPrefix + key)
}
