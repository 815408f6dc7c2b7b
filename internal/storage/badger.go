package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"
)

// maxConflictRetries bounds how often Update retries a transaction that lost a write conflict.
const maxConflictRetries = 5

// KVEntry represents a key-value pair stored in BadgerDB.
type KVEntry struct {
	Key   string `badgerhold:"key"`
	Value []byte
}

// BadgerStorage implements KeyValueStorage on an embedded Badger database.
type BadgerStorage struct {
	store *badgerhold.Store
}

// NewBadgerStorage opens (or creates) a Badger database in dir.
func NewBadgerStorage(dir string) (*BadgerStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = dir
	options.ValueDir = dir
	options.Logger = nil // Disable default badger logger

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &BadgerStorage{store: store}, nil
}

// Get retrieves the value stored under key.
func (s *BadgerStorage) Get(_ context.Context, key string) ([]byte, error) {
	var entry KVEntry
	err := s.store.Get(key, &entry)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return entry.Value, nil
}

// Set stores value under key.
func (s *BadgerStorage) Set(_ context.Context, key string, value []byte) error {
	entry := KVEntry{Key: key, Value: value}
	if err := s.store.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Update runs fn inside a read-write transaction. Transactions aborted by a concurrent
// write to the same key are retried.
func (s *BadgerStorage) Update(ctx context.Context, key string, fn UpdateFunc) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = s.store.Badger().Update(func(tx *badger.Txn) error {
			var current []byte
			var entry KVEntry
			getErr := s.store.TxGet(tx, key, &entry)
			switch {
			case errors.Is(getErr, badgerhold.ErrNotFound):
			case getErr != nil:
				return fmt.Errorf("failed to get key %s: %w", key, getErr)
			default:
				current = entry.Value
			}

			next, fnErr := fn(current)
			if fnErr != nil {
				return fnErr
			}
			return s.store.TxUpsert(tx, key, &KVEntry{Key: key, Value: next})
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("failed to update key %s: %w", key, err)
}

// Ping checks that the database is still open.
func (s *BadgerStorage) Ping(_ context.Context) error {
	if s.store.Badger().IsClosed() {
		return errors.New("badger database is closed")
	}
	return nil
}

// Close closes the database.
func (s *BadgerStorage) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
