// Package storage provides the key-value backends that persist the portfolio collection.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no value is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// UpdateFunc receives the current value of a key (nil when absent) and returns the value to store.
// Returning an error aborts the update without writing.
type UpdateFunc func(current []byte) ([]byte, error)

// KeyValueStorage is the persistence contract of the portfolio store.
// Update performs an atomic read-modify-write of a single key.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Ping(ctx context.Context) error
	Close() error
}
