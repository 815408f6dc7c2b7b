package storage

import (
	"context"
	"sync"
)

// MemoryStorage keeps values in a map guarded by a mutex. Values are copied on the way in and out.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (s *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return clone(value), nil
}

// Set stores a copy of value under key.
func (s *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = clone(value)
	return nil
}

// Update runs fn while holding the lock.
func (s *MemoryStorage) Update(ctx context.Context, key string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	var current []byte
	if value, ok := s.values[key]; ok {
		current = clone(value)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	s.values[key] = clone(next)
	return nil
}

// Ping always succeeds.
func (s *MemoryStorage) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (s *MemoryStorage) Close() error {
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
