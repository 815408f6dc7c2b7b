package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/database"
)

// SQLiteStorage stores values in the kv_store table created by the database migrations.
// Every write bumps the row revision.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a SQLiteStorage over an opened and migrated database.
func NewSQLiteStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

// DB returns the underlying database connection.
func (s *SQLiteStorage) DB() *sql.DB {
	return s.db
}

// Get retrieves the value stored under key.
func (s *SQLiteStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query kv_store: %w", err)
	}
	return []byte(value), nil
}

// Set stores value under key, replacing any previous value.
func (s *SQLiteStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := upsert(ctx, s.db, key, value); err != nil {
		return err
	}
	return nil
}

// Update reads, transforms and writes the value of key inside one transaction.
func (s *SQLiteStorage) Update(ctx context.Context, key string, fn UpdateFunc) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current []byte
	var value string
	scanErr := tx.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	switch {
	case errors.Is(scanErr, sql.ErrNoRows):
	case scanErr != nil:
		return fmt.Errorf("failed to query kv_store: %w", scanErr)
	default:
		current = []byte(value)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	if err = upsert(ctx, tx, key, next); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *SQLiteStorage) Ping(_ context.Context) error {
	return database.HealthCheck(s.db)
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, q execer, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, revision, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			revision = kv_store.revision + 1,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := q.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to write kv_store: %w", err)
	}
	return nil
}
