package storage

import (
	"database/sql"
	"fmt"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/database"
)

// New opens the backend selected by cfg.Backend.
// The returned *sql.DB is non-nil only for the SQLite backend and is used for schema version reporting.
func New(cfg config.StorageConfig) (KeyValueStorage, *sql.DB, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := database.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLiteStorage(db), db, nil
	case config.BackendBadger:
		store, err := NewBadgerStorage(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	case config.BackendMemory:
		return NewMemoryStorage(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
