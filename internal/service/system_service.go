package service

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/database"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/storage"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	store storage.KeyValueStorage
	db    *sql.DB // nil unless the SQLite backend is in use
	cfg   *config.Config
}

// NewSystemService creates a new SystemService
func NewSystemService(store storage.KeyValueStorage, db *sql.DB, cfg *config.Config) *SystemService {
	return &SystemService{
		store: store,
		db:    db,
		cfg:   cfg,
	}
}

// CheckHealth checks the health of the storage backend
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// CheckVersion reports the application version, the schema version and the enabled features.
// The schema version is "n/a" for backends without migrations.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	dbVersion := "n/a"
	if s.db != nil {
		v, err := database.SchemaVersion(s.db)
		if err != nil {
			return model.VersionInfo{}, err
		}
		dbVersion = strconv.FormatInt(v, 10)
	}

	return model.VersionInfo{
		AppVersion:     version.Version,
		DbVersion:      dbVersion,
		StorageBackend: s.cfg.Storage.Backend,
		Features: map[string]bool{
			"scheduled_backups": s.cfg.Backup.Schedule != "",
			"encrypted_backups": s.cfg.Backup.EncryptionKey != "",
			"schema_migrations": s.db != nil,
		},
	}, nil
}
