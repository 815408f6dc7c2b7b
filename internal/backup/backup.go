// Package backup writes snapshots of the portfolio collection to disk.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/phuslu/log"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/config"
)

// filePrefix names every snapshot written by the service.
const filePrefix = "asset-portfolios-"

// ErrDecryptFailed is returned when a snapshot token cannot be verified with the given key.
var ErrDecryptFailed = errors.New("failed to verify backup token")

// CollectionReader is the part of the portfolio repository the backup service needs.
type CollectionReader interface {
	GetRawCollection(ctx context.Context) ([]byte, error)
}

// Service writes the stored collection document to a backup directory.
// When an encryption key is configured the snapshot is a Fernet token instead of plain JSON.
type Service struct {
	repo CollectionReader
	dir  string
	key  *fernet.Key
	now  func() time.Time
}

// NewService creates a backup service. now may be nil.
func NewService(repo CollectionReader, cfg config.BackupConfig, now func() time.Time) (*Service, error) {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	s := &Service{
		repo: repo,
		dir:  cfg.Dir,
		now:  now,
	}
	if cfg.EncryptionKey != "" {
		key, err := fernet.DecodeKey(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid backup encryption key: %w", err)
		}
		s.key = key
	}
	return s, nil
}

// Encrypted reports whether snapshots are written as Fernet tokens.
func (s *Service) Encrypted() bool {
	return s.key != nil
}

// Run writes one snapshot and returns its path.
func (s *Service) Run(ctx context.Context) (string, error) {
	data, err := s.repo.GetRawCollection(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read collection: %w", err)
	}

	name := filePrefix + s.now().UTC().Format("20060102T150405Z") + ".json"
	if s.key != nil {
		data, err = fernet.EncryptAndSign(data, s.key)
		if err != nil {
			return "", fmt.Errorf("failed to encrypt backup: %w", err)
		}
		name += ".fernet"
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	log.Info().
		Str("path", path).
		Int("bytes", len(data)).
		Bool("encrypted", s.key != nil).
		Msg("backup written")

	return path, nil
}

// Decrypt returns the collection document held in an encrypted snapshot.
// Tokens never expire.
func Decrypt(token []byte, encodedKey string) ([]byte, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("invalid backup encryption key: %w", err)
	}
	msg := fernet.VerifyAndDecrypt(token, 0, []*fernet.Key{key})
	if msg == nil {
		return nil, ErrDecryptFailed
	}
	return msg, nil
}

// GenerateKey returns a new random key in its encoded form.
func GenerateKey() (string, error) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return key.Encode(), nil
}
