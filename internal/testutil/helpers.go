package testutil

import (
	"database/sql"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/storage"
)

// TestStorageKey is the collection key used by test repositories.
const TestStorageKey = "asset-portfolios"

// TestCurrency is the display currency used by test services.
const TestCurrency = "USD"

// BaseTime is the first instant returned by test clocks.
var BaseTime = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func NewTestPortfolioRepository(t *testing.T, store storage.KeyValueStorage) *repository.PortfolioRepository {
	t.Helper()

	return repository.NewPortfolioRepository(store, TestStorageKey)
}

// NewTestPortfolioService creates a PortfolioService whose clock advances one minute per call,
// so records created later always have a later createdAt.
func NewTestPortfolioService(t *testing.T, store storage.KeyValueStorage) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		NewTestPortfolioRepository(t, store),
		TestCurrency,
		NewSteppingClock(BaseTime, time.Minute),
	)
}

func NewTestSystemService(t *testing.T, store storage.KeyValueStorage, db *sql.DB) *service.SystemService {
	t.Helper()

	cfg := config.NewDefaultConfig()
	if db == nil {
		cfg.Storage.Backend = config.BackendMemory
	}
	return service.NewSystemService(store, db, cfg)
}

// NewSteppingClock returns a clock that starts at start and advances by step on every call.
//
// Example usage:
//
//	now := testutil.NewSteppingClock(testutil.BaseTime, time.Second)
//	first, second := now(), now() // second is one second after first
func NewSteppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current := next
		next = next.Add(step)
		return current
	}
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeAssetName generates a ticker-like asset name for testing.
func MakeAssetName(base string) string {
	if base == "" {
		base = "ASSET"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

// Float returns a pointer to v, for optional numeric request fields.
func Float(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}
