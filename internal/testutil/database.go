package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/database"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/storage"
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The schema is created by the same goose migrations as production.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// SetupTestStorage creates a SQLite-backed key-value storage for testing.
//
// Example usage:
//
//	store := testutil.SetupTestStorage(t)
//	svc := testutil.NewTestPortfolioService(t, store)
func SetupTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	return storage.NewSQLiteStorage(SetupTestDB(t))
}

// CountPortfolios returns the number of records in the stored collection.
func CountPortfolios(t *testing.T, store storage.KeyValueStorage) int {
	t.Helper()

	portfolios, err := NewTestPortfolioRepository(t, store).GetPortfolios(context.Background())
	if err != nil {
		t.Fatalf("Failed to load portfolios: %v", err)
	}
	return len(portfolios)
}

// AssertPortfolioCount asserts that the stored collection has the expected number of records.
//
// Example usage:
//
//	testutil.AssertPortfolioCount(t, store, 2)
func AssertPortfolioCount(t *testing.T, store storage.KeyValueStorage, expected int) {
	t.Helper()

	actual := CountPortfolios(t, store)
	if actual != expected {
		t.Errorf("Expected %d portfolios, got %d", expected, actual)
	}
}
