// Package testutil provides test helpers shared by the expense-analysis packages: a migrated
// throwaway database and a fluent builder for record fixtures.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/expense-analysis/internal/model"
	"github.com/Veraticus/expense-analysis/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.SeedSnapshot("expenses.csv", testutil.NewRecordBuilder(t).WithBasicExpenses().Build())
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	// Create in-memory SQLite storage
	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Register cleanup
	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// SeedSnapshot stores records as the snapshot for source or fails the test.
func (db *TestDB) SeedSnapshot(source string, records []model.Record) {
	db.t.Helper()
	if err := db.Storage.SaveSnapshot(context.Background(), model.Snapshot{Source: source}, records, nil); err != nil {
		db.t.Fatalf("failed to seed snapshot %q: %v", source, err)
	}
}

// MustLoadSnapshot returns the stored records for source or fails the test.
func (db *TestDB) MustLoadSnapshot(source string) []model.Record {
	db.t.Helper()
	_, records, err := db.Storage.LoadSnapshot(context.Background(), source)
	if err != nil {
		db.t.Fatalf("failed to load snapshot %q: %v", source, err)
	}
	return records
}
