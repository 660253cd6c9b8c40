// Package testutil provides test helpers for setting up in-memory blob
// stores, building fixtures, and making assertions.
package testutil

import (
	"encoding/json"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/berling9700/budget-tracker/internal/blobstore"
	"github.com/berling9700/budget-tracker/internal/database"
)

// SetupTestDB creates a private in-memory SQLite database with the blobs
// table migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", nextID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.NewManagerFromDB(db).Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}

// SetupTestBlobStore returns a gorm-backed blob store over a fresh in-memory
// database that is closed when the test ends.
func SetupTestBlobStore(t *testing.T) *blobstore.GormStore {
	t.Helper()

	db := SetupTestDB(t)
	t.Cleanup(func() { TeardownTestDB(t, db) })
	return blobstore.NewGormStore(db)
}

// SeedBlob stores v as JSON under key.
func SeedBlob(t *testing.T, store blobstore.Store, key string, v any) {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode seed for %q: %v", key, err)
	}
	if err := store.Set(key, string(data)); err != nil {
		t.Fatalf("failed to seed %q: %v", key, err)
	}
}
