// Package testutil provides shared test helpers: a migrated snapshot
// database and a fluent builder for canonical records.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/storage"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/store"
)

// TestDB is a migrated snapshot database scoped to one test.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a snapshot database in the test's temp dir. It
// automatically handles migrations and cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBAt(t, filepath.Join(t.TempDir(), "dashboard.db"))
}

// SetupTestDBAt is SetupTestDB with an explicit path, for code that opens the
// database itself.
func SetupTestDBAt(t *testing.T, path string) *TestDB {
	t.Helper()

	s, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := s.Migrate(context.Background()); err != nil {
		_ = s.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return &TestDB{Storage: s, t: t}
}

// MustSaveSnapshot stores records as a new snapshot and returns its ID.
func (db *TestDB) MustSaveSnapshot(source string, records ...model.Record) string {
	db.t.Helper()

	id, err := db.Storage.SaveSnapshot(context.Background(), source, store.New(records))
	if err != nil {
		db.t.Fatalf("failed to save snapshot: %v", err)
	}
	return id
}

// Close closes the database early, e.g. before another handle opens it.
func (db *TestDB) Close() {
	db.t.Helper()
	if err := db.Storage.Close(); err != nil {
		db.t.Fatalf("failed to close test database: %v", err)
	}
}
