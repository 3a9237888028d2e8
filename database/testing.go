package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	testDB *DB
)

// GetTestDB returns the shared PostgreSQL test connection.
// Nil unless TestMain found a TEST_DATABASE_URL.
func GetTestDB() *DB {
	return testDB
}

// RequireTestDB skips the calling test when running with -short or when no
// PostgreSQL test database is configured.
func RequireTestDB(t *testing.T) *DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return testDB
}

// SetupTestDB creates a test database connection and runs migrations.
// Should be called once in TestMain, not in individual tests.
func SetupTestDB(dbURL string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL, DefaultPoolConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// CleanupTestDB truncates the issues table for a fresh test state.
// Call this at the start of each integration test.
func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Pool.Exec(ctx, "TRUNCATE TABLE issues RESTART IDENTITY")
	require.NoError(t, err)
}

// TeardownTestDB closes the test database connection.
// Safe to call with nil DB (no-op).
func TeardownTestDB(db *DB) {
	if db != nil {
		db.Close()
	}
}

// NewTestSQLiteStore opens a migrated SQLite store in a per-test temp dir.
// The store is closed when the test finishes.
func NewTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "issues.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))

	t.Cleanup(s.Close)
	return s
}
