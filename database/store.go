package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"issuetracker/config"
	"issuetracker/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an update or delete targets an id with no row.
var ErrNotFound = errors.New("issue not found")

// IssueStore is the storage collaborator behind the issue handlers.
// Implementations must be safe for concurrent use.
type IssueStore interface {
	ListIssues(ctx context.Context, filter models.IssueFilter) ([]models.Issue, error)
	CreateIssue(ctx context.Context, issue *models.Issue) error
	UpdateIssue(ctx context.Context, id uuid.UUID, patch models.IssuePatch) error
	DeleteIssue(ctx context.Context, id uuid.UUID) error
	GetIssue(ctx context.Context, id uuid.UUID) (*models.Issue, error)
	Ping(ctx context.Context) error
	Close()
}

var (
	_ IssueStore = (*DB)(nil)
	_ IssueStore = (*SQLiteStore)(nil)
)

// Open connects to the store named by cfg.DatabaseURL.
// sqlite:// and file: URLs open a SQLite database and apply its schema;
// anything else is handed to pgx as a PostgreSQL connection string.
func Open(ctx context.Context, cfg config.Config) (IssueStore, error) {
	if path, ok := SQLitePath(cfg.DatabaseURL); ok {
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
		return store, nil
	}

	db, err := Connect(ctx, cfg.DatabaseURL, PoolConfigFrom(cfg))
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// SQLitePath extracts the database file path from a sqlite:// or file: URL.
func SQLitePath(databaseURL string) (string, bool) {
	for _, prefix := range []string{"sqlite://", "sqlite:", "file:"} {
		if strings.HasPrefix(databaseURL, prefix) {
			path := strings.TrimPrefix(databaseURL, prefix)
			if path == "" {
				return "", false
			}
			return path, true
		}
	}
	return "", false
}
