package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"issuetracker/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

// sqliteTimeFormat is fixed width so stored timestamps compare and sort as text.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS issues (
	id TEXT PRIMARY KEY,
	issue_title TEXT NOT NULL CHECK (issue_title <> ''),
	issue_text TEXT NOT NULL CHECK (issue_text <> ''),
	created_on TEXT NOT NULL,
	updated_on TEXT NOT NULL,
	created_by TEXT NOT NULL CHECK (created_by <> ''),
	assigned_to TEXT NOT NULL DEFAULT '',
	open INTEGER NOT NULL DEFAULT 1,
	status_text TEXT NOT NULL DEFAULT '',
	project_name TEXT NOT NULL CHECK (project_name <> ''),
	CHECK (created_on <= updated_on)
);
CREATE INDEX IF NOT EXISTS idx_issues_project_name ON issues(project_name);
`

// SQLiteStore is an IssueStore on modernc.org/sqlite (pure Go, no CGO).
// Used for local development and hermetic tests.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows one writer; a single connection serializes concurrent
	// requests instead of failing with "database is locked".
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Migrate creates the issues table if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() {
	if err := s.db.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close sqlite database")
		return
	}
	log.Info().Msg("Database connection closed")
}

func (s *SQLiteStore) ListIssues(ctx context.Context, filter models.IssueFilter) ([]models.Issue, error) {
	start := time.Now()
	defer func() {
		log.Debug().
			Dur("duration", time.Since(start)).
			Str("project", filter.ProjectName).
			Int("conditions", len(filter.Conditions)).
			Msg("ListIssues")
	}()

	qb := NewQueryBuilderWithPlaceholder(QuestionPlaceholder)
	if !applyIssueFilter(qb, filter, sqliteValue) {
		return []models.Issue{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM issues %s ORDER BY rowid`, issueColumnList, qb.WhereClause())

	rows, err := s.db.QueryContext(ctx, query, qb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	issues := []models.Issue{}
	for rows.Next() {
		issue, err := scanSQLiteIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, *issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issues: %w", err)
	}

	return issues, nil
}

func (s *SQLiteStore) CreateIssue(ctx context.Context, issue *models.Issue) error {
	if issue.ID == uuid.Nil {
		issue.ID = uuid.New()
	}

	qb := NewQueryBuilderWithPlaceholder(QuestionPlaceholder)
	query := fmt.Sprintf(`INSERT INTO issues (%s) VALUES (%s)`, issueColumnList, qb.Placeholders(len(issueColumns)))

	if _, err := s.db.ExecContext(ctx, query, issueValues(issue, sqliteValue)...); err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}

	log.Info().Str("id", issue.ID.String()).Str("project", issue.ProjectName).Msg("Created issue")
	return nil
}

func (s *SQLiteStore) UpdateIssue(ctx context.Context, id uuid.UUID, patch models.IssuePatch) error {
	qb := NewQueryBuilderWithPlaceholder(QuestionPlaceholder)
	applyIssuePatch(qb, patch, sqliteValue)
	qb.AddCondition(columnID, sqliteValue(id))

	query := fmt.Sprintf(`UPDATE issues %s %s`, qb.SetClause(), qb.WhereClause())

	result, err := s.db.ExecContext(ctx, query, qb.Args()...)
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	log.Info().Str("id", id.String()).Msg("Updated issue")
	return nil
}

func (s *SQLiteStore) DeleteIssue(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM issues WHERE %s = ?`, columnID)

	result, err := s.db.ExecContext(ctx, query, sqliteValue(id))
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	log.Info().Str("id", id.String()).Msg("Deleted issue")
	return nil
}

func (s *SQLiteStore) GetIssue(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE %s = ?`, issueColumnList, columnID)

	issue, err := scanSQLiteIssue(s.db.QueryRowContext(ctx, query, sqliteValue(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}

	return issue, nil
}

// sqliteValue maps values onto SQLite storage classes: ids and timestamps
// as TEXT, booleans as INTEGER.
func sqliteValue(v interface{}) interface{} {
	switch val := v.(type) {
	case uuid.UUID:
		return val.String()
	case time.Time:
		return val.UTC().Format(sqliteTimeFormat)
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return v
	}
}

func scanSQLiteIssue(row rowScanner) (*models.Issue, error) {
	var (
		issue     models.Issue
		id        string
		createdOn string
		updatedOn string
	)
	err := row.Scan(
		&id,
		&issue.IssueTitle,
		&issue.IssueText,
		&createdOn,
		&updatedOn,
		&issue.CreatedBy,
		&issue.AssignedTo,
		&issue.Open,
		&issue.StatusText,
		&issue.ProjectName,
	)
	if err != nil {
		return nil, err
	}

	if issue.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid stored id %q: %w", id, err)
	}
	if issue.CreatedOn, err = time.Parse(time.RFC3339Nano, createdOn); err != nil {
		return nil, fmt.Errorf("invalid created_on %q: %w", createdOn, err)
	}
	if issue.UpdatedOn, err = time.Parse(time.RFC3339Nano, updatedOn); err != nil {
		return nil, fmt.Errorf("invalid updated_on %q: %w", updatedOn, err)
	}

	return &issue, nil
}
