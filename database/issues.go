package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"issuetracker/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// ListIssues returns the issues of filter.ProjectName matching every condition,
// in insertion order. Returns an empty slice (not nil) when nothing matches.
func (db *DB) ListIssues(ctx context.Context, filter models.IssueFilter) ([]models.Issue, error) {
	start := time.Now()
	defer func() {
		log.Debug().
			Dur("duration", time.Since(start)).
			Str("project", filter.ProjectName).
			Int("conditions", len(filter.Conditions)).
			Msg("ListIssues")
	}()

	qb := NewQueryBuilder()
	if !applyIssueFilter(qb, filter, pgValue) {
		return []models.Issue{}, nil
	}

	// SAFETY: whereClause only contains column constants; values are parameterized.
	query := fmt.Sprintf(`
		SELECT %s
		FROM issues
		%s
		ORDER BY %s
	`, issueColumnList, qb.WhereClause(), columnSeq)

	rows, err := db.Pool.Query(ctx, query, qb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	return scanIssues(rows)
}

// CreateIssue inserts issue, assigning a new ID when it has none.
func (db *DB) CreateIssue(ctx context.Context, issue *models.Issue) error {
	if issue.ID == uuid.Nil {
		issue.ID = uuid.New()
	}

	qb := NewQueryBuilder()
	query := fmt.Sprintf(`
		INSERT INTO issues (%s)
		VALUES (%s)
	`, issueColumnList, qb.Placeholders(len(issueColumns)))

	if _, err := db.Pool.Exec(ctx, query, issueValues(issue, pgValue)...); err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}

	log.Info().Str("id", issue.ID.String()).Str("project", issue.ProjectName).Msg("Created issue")
	return nil
}

// UpdateIssue applies patch to the issue with the given id.
// Returns ErrNotFound if no row has that id.
func (db *DB) UpdateIssue(ctx context.Context, id uuid.UUID, patch models.IssuePatch) error {
	qb := NewQueryBuilder()
	applyIssuePatch(qb, patch, pgValue)
	qb.AddCondition(columnID, id)

	query := fmt.Sprintf(`UPDATE issues %s %s`, qb.SetClause(), qb.WhereClause())

	result, err := db.Pool.Exec(ctx, query, qb.Args()...)
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	log.Info().Str("id", id.String()).Msg("Updated issue")
	return nil
}

func (db *DB) DeleteIssue(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM issues WHERE %s = $1`, columnID)

	result, err := db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	log.Info().Str("id", id.String()).Msg("Deleted issue")
	return nil
}

// GetIssue fetches a single issue by id regardless of project.
func (db *DB) GetIssue(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE %s = $1`, issueColumnList, columnID)

	issue, err := scanIssue(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}

	return issue, nil
}

// Helper functions

// pgValue passes values through; pgx encodes uuid, time and bool natively.
func pgValue(v interface{}) interface{} {
	if t, ok := v.(time.Time); ok {
		return t.UTC()
	}
	return v
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanIssue(row rowScanner) (*models.Issue, error) {
	var issue models.Issue
	err := row.Scan(
		&issue.ID,
		&issue.IssueTitle,
		&issue.IssueText,
		&issue.CreatedOn,
		&issue.UpdatedOn,
		&issue.CreatedBy,
		&issue.AssignedTo,
		&issue.Open,
		&issue.StatusText,
		&issue.ProjectName,
	)
	if err != nil {
		return nil, err
	}
	issue.CreatedOn = issue.CreatedOn.UTC()
	issue.UpdatedOn = issue.UpdatedOn.UTC()
	return &issue, nil
}

func scanIssues(rows rowsScanner) ([]models.Issue, error) {
	issues := []models.Issue{}
	for rows.Next() {
		issue, err := scanIssue(rows)
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
