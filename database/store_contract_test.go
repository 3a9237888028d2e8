package database

import (
	"context"
	"net/url"
	"testing"
	"time"

	"issuetracker/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testIssueStore exercises the IssueStore behaviour every backend must share.
// newStore must return an empty store.
func testIssueStore(t *testing.T, newStore func(t *testing.T) IssueStore) {
	t.Run("create and get", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		issue := newTestIssue("apitest", "title 1", "text 1")
		require.NoError(t, store.CreateIssue(ctx, issue))
		assert.NotEqual(t, uuid.Nil, issue.ID)

		got, err := store.GetIssue(ctx, issue.ID)
		require.NoError(t, err)
		assert.Equal(t, *issue, *got)
	})

	t.Run("get missing", func(t *testing.T) {
		store := newStore(t)

		_, err := store.GetIssue(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list is scoped to project in insertion order", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		first := newTestIssue("apitest", "title 1", "text 1")
		other := newTestIssue("other", "title 1", "text 1")
		second := newTestIssue("apitest", "title 2", "text 2")
		for _, issue := range []*models.Issue{first, other, second} {
			require.NoError(t, store.CreateIssue(ctx, issue))
		}

		issues, err := store.ListIssues(ctx, models.ParseIssueFilter("apitest", nil))
		require.NoError(t, err)
		require.Len(t, issues, 2)
		assert.Equal(t, first.ID, issues[0].ID)
		assert.Equal(t, second.ID, issues[1].ID)
	})

	t.Run("list empty project", func(t *testing.T) {
		store := newStore(t)

		issues, err := store.ListIssues(context.Background(), models.ParseIssueFilter("nothing-here", nil))
		require.NoError(t, err)
		assert.NotNil(t, issues)
		assert.Empty(t, issues)
	})

	t.Run("list filters", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		a := newTestIssue("apitest", "title 1", "text 1")
		b := newTestIssue("apitest", "title 1", "text 2")
		c := newTestIssue("apitest", "title 2", "text 2")
		c.Open = false
		for _, issue := range []*models.Issue{a, b, c} {
			require.NoError(t, store.CreateIssue(ctx, issue))
		}

		tests := []struct {
			name    string
			query   url.Values
			wantIDs []uuid.UUID
		}{
			{name: "one field", query: url.Values{"issue_title": {"title 1"}}, wantIDs: []uuid.UUID{a.ID, b.ID}},
			{name: "two fields", query: url.Values{"issue_title": {"title 1"}, "issue_text": {"text 2"}}, wantIDs: []uuid.UUID{b.ID}},
			{name: "open false", query: url.Values{"open": {"false"}}, wantIDs: []uuid.UUID{c.ID}},
			{name: "open true", query: url.Values{"open": {"true"}}, wantIDs: []uuid.UUID{a.ID, b.ID}},
			{name: "by id", query: url.Values{"_id": {b.ID.String()}}, wantIDs: []uuid.UUID{b.ID}},
			{name: "by created_on", query: url.Values{"created_on": {a.CreatedOn.Format(time.RFC3339Nano)}}, wantIDs: []uuid.UUID{a.ID, b.ID, c.ID}},
			{name: "no match", query: url.Values{"created_by": {"nobody"}}, wantIDs: []uuid.UUID{}},
			{name: "unknown field", query: url.Values{"priority": {"high"}}, wantIDs: []uuid.UUID{}},
			{name: "malformed id", query: url.Values{"_id": {"not-an-id"}}, wantIDs: []uuid.UUID{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				issues, err := store.ListIssues(ctx, models.ParseIssueFilter("apitest", tt.query))
				require.NoError(t, err)
				assert.Equal(t, tt.wantIDs, issueIDs(issues))
			})
		}
	})

	t.Run("update applies only patched fields", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		issue := newTestIssue("apitest", "title 1", "text 1")
		require.NoError(t, store.CreateIssue(ctx, issue))

		title := "title 9"
		closed := false
		later := issue.UpdatedOn.Add(time.Minute)
		err := store.UpdateIssue(ctx, issue.ID, models.IssuePatch{
			IssueTitle: &title,
			Open:       &closed,
			UpdatedOn:  later,
		})
		require.NoError(t, err)

		got, err := store.GetIssue(ctx, issue.ID)
		require.NoError(t, err)
		assert.Equal(t, "title 9", got.IssueTitle)
		assert.False(t, got.Open)
		assert.Equal(t, later, got.UpdatedOn)
		assert.Equal(t, issue.IssueText, got.IssueText)
		assert.Equal(t, issue.CreatedBy, got.CreatedBy)
		assert.Equal(t, issue.AssignedTo, got.AssignedTo)
		assert.Equal(t, issue.StatusText, got.StatusText)
		assert.Equal(t, issue.CreatedOn, got.CreatedOn)
		assert.Equal(t, issue.ProjectName, got.ProjectName)
	})

	t.Run("update missing", func(t *testing.T) {
		store := newStore(t)
		title := "title"

		err := store.UpdateIssue(context.Background(), uuid.New(), models.IssuePatch{
			IssueTitle: &title,
			UpdatedOn:  testTime,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		issue := newTestIssue("apitest", "title 1", "text 1")
		require.NoError(t, store.CreateIssue(ctx, issue))

		require.NoError(t, store.DeleteIssue(ctx, issue.ID))

		_, err := store.GetIssue(ctx, issue.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		err = store.DeleteIssue(ctx, issue.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		store := newStore(t)
		assert.NoError(t, store.Ping(context.Background()))
	})
}

var testTime = time.Date(2024, 11, 22, 10, 30, 0, 123000000, time.UTC)

func newTestIssue(project, title, text string) *models.Issue {
	return &models.Issue{
		IssueTitle:  title,
		IssueText:   text,
		CreatedOn:   testTime,
		UpdatedOn:   testTime,
		CreatedBy:   "author 1",
		AssignedTo:  "author 2",
		Open:        true,
		StatusText:  "status 1",
		ProjectName: project,
	}
}

func issueIDs(issues []models.Issue) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(issues))
	for _, issue := range issues {
		ids = append(ids, issue.ID)
	}
	return ids
}
