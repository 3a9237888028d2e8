package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"issuetracker/database"
	"issuetracker/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// IssueService applies the validation and partial-update rules of the issue
// resource on top of an IssueStore.
type IssueService struct {
	store database.IssueStore
	now   func() time.Time
}

func NewIssueService(store database.IssueStore) *IssueService {
	return &IssueService{store: store, now: time.Now}
}

// WithClock replaces the clock used to stamp created_on and updated_on.
func (s *IssueService) WithClock(now func() time.Time) *IssueService {
	s.now = now
	return s
}

// timestamp reads the clock for one record. Millisecond precision keeps
// echoed timestamps usable as equality filters on every backend.
func (s *IssueService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// List returns the project's issues matching every query pair exactly.
func (s *IssueService) List(ctx context.Context, projectName string, query url.Values) ([]models.Issue, error) {
	filter := models.ParseIssueFilter(projectName, query)
	if filter.Unmatchable {
		log.Debug().Str("project", projectName).Msg("List: filter cannot match any issue")
	}

	issues, err := s.store.ListIssues(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, nil
}

// Create persists a new open issue in projectName.
func (s *IssueService) Create(ctx context.Context, projectName string, req models.CreateIssueRequest) (*models.Issue, error) {
	if projectName == "" || req.IssueTitle == "" || req.IssueText == "" || req.CreatedBy == "" {
		return nil, &ValidationError{Message: MsgRequiredFieldsMissing}
	}

	now := s.timestamp()
	issue := &models.Issue{
		IssueTitle:  req.IssueTitle,
		IssueText:   req.IssueText,
		CreatedOn:   now,
		UpdatedOn:   now,
		CreatedBy:   req.CreatedBy,
		AssignedTo:  req.AssignedTo,
		Open:        true,
		StatusText:  req.StatusText,
		ProjectName: projectName,
	}

	if err := s.store.CreateIssue(ctx, issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return issue, nil
}

// Update applies the fields present in req to the issue req.ID and returns the id.
//
// A string field counts as sent only when non-empty. open=false on its own
// is treated as "nothing sent", but is written when any other field is sent.
func (s *IssueService) Update(ctx context.Context, req models.UpdateIssueRequest) (string, error) {
	if req.ID == "" {
		return "", &ValidationError{Message: MsgMissingID}
	}

	patch := models.IssuePatch{
		IssueTitle: nonEmpty(req.IssueTitle),
		IssueText:  nonEmpty(req.IssueText),
		CreatedBy:  nonEmpty(req.CreatedBy),
		AssignedTo: nonEmpty(req.AssignedTo),
		StatusText: nonEmpty(req.StatusText),
		Open:       req.Open,
	}

	if !patchHasChanges(patch) {
		return "", &ValidationError{Message: MsgNoUpdateFields, ID: req.ID}
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return "", &NotFoundError{Message: MsgCouldNotUpdate, ID: req.ID}
	}

	patch.UpdatedOn = s.timestamp()

	if err := s.store.UpdateIssue(ctx, id, patch); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", &NotFoundError{Message: MsgCouldNotUpdate, ID: req.ID}
		}
		return "", err
	}
	return req.ID, nil
}

// Delete permanently removes the issue with the given id and returns the id.
func (s *IssueService) Delete(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", &ValidationError{Message: MsgMissingID}
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", &NotFoundError{Message: MsgCouldNotDelete, ID: id}
	}

	if err := s.store.DeleteIssue(ctx, parsed); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", &NotFoundError{Message: MsgCouldNotDelete, ID: id}
		}
		return "", err
	}
	return id, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// patchHasChanges reports whether any client field was sent.
// open=false deliberately does not count.
func patchHasChanges(p models.IssuePatch) bool {
	return p.IssueTitle != nil ||
		p.IssueText != nil ||
		p.CreatedBy != nil ||
		p.AssignedTo != nil ||
		p.StatusText != nil ||
		(p.Open != nil && *p.Open)
}
