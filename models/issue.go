package models

import (
	"time"

	"github.com/google/uuid"
)

// Issue is a tracked work item that belongs to exactly one project.
// ID, CreatedOn and ProjectName never change after creation.
type Issue struct {
	ID          uuid.UUID `json:"_id"`
	IssueTitle  string    `json:"issue_title"`
	IssueText   string    `json:"issue_text"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
	CreatedBy   string    `json:"created_by"`
	AssignedTo  string    `json:"assigned_to"`
	Open        bool      `json:"open"`
	StatusText  string    `json:"status_text"`
	ProjectName string    `json:"project_name"`
}

// CreateIssueRequest is the POST payload. Required fields are checked by the
// service rather than by binding tags so the error payload stays stable.
type CreateIssueRequest struct {
	IssueTitle string `json:"issue_title" form:"issue_title"`
	IssueText  string `json:"issue_text" form:"issue_text"`
	CreatedBy  string `json:"created_by" form:"created_by"`
	AssignedTo string `json:"assigned_to" form:"assigned_to"`
	StatusText string `json:"status_text" form:"status_text"`
}

// UpdateIssueRequest is the PUT payload. A nil field was not sent.
type UpdateIssueRequest struct {
	ID         string  `json:"_id" form:"_id"`
	IssueTitle *string `json:"issue_title" form:"issue_title"`
	IssueText  *string `json:"issue_text" form:"issue_text"`
	CreatedBy  *string `json:"created_by" form:"created_by"`
	AssignedTo *string `json:"assigned_to" form:"assigned_to"`
	StatusText *string `json:"status_text" form:"status_text"`
	Open       *bool   `json:"open" form:"open"`
}

// DeleteIssueRequest is the DELETE payload.
type DeleteIssueRequest struct {
	ID string `json:"_id" form:"_id"`
}

// IssuePatch is the set of column changes applied by a partial update.
// Nil fields are left untouched; UpdatedOn is always written.
type IssuePatch struct {
	IssueTitle *string
	IssueText  *string
	CreatedBy  *string
	AssignedTo *string
	StatusText *string
	Open       *bool
	UpdatedOn  time.Time
}

func (r *CreateIssueRequest) UnmarshalJSON(data []byte) error {
	p, err := decodePayload(data)
	if err != nil {
		return err
	}

	var errs fieldErrors
	errs.add(p.text(FieldIssueTitle, &r.IssueTitle))
	errs.add(p.text(FieldIssueText, &r.IssueText))
	errs.add(p.text(FieldCreatedBy, &r.CreatedBy))
	errs.add(p.text(FieldAssignedTo, &r.AssignedTo))
	errs.add(p.text(FieldStatusText, &r.StatusText))
	return errs.first()
}

// UnmarshalJSON fills every readable field before reporting the first field
// that could not be read, so the id is still available to the caller.
func (r *UpdateIssueRequest) UnmarshalJSON(data []byte) error {
	p, err := decodePayload(data)
	if err != nil {
		return err
	}

	var errs fieldErrors
	errs.add(p.text(FieldID, &r.ID))
	errs.add(p.optionalText(FieldIssueTitle, &r.IssueTitle))
	errs.add(p.optionalText(FieldIssueText, &r.IssueText))
	errs.add(p.optionalText(FieldCreatedBy, &r.CreatedBy))
	errs.add(p.optionalText(FieldAssignedTo, &r.AssignedTo))
	errs.add(p.optionalText(FieldStatusText, &r.StatusText))
	errs.add(p.optionalFlag(FieldOpen, &r.Open))
	return errs.first()
}

func (r *DeleteIssueRequest) UnmarshalJSON(data []byte) error {
	p, err := decodePayload(data)
	if err != nil {
		return err
	}
	return p.text(FieldID, &r.ID)
}

// ErrorResponse is returned with HTTP 200 for validation and lookup failures.
type ErrorResponse struct {
	Error string `json:"error"`
	ID    string `json:"_id,omitempty"`
}

// ResultResponse acknowledges a successful update or delete.
type ResultResponse struct {
	Result string `json:"result"`
	ID     string `json:"_id"`
}
