package database

import (
	"strings"

	"issuetracker/models"
)

const (
	columnSeq         = "seq"
	columnID          = "id"
	columnIssueTitle  = "issue_title"
	columnIssueText   = "issue_text"
	columnCreatedOn   = "created_on"
	columnUpdatedOn   = "updated_on"
	columnCreatedBy   = "created_by"
	columnAssignedTo  = "assigned_to"
	columnOpen        = "open"
	columnStatusText  = "status_text"
	columnProjectName = "project_name"
)

// issueColumns is the column order used by every SELECT and INSERT.
var issueColumns = []string{
	columnID,
	columnIssueTitle,
	columnIssueText,
	columnCreatedOn,
	columnUpdatedOn,
	columnCreatedBy,
	columnAssignedTo,
	columnOpen,
	columnStatusText,
	columnProjectName,
}

var issueColumnList = strings.Join(issueColumns, ", ")

var filterColumns = map[string]string{
	models.FieldID:          columnID,
	models.FieldIssueTitle:  columnIssueTitle,
	models.FieldIssueText:   columnIssueText,
	models.FieldCreatedBy:   columnCreatedBy,
	models.FieldAssignedTo:  columnAssignedTo,
	models.FieldStatusText:  columnStatusText,
	models.FieldOpen:        columnOpen,
	models.FieldCreatedOn:   columnCreatedOn,
	models.FieldUpdatedOn:   columnUpdatedOn,
	models.FieldProjectName: columnProjectName,
}

// valueEncoder converts a Go value into the form a driver stores it in.
type valueEncoder func(v interface{}) interface{}

// applyIssueFilter adds the project scope and every filter condition to qb.
// It returns false when the filter cannot match any row.
func applyIssueFilter(qb *QueryBuilder, filter models.IssueFilter, encode valueEncoder) bool {
	if filter.Unmatchable {
		return false
	}

	qb.AddCondition(columnProjectName, filter.ProjectName)
	for _, cond := range filter.Conditions {
		column, ok := filterColumns[cond.Field]
		if !ok {
			return false
		}
		qb.AddCondition(column, encode(cond.Value))
	}
	return true
}

// applyIssuePatch adds an assignment for every non-nil patch field plus updated_on.
func applyIssuePatch(qb *QueryBuilder, patch models.IssuePatch, encode valueEncoder) {
	if patch.IssueTitle != nil {
		qb.AddAssignment(columnIssueTitle, *patch.IssueTitle)
	}
	if patch.IssueText != nil {
		qb.AddAssignment(columnIssueText, *patch.IssueText)
	}
	if patch.CreatedBy != nil {
		qb.AddAssignment(columnCreatedBy, *patch.CreatedBy)
	}
	if patch.AssignedTo != nil {
		qb.AddAssignment(columnAssignedTo, *patch.AssignedTo)
	}
	if patch.StatusText != nil {
		qb.AddAssignment(columnStatusText, *patch.StatusText)
	}
	if patch.Open != nil {
		qb.AddAssignment(columnOpen, encode(*patch.Open))
	}
	qb.AddAssignment(columnUpdatedOn, encode(patch.UpdatedOn))
}

// issueValues returns the issue's fields in issueColumns order.
func issueValues(issue *models.Issue, encode valueEncoder) []interface{} {
	return []interface{}{
		encode(issue.ID),
		issue.IssueTitle,
		issue.IssueText,
		encode(issue.CreatedOn),
		encode(issue.UpdatedOn),
		issue.CreatedBy,
		issue.AssignedTo,
		encode(issue.Open),
		issue.StatusText,
		issue.ProjectName,
	}
}
