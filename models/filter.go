package models

import (
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Filterable Issue fields, by their wire names.
const (
	FieldID          = "_id"
	FieldIssueTitle  = "issue_title"
	FieldIssueText   = "issue_text"
	FieldCreatedBy   = "created_by"
	FieldAssignedTo  = "assigned_to"
	FieldStatusText  = "status_text"
	FieldOpen        = "open"
	FieldCreatedOn   = "created_on"
	FieldUpdatedOn   = "updated_on"
	FieldProjectName = "project_name"
)

type fieldParser func(string) (any, bool)

var filterFields = map[string]fieldParser{
	FieldID:          parseUUID,
	FieldIssueTitle:  parseText,
	FieldIssueText:   parseText,
	FieldCreatedBy:   parseText,
	FieldAssignedTo:  parseText,
	FieldStatusText:  parseText,
	FieldOpen:        parseBool,
	FieldCreatedOn:   parseTime,
	FieldUpdatedOn:   parseTime,
	FieldProjectName: parseText,
}

// Condition is a single equality constraint. Value holds a string, bool,
// uuid.UUID or time.Time depending on Field.
type Condition struct {
	Field string
	Value any
}

// IssueFilter selects the issues of one project whose fields equal every
// condition. Unmatchable is set when a query key is not an Issue field or a
// value cannot be read as that field's type; such a filter matches nothing.
type IssueFilter struct {
	ProjectName string
	Conditions  []Condition
	Unmatchable bool
}

// ParseIssueFilter turns query string pairs into typed equality conditions.
// Keys are processed in sorted order and repeated keys AND together.
func ParseIssueFilter(projectName string, query url.Values) IssueFilter {
	filter := IssueFilter{ProjectName: projectName}

	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		parse, ok := filterFields[key]
		if !ok {
			filter.Unmatchable = true
			continue
		}
		for _, raw := range query[key] {
			value, ok := parse(raw)
			if !ok {
				filter.Unmatchable = true
				continue
			}
			filter.Conditions = append(filter.Conditions, Condition{Field: key, Value: value})
		}
	}

	return filter
}

func parseText(s string) (any, bool) {
	return s, true
}

func parseBool(s string) (any, bool) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, false
	}
	return b, true
}

func parseUUID(s string) (any, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, false
	}
	return id, true
}

func parseTime(s string) (any, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, false
	}
	return t.UTC(), true
}
