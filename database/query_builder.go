package database

import (
	"fmt"
	"strings"
)

// Placeholder renders the bind marker for the n-th argument (1-based).
type Placeholder func(n int) string

// DollarPlaceholder renders PostgreSQL style markers: $1, $2, ...
func DollarPlaceholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// QuestionPlaceholder renders positional ? markers for SQLite.
func QuestionPlaceholder(int) string {
	return "?"
}

// QueryBuilder helps build WHERE and SET clauses safely.
// Column names must come from package constants; values are always bound.
// With positional placeholders, add assignments before conditions so the
// argument order matches "SET ... WHERE ...".
type QueryBuilder struct {
	conditions  []string
	assignments []string
	args        []interface{}
	argCount    int
	placeholder Placeholder
}

func NewQueryBuilder() *QueryBuilder {
	return NewQueryBuilderWithPlaceholder(DollarPlaceholder)
}

func NewQueryBuilderWithPlaceholder(placeholder Placeholder) *QueryBuilder {
	return &QueryBuilder{
		conditions:  []string{},
		assignments: []string{},
		args:        []interface{}{},
		argCount:    1,
		placeholder: placeholder,
	}
}

func (qb *QueryBuilder) AddCondition(column string, value interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf("%s = %s", column, qb.placeholder(qb.argCount)))
	qb.args = append(qb.args, value)
	qb.argCount++
}

func (qb *QueryBuilder) AddAssignment(column string, value interface{}) {
	qb.assignments = append(qb.assignments, fmt.Sprintf("%s = %s", column, qb.placeholder(qb.argCount)))
	qb.args = append(qb.args, value)
	qb.argCount++
}

func (qb *QueryBuilder) WhereClause() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

func (qb *QueryBuilder) SetClause() string {
	if len(qb.assignments) == 0 {
		return ""
	}
	return "SET " + strings.Join(qb.assignments, ", ")
}

func (qb *QueryBuilder) Args() []interface{} {
	return qb.args
}

func (qb *QueryBuilder) NextArgNum() int {
	return qb.argCount
}

// Placeholders renders n consecutive markers starting at the next argument,
// without consuming them. Used for INSERT value lists.
func (qb *QueryBuilder) Placeholders(n int) string {
	markers := make([]string, n)
	for i := 0; i < n; i++ {
		markers[i] = qb.placeholder(qb.argCount + i)
	}
	return strings.Join(markers, ", ")
}
