package task

import (
	"strings"
	"time"

	"github.com/arathikrishnaam/dueDash/cmd/internal/apperr"
)

// Task is a to-do item owned by one user.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	DueTime     *time.Time
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category is the derived state of a task at an instant.
type Category string

const (
	CategoryAll       Category = "all"
	CategoryCompleted Category = "completed"
	CategoryPending   Category = "pending"
	CategoryOverdue   Category = "overdue"
)

// ParseCategory accepts all|completed|pending|overdue; empty means all.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case "", CategoryAll:
		return CategoryAll, nil
	case CategoryCompleted:
		return CategoryCompleted, nil
	case CategoryPending:
		return CategoryPending, nil
	case CategoryOverdue:
		return CategoryOverdue, nil
	default:
		return "", apperr.Invalid("category", "must be one of all, completed, pending, overdue")
	}
}

// Categorize places t in exactly one of completed, pending or overdue.
// The stores express the same predicate in SQL.
func Categorize(t Task, now time.Time) Category {
	switch {
	case t.Completed:
		return CategoryCompleted
	case t.DueTime != nil && t.DueTime.Before(now):
		return CategoryOverdue
	default:
		return CategoryPending
	}
}

// NewTask is the input of Create.
type NewTask struct {
	Title       string
	Description *string
	DueTime     *time.Time
}

// Patch is a partial update. Nil fields are left alone; the Clear flags set
// the column to NULL.
type Patch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	DueTime          *time.Time
	ClearDueTime     bool
	Completed        *bool
}

// Apply mutates t in place and stamps UpdatedAt.
func (p Patch) Apply(t *Task, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	switch {
	case p.ClearDescription:
		t.Description = nil
	case p.Description != nil:
		d := *p.Description
		t.Description = &d
	}
	switch {
	case p.ClearDueTime:
		t.DueTime = nil
	case p.DueTime != nil:
		d := Timestamp(*p.DueTime)
		t.DueTime = &d
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = now
}

// Counts is the number of tasks per category.
type Counts struct {
	Completed int64
	Pending   int64
	Overdue   int64
}

// Total is the number of tasks counted.
func (c Counts) Total() int64 { return c.Completed + c.Pending + c.Overdue }

// Summary groups one owner's tasks by category at a single instant.
type Summary struct {
	Completed []Task
	Pending   []Task
	Overdue   []Task
}

// Timestamp normalizes t to UTC with microsecond precision, the resolution
// both backends keep.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
