package domain

import (
	"sort"
	"time"
)

// DueDateLayout is the calendar-date format accepted on input and emitted on output.
const DueDateLayout = "2006-01-02"

// Task represents one to-do item owned by a single identity.
type Task struct {
	ID          int64      `json:"id"`
	Owner       string     `json:"owner"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Done        bool       `json:"done"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsDueSoon reports whether the task has a due date on or before the cutoff.
// Used for presentation highlighting only, never for filtering.
func (t *Task) IsDueSoon(cutoff time.Time) bool {
	return t != nil && !t.Done && t.DueDate != nil && !t.DueDate.After(cutoff)
}

// Less implements the canonical list ordering: tasks without a due date sort
// last, dated tasks sort by ascending due date, ties break by newest creation
// first, then by descending id so the order stays deterministic.
func (t *Task) Less(other *Task) bool {
	switch {
	case t.DueDate == nil && other.DueDate != nil:
		return false
	case t.DueDate != nil && other.DueDate == nil:
		return true
	case t.DueDate != nil && other.DueDate != nil && !t.DueDate.Equal(*other.DueDate):
		return t.DueDate.Before(*other.DueDate)
	}
	if !t.CreatedAt.Equal(other.CreatedAt) {
		return t.CreatedAt.After(other.CreatedAt)
	}
	return t.ID > other.ID
}

// SortTasks orders tasks in place using the canonical list ordering.
func SortTasks(tasks []Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Less(&tasks[j])
	})
}

// ParseDueDate parses an ISO calendar-date string. A blank string means
// "no due date" and yields nil without error.
func ParseDueDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(DueDateLayout, value)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	return &parsed, nil
}
