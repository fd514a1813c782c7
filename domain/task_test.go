package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(value string) *time.Time {
	t, err := time.Parse(DueDateLayout, value)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestSortTasks(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	// Created in order: undated, due 2024-01-10, due 2024-01-05.
	tasks := []Task{
		{ID: 1, Title: "undated", CreatedAt: base},
		{ID: 2, Title: "later", DueDate: date("2024-01-10"), CreatedAt: base.Add(time.Minute)},
		{ID: 3, Title: "sooner", DueDate: date("2024-01-05"), CreatedAt: base.Add(2 * time.Minute)},
	}

	SortTasks(tasks)

	var titles []string
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"sooner", "later", "undated"}, titles)
}

func TestSortTasksTieBreaks(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("equal due dates order newest created first", func(t *testing.T) {
		tasks := []Task{
			{ID: 1, Title: "old", DueDate: date("2024-02-01"), CreatedAt: base},
			{ID: 2, Title: "new", DueDate: date("2024-02-01"), CreatedAt: base.Add(time.Hour)},
		}
		SortTasks(tasks)
		assert.Equal(t, "new", tasks[0].Title)
	})

	t.Run("undated tasks order newest created first", func(t *testing.T) {
		tasks := []Task{
			{ID: 1, Title: "old", CreatedAt: base},
			{ID: 2, Title: "new", CreatedAt: base.Add(time.Hour)},
		}
		SortTasks(tasks)
		assert.Equal(t, "new", tasks[0].Title)
	})

	t.Run("identical timestamps fall back to descending id", func(t *testing.T) {
		tasks := []Task{
			{ID: 7, CreatedAt: base},
			{ID: 9, CreatedAt: base},
		}
		SortTasks(tasks)
		assert.Equal(t, int64(9), tasks[0].ID)
	})
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    *time.Time
		wantErr bool
	}{
		{name: "blank means unset", value: "", want: nil},
		{name: "valid date", value: "2024-03-15", want: date("2024-03-15")},
		{name: "wrong layout", value: "15/03/2024", wantErr: true},
		{name: "datetime rejected", value: "2024-03-15T10:00:00Z", wantErr: true},
		{name: "nonsense", value: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDueDate(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsDomainError(err, ErrCodeInvalid))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsDueSoon(t *testing.T) {
	cutoff := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{name: "no due date", task: Task{}, want: false},
		{name: "due before cutoff", task: Task{DueDate: date("2024-01-08")}, want: true},
		{name: "due on cutoff", task: Task{DueDate: date("2024-01-10")}, want: true},
		{name: "due after cutoff", task: Task{DueDate: date("2024-01-12")}, want: false},
		{name: "completed task is never highlighted", task: Task{Done: true, DueDate: date("2024-01-08")}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.IsDueSoon(cutoff))
		})
	}
}

func TestIsDomainError(t *testing.T) {
	assert.True(t, IsDomainError(ErrTaskNotFound, ErrCodeNotFound))
	assert.False(t, IsDomainError(ErrTaskNotFound, ErrCodeInvalid))
	assert.True(t, IsDomainError(WrapError(ErrCodeInternal, "wrapped", ErrTaskNotFound), ErrCodeInternal))
	assert.False(t, IsDomainError(nil, ErrCodeNotFound))
}
