package view

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rew4n/smart-task-resource-manager/domain"
)

func TestNewRendererParsesAllPages(t *testing.T) {
	renderer, err := NewRenderer(3)
	require.NoError(t, err)

	for _, name := range []string{"index", "login", "tasks", "edit"} {
		var buf bytes.Buffer
		assert.NoError(t, renderer.Render(&buf, name, Page{Title: "t"}), name)
		assert.NotEmpty(t, buf.String(), name)
	}

	var buf bytes.Buffer
	assert.Error(t, renderer.Render(&buf, "missing", Page{}))
}

func TestTasksPageRendering(t *testing.T) {
	renderer, err := NewRenderer(3)
	require.NoError(t, err)

	soon := time.Now().AddDate(0, 0, 1)
	later := time.Now().AddDate(0, 0, 30)
	tasks := []domain.Task{
		{ID: 1, Title: "due tomorrow", DueDate: &soon, CreatedAt: time.Now()},
		{ID: 2, Title: "due next month", DueDate: &later, CreatedAt: time.Now()},
		{ID: 3, Title: "whenever", CreatedAt: time.Now()},
	}

	items := renderer.NewTaskItems(tasks)
	require.Len(t, items, 3)
	assert.True(t, items[0].DueSoon)
	assert.False(t, items[1].DueSoon)
	assert.False(t, items[2].DueSoon)
	assert.Empty(t, items[2].DueDate)

	var buf bytes.Buffer
	err = renderer.Render(&buf, "tasks", Page{
		Title:    "Tasks",
		Identity: "admin",
		Flash:    "Task created.",
		Tasks:    items,
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "due tomorrow")
	assert.Contains(t, html, "due-soon")
	assert.Contains(t, html, "Task created.")
	assert.Contains(t, html, "/tasks/1/toggle")
	assert.Contains(t, html, "/tasks/1/edit")
}

func TestTitlesAreEscaped(t *testing.T) {
	renderer, err := NewRenderer(3)
	require.NoError(t, err)

	items := renderer.NewTaskItems([]domain.Task{
		{ID: 1, Title: "<script>alert(1)</script>", CreatedAt: time.Now()},
	})

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, "tasks", Page{Tasks: items}))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
}
