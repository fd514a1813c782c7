package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/rew4n/smart-task-resource-manager/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// TaskItem is a task prepared for template rendering.
type TaskItem struct {
	ID          int64
	Title       string
	Description string
	Done        bool
	DueDate     string
	DueSoon     bool
	CreatedAt   string
}

// Page is the data handed to every template.
type Page struct {
	Title    string
	Identity string
	Flash    string
	Tasks    []TaskItem
	Task     *TaskItem
}

// Renderer renders the embedded HTML pages. Each page template is parsed
// together with the shared layout once at construction.
type Renderer struct {
	pages       map[string]*template.Template
	dueSoonDays int
}

// NewRenderer parses the embedded templates. dueSoonDays controls the
// highlight cutoff on the task list (today + N days).
func NewRenderer(dueSoonDays int) (*Renderer, error) {
	if dueSoonDays <= 0 {
		dueSoonDays = 3
	}

	names := []string{"index", "login", "tasks", "edit"}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{
		pages:       pages,
		dueSoonDays: dueSoonDays,
	}, nil
}

// Render writes the named page to w.
func (r *Renderer) Render(w io.Writer, name string, data Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// NewTaskItem converts a domain task for rendering, marking it due-soon when
// its due date falls within the configured window. The cutoff only
// highlights; it never filters.
func (r *Renderer) NewTaskItem(task domain.Task) TaskItem {
	cutoff := time.Now().AddDate(0, 0, r.dueSoonDays)
	item := TaskItem{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Done:        task.Done,
		DueSoon:     task.IsDueSoon(cutoff),
		CreatedAt:   task.CreatedAt.Format("2006-01-02 15:04"),
	}
	if task.DueDate != nil {
		item.DueDate = task.DueDate.Format(domain.DueDateLayout)
	}
	return item
}

// NewTaskItems converts a slice of domain tasks, preserving order.
func (r *Renderer) NewTaskItems(tasks []domain.Task) []TaskItem {
	items := make([]TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, r.NewTaskItem(task))
	}
	return items
}
