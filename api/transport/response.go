package transport

import (
	"time"

	"github.com/rew4n/smart-task-resource-manager/domain"
)

// TaskDTO is the wire representation of a task. The due date is a bare
// calendar date or null; the creation timestamp is RFC 3339.
type TaskDTO struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Done        bool    `json:"done"`
	CreatedAt   string  `json:"created_at"`
}

// TaskListResponse wraps GET /api/tasks.
type TaskListResponse struct {
	Tasks []TaskDTO `json:"tasks"`
}

// CreatedResponse is returned from POST /api/tasks.
type CreatedResponse struct {
	Message string `json:"message"`
	TaskID  int64  `json:"task_id"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries the bearer token issued by POST /api/login.
type TokenResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is the uniform API error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewTaskDTO converts a domain task to its wire form.
func NewTaskDTO(task domain.Task) TaskDTO {
	dto := TaskDTO{
		ID:        task.ID,
		Title:     task.Title,
		Done:      task.Done,
		CreatedAt: task.CreatedAt.Format(time.RFC3339),
	}
	if task.Description != "" {
		description := task.Description
		dto.Description = &description
	}
	if task.DueDate != nil {
		due := task.DueDate.Format(domain.DueDateLayout)
		dto.DueDate = &due
	}
	return dto
}

// NewTaskListResponse converts a task slice, never emitting a null list.
func NewTaskListResponse(tasks []domain.Task) TaskListResponse {
	dtos := make([]TaskDTO, 0, len(tasks))
	for _, task := range tasks {
		dtos = append(dtos, NewTaskDTO(task))
	}
	return TaskListResponse{Tasks: dtos}
}
