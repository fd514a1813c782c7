package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rew4n/smart-task-resource-manager/domain"
	"github.com/rew4n/smart-task-resource-manager/repository"
	"github.com/rew4n/smart-task-resource-manager/usecase"
)

// Input carries the writable task fields as submitted by a form or API body.
type Input struct {
	Title       string
	Description string
	DueDate     string
}

// Patch carries a partial update; only non-nil fields are applied.
// A present-but-blank DueDate clears the due date.
type Patch struct {
	Title       *string
	Description *string
	Done        *bool
	DueDate     *string
}

// UseCase is the task store facade. Every operation is scoped by the
// authenticated owner; a task owned by another identity is reported as
// not found.
type UseCase struct {
	tasks  repository.TaskRepository
	buffer usecase.OperationBuffer
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		buffer: buffer,
		logger: logger,
	}
}

// List returns the owner's tasks: dated tasks first by ascending due date,
// undated tasks last, newest-created first among ties.
func (uc *UseCase) List(ctx context.Context, owner string) ([]domain.Task, error) {
	return uc.tasks.List(ctx, owner)
}

func (uc *UseCase) Get(ctx context.Context, owner string, id int64) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, owner, id)
}

// Create validates the input and inserts a new task owned by owner with the
// completion flag unset. Nothing is persisted when validation fails.
func (uc *UseCase) Create(ctx context.Context, owner string, input Input) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	due, err := domain.ParseDueDate(strings.TrimSpace(input.DueDate))
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		Owner:       owner,
		Title:       title,
		Description: input.Description,
		Done:        false,
		DueDate:     due,
		CreatedAt:   time.Now(),
	}

	return uc.tasks.Create(ctx, task)
}

// Toggle flips the completion flag in a single row-atomic statement.
func (uc *UseCase) Toggle(ctx context.Context, owner string, id int64) (*domain.Task, error) {
	return uc.tasks.Toggle(ctx, owner, id)
}

// Update replaces title, description, and due date. An empty trimmed title
// fails before anything is written.
func (uc *UseCase) Update(ctx context.Context, owner string, id int64, input Input) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	due, err := domain.ParseDueDate(strings.TrimSpace(input.DueDate))
	if err != nil {
		return nil, err
	}

	task, err := uc.tasks.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	task.Title = title
	task.Description = input.Description
	task.DueDate = due

	if err := uc.tasks.Update(ctx, task); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, task, err) {
			return task, nil
		}
		return nil, err
	}
	return task, nil
}

// ApplyPatch applies only the fields present in the patch. Field application
// is explicit per field rather than reflective.
func (uc *UseCase) ApplyPatch(ctx context.Context, owner string, id int64, patch Patch) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, domain.ErrEmptyTitle
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Done != nil {
		task.Done = *patch.Done
	}
	if patch.DueDate != nil {
		due, err := domain.ParseDueDate(strings.TrimSpace(*patch.DueDate))
		if err != nil {
			return nil, err
		}
		task.DueDate = due
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, task, err) {
			return task, nil
		}
		return nil, err
	}
	return task, nil
}

// Delete removes the row. A repeat delete reports not found rather than
// succeeding silently.
func (uc *UseCase) Delete(ctx context.Context, owner string, id int64) error {
	if err := uc.tasks.Delete(ctx, owner, id); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return err
		}
		task := &domain.Task{ID: id, Owner: owner}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, task, err) {
			return nil
		}
		return err
	}
	return nil
}

// shouldBuffer persists the operation for later replay when the primary
// store failed for infrastructure reasons. Validation and not-found failures
// are never buffered.
func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task, cause error) bool {
	if uc.buffer == nil {
		return false
	}
	if domain.IsDomainError(cause, domain.ErrCodeNotFound) || domain.IsDomainError(cause, domain.ErrCodeInvalid) {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation), zap.Error(cause))
	return true
}
