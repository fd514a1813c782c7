package repository

import (
	"context"

	"github.com/rew4n/smart-task-resource-manager/domain"
)

// TaskRepository persists tasks. Every read and mutation is scoped by the
// owning identity; an id owned by someone else behaves like a missing row.
type TaskRepository interface {
	List(ctx context.Context, owner string) ([]domain.Task, error)
	GetByID(ctx context.Context, owner string, id int64) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Toggle(ctx context.Context, owner string, id int64) (*domain.Task, error)
	Delete(ctx context.Context, owner string, id int64) error
}
