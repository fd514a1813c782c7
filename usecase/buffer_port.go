package usecase

import (
	"context"

	"github.com/rew4n/smart-task-resource-manager/domain"
)

const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the write-behind buffer so the task use case
// stays storage-agnostic.
type OperationBuffer interface {
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
}
