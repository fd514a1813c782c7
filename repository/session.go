package repository

import (
	"context"

	"github.com/rew4n/smart-task-resource-manager/domain"
)

type SessionRepository interface {
	Get(ctx context.Context, token string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, token string) error
}
