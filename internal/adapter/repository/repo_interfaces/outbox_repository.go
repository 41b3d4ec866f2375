package repo_interfaces

import (
	"context"

	"github.com/BillyHamid/backendGlobal/internal/domain"
)

type OutboxRepository interface {
	GetPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error)
	MarkSent(ctx context.Context, id string) error
	IncrementRetryCount(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}
