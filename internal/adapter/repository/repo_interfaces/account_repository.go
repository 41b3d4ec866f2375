package repo_interfaces

import (
	"context"

	"github.com/BillyHamid/backendGlobal/internal/domain"
)

type AccountRepository interface {
	// GetOrCreate provisions the till on first reference with a zero balance
	// and the name-mapped currency. Safe under concurrent first access.
	GetOrCreate(ctx context.Context, name domain.AccountName) (domain.Account, error)
	GetByName(ctx context.Context, name domain.AccountName) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
}
