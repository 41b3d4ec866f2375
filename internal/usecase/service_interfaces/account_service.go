package service_interfaces

import (
	"context"

	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountService interface {
	GetOrCreate(ctx context.Context, name domain.AccountName) (domain.Account, error)
	GetBalance(ctx context.Context, name domain.AccountName) (decimal.Decimal, error)
	ListAll(ctx context.Context) ([]domain.Account, error)
}
