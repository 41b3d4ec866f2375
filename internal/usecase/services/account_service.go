package services

import (
	"context"

	"github.com/BillyHamid/backendGlobal/internal/adapter/repository/repo_interfaces"
	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/usecase/service_interfaces"
	"github.com/shopspring/decimal"
)

type AccountService struct {
	accounts repo_interfaces.AccountRepository
}

var _ service_interfaces.AccountService = (*AccountService)(nil)

func NewAccountService(accounts repo_interfaces.AccountRepository) *AccountService {
	return &AccountService{accounts: accounts}
}

func (s *AccountService) GetOrCreate(ctx context.Context, name domain.AccountName) (domain.Account, error) {
	return s.accounts.GetOrCreate(ctx, name)
}

func (s *AccountService) GetBalance(ctx context.Context, name domain.AccountName) (decimal.Decimal, error) {
	account, err := s.accounts.GetOrCreate(ctx, name)
	if err != nil {
		return decimal.Zero, err
	}
	return account.CurrentBalance, nil
}

func (s *AccountService) ListAll(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}
