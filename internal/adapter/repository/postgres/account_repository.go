package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/logger"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const selectAccountByName = `
SELECT id, name, currency, current_balance, created_at, updated_at
FROM accounts
WHERE name = $1`

func (r *AccountRepository) GetOrCreate(ctx context.Context, name domain.AccountName) (domain.Account, error) {
	if !name.Valid() {
		return domain.Account{}, domain.ErrInvalidAccountName
	}

	account, err := r.GetByName(ctx, name)
	if err == nil {
		return account, nil
	}
	if err != domain.ErrRecordNotFound {
		return domain.Account{}, err
	}

	// Insert-or-ignore: a concurrent first access must neither duplicate the
	// till nor surface an error.
	const insert = `
INSERT INTO accounts (name, currency, current_balance)
VALUES ($1, $2, 0)
ON CONFLICT (name) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, insert, string(name), string(name.Currency())); err != nil {
		logger.Error("account repository provision failed", err, logger.Fields{
			"accountName": name,
		})
		return domain.Account{}, fmt.Errorf("provision account %s: %w", name, err)
	}

	logger.Info("account repository provisioned", logger.Fields{
		"accountName": name,
		"currency":    name.Currency(),
	})

	return r.GetByName(ctx, name)
}

func (r *AccountRepository) GetByName(ctx context.Context, name domain.AccountName) (domain.Account, error) {
	if !name.Valid() {
		return domain.Account{}, domain.ErrInvalidAccountName
	}

	var account domain.Account
	if err := r.db.QueryRowContext(ctx, selectAccountByName, string(name)).Scan(
		&account.ID,
		&account.Name,
		&account.Currency,
		&account.CurrentBalance,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		logger.Error("account repository get failed", err, logger.Fields{
			"accountName": name,
		})
		return domain.Account{}, fmt.Errorf("get account %s: %w", name, err)
	}

	return account, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	const query = `
SELECT id, name, currency, current_balance, created_at, updated_at
FROM accounts
ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("account repository list failed", err, nil)
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0, 2)
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.Name,
			&account.Currency,
			&account.CurrentBalance,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}
