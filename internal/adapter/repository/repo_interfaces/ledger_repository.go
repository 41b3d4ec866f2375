package repo_interfaces

import (
	"context"

	"github.com/BillyHamid/backendGlobal/internal/domain"
)

type LedgerRepository interface {
	// Post validates the entry against the owning account, inserts it and
	// adjusts the account balance in a single transaction. The entry and the
	// balance change are never observable independently.
	Post(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error)
	History(ctx context.Context, name domain.AccountName, limit int) ([]domain.LedgerEntry, error)
	RecentAll(ctx context.Context, limit int) ([]domain.LedgerEntry, error)
	GetEntry(ctx context.Context, id string) (domain.LedgerEntry, error)
}
