package repo_interfaces

import (
	"context"

	"github.com/BillyHamid/backendGlobal/internal/domain"
)

// ConfirmPosting carries everything the confirmation settlement needs to apply
// atomically: the status change, the DEBIT leg and the outbox event.
type ConfirmPosting struct {
	TransferID    string
	PaidBy        string
	ProofFilePath string
	Comment       *string
	ClientIP      *string
	Debit         domain.LedgerEntry
	Outbox        domain.OutboxMessage
}

type TransferRepository interface {
	// CreateWithPosting inserts the transfer, posts the origin CREDIT leg,
	// adjusts the till balance and writes the outbox row in one transaction.
	CreateWithPosting(ctx context.Context, transfer domain.Transfer, credit domain.LedgerEntry, outbox domain.OutboxMessage) (domain.Transfer, error)

	// ConfirmWithPosting flips status pending→paid with a rows-affected guard,
	// posts the payout DEBIT leg and writes the outbox row in one transaction.
	// Concurrent confirmations lose the race and get
	// domain.ErrInvalidStatusForConfirmation.
	ConfirmWithPosting(ctx context.Context, posting ConfirmPosting) (domain.Transfer, error)

	// MarkPaid is the legacy no-proof pay path: status CAS only, no posting.
	MarkPaid(ctx context.Context, id, paidBy string) (domain.Transfer, error)

	Cancel(ctx context.Context, id, reason string) (domain.Transfer, error)
	Delete(ctx context.Context, id string) (domain.Transfer, error)

	GetByID(ctx context.Context, id string) (domain.Transfer, error)
	GetByReference(ctx context.Context, reference string) (domain.Transfer, error)
	ListPending(ctx context.Context, beneficiaryCountry string) ([]domain.Transfer, error)
	DashboardTotals(ctx context.Context) (domain.CashTotals, error)
}
