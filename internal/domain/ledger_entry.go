package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerEntryType string

const (
	LedgerEntryDebit  LedgerEntryType = "DEBIT"
	LedgerEntryCredit LedgerEntryType = "CREDIT"
)

// LedgerEntry is one immutable journal line against a till. There is no update
// or delete operation anywhere in the system; direction is carried by Type and
// Amount is always positive.
type LedgerEntry struct {
	ID            string
	AccountID     string
	AccountName   AccountName
	TransferID    *string
	Type          LedgerEntryType
	Amount        decimal.Decimal
	Currency      Currency
	Description   string
	CreatedBy     *string
	ProofFilePath *string
	CreatedAt     time.Time

	// Read-side decorations, populated by joins on history queries.
	CreatedByName     *string
	TransferReference *string
}

// Validate checks the posting preconditions against the owning account's
// currency. It must pass before any durable write happens.
func (e LedgerEntry) Validate(accountCurrency Currency) error {
	if e.Type != LedgerEntryDebit && e.Type != LedgerEntryCredit {
		return ErrInvalidEntryType
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if e.Currency != accountCurrency {
		return ErrCurrencyMismatch
	}
	return nil
}

// SignedAmount is the contribution of the entry to the account balance:
// positive for CREDIT, negative for DEBIT.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Type == LedgerEntryDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}
