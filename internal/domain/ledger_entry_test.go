package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLedgerEntryValidate(t *testing.T) {
	valid := LedgerEntry{
		AccountName: AccountUSA,
		Type:        LedgerEntryCredit,
		Amount:      decimal.NewFromInt(100),
		Currency:    CurrencyUSD,
	}
	if err := valid.Validate(CurrencyUSD); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}

	badType := valid
	badType.Type = "TRANSFER"
	if err := badType.Validate(CurrencyUSD); !errors.Is(err, ErrInvalidEntryType) {
		t.Fatalf("expected ErrInvalidEntryType, got %v", err)
	}

	zeroAmount := valid
	zeroAmount.Amount = decimal.Zero
	if err := zeroAmount.Validate(CurrencyUSD); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero amount, got %v", err)
	}

	negativeAmount := valid
	negativeAmount.Amount = decimal.NewFromInt(-5)
	if err := negativeAmount.Validate(CurrencyUSD); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative amount, got %v", err)
	}

	wrongCurrency := valid
	wrongCurrency.Currency = CurrencyXOF
	if err := wrongCurrency.Validate(CurrencyUSD); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestLedgerEntrySignedAmount(t *testing.T) {
	amount := decimal.NewFromInt(250)

	credit := LedgerEntry{Type: LedgerEntryCredit, Amount: amount}
	if !credit.SignedAmount().Equal(amount) {
		t.Fatalf("credit signed amount = %s, want %s", credit.SignedAmount(), amount)
	}

	debit := LedgerEntry{Type: LedgerEntryDebit, Amount: amount}
	if !debit.SignedAmount().Equal(amount.Neg()) {
		t.Fatalf("debit signed amount = %s, want %s", debit.SignedAmount(), amount.Neg())
	}
}

func TestAccountNameCurrency(t *testing.T) {
	if AccountUSA.Currency() != CurrencyUSD {
		t.Fatalf("USA account currency = %s, want USD", AccountUSA.Currency())
	}
	if AccountBurkina.Currency() != CurrencyXOF {
		t.Fatalf("BURKINA account currency = %s, want XOF", AccountBurkina.Currency())
	}
	if AccountName("FRANCE").Valid() {
		t.Fatalf("unexpected valid account name FRANCE")
	}
}
