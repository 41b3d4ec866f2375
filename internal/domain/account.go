package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyXOF Currency = "XOF"
)

// AccountName is the closed set of cash tills. Each till has a fixed currency:
// the USA till holds USD, the BURKINA till holds XOF.
type AccountName string

const (
	AccountUSA     AccountName = "USA"
	AccountBurkina AccountName = "BURKINA"
)

func (n AccountName) Valid() bool {
	return n == AccountUSA || n == AccountBurkina
}

func (n AccountName) Currency() Currency {
	if n == AccountBurkina {
		return CurrencyXOF
	}
	return CurrencyUSD
}

// Account is one of the two cash positions. CurrentBalance is derived: it must
// always equal the sum of CREDIT entry amounts minus DEBIT entry amounts over
// the account's ledger entries.
type Account struct {
	ID             string
	Name           AccountName
	Currency       Currency
	CurrentBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
