package service_interfaces

import (
	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/shopspring/decimal"
)

type FeeService interface {
	// Calculate returns the tiered fee for the amount in the given currency.
	Calculate(amount decimal.Decimal, currency domain.Currency) (decimal.Decimal, error)

	// Resolve applies an optional custom fee on top of the calculated one.
	// Discounts only: a custom fee above the calculated fee or below zero is
	// rejected with domain.ErrInvalidFeeOverride.
	Resolve(amount decimal.Decimal, currency domain.Currency, custom *decimal.Decimal) (decimal.Decimal, error)
}
