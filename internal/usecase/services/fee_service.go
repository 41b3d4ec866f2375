package services

import (
	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/usecase/service_interfaces"
	"github.com/shopspring/decimal"
)

type feeTier struct {
	min decimal.Decimal
	max decimal.Decimal
	fee decimal.Decimal
}

func tier(min, max, fee int64) feeTier {
	return feeTier{
		min: decimal.NewFromInt(min),
		max: decimal.NewFromInt(max),
		fee: decimal.NewFromInt(fee),
	}
}

// The XOF table mirrors the USD table scaled by the 615 corridor rate.
var (
	usdTiers = []feeTier{
		tier(1, 100, 5),
		tier(101, 200, 8),
		tier(201, 500, 10),
		tier(501, 800, 15),
		tier(801, 1000, 20),
	}
	xofTiers = []feeTier{
		tier(1, 61500, 3075),
		tier(61501, 123000, 4920),
		tier(123001, 307500, 6150),
		tier(307501, 492000, 9225),
		tier(492001, 615000, 12300),
	}
)

type FeeService struct{}

var _ service_interfaces.FeeService = (*FeeService)(nil)

func NewFeeService() *FeeService {
	return &FeeService{}
}

func (s *FeeService) Calculate(amount decimal.Decimal, currency domain.Currency) (decimal.Decimal, error) {
	var tiers []feeTier
	switch currency {
	case domain.CurrencyUSD:
		tiers = usdTiers
	case domain.CurrencyXOF:
		tiers = xofTiers
	default:
		return decimal.Zero, domain.ErrUnsupportedCurrency
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	top := tiers[len(tiers)-1]
	if amount.GreaterThan(top.max) {
		// Above the table the fee is the top fee per full block of the top
		// bound; the remainder is dropped, not billed at tier rates.
		blocks := amount.Div(top.max).Floor()
		return blocks.Mul(top.fee), nil
	}

	for _, t := range tiers {
		if amount.GreaterThanOrEqual(t.min) && amount.LessThanOrEqual(t.max) {
			return t.fee, nil
		}
	}

	// Amounts falling between integer tier bounds get the lowest tier fee.
	return tiers[0].fee, nil
}

func (s *FeeService) Resolve(amount decimal.Decimal, currency domain.Currency, custom *decimal.Decimal) (decimal.Decimal, error) {
	calculated, err := s.Calculate(amount, currency)
	if err != nil {
		return decimal.Zero, err
	}
	if custom == nil {
		return calculated, nil
	}
	if custom.IsNegative() || custom.GreaterThan(calculated) {
		return decimal.Zero, domain.ErrInvalidFeeOverride
	}
	return *custom, nil
}
