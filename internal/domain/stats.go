package domain

import "github.com/shopspring/decimal"

// CashTotals are the cumulative paid-transfer aggregates shown on the cash
// dashboard. Tmount covers the USA→BF corridor only; BF→USA flows are reported
// separately and do not count towards the partner profit share.
type CashTotals struct {
	TmountUSD                 decimal.Decimal
	TfeesUSD                  decimal.Decimal
	TmountXOF                 decimal.Decimal
	TfeesXOF                  decimal.Decimal
	BfaToUsaAmountSentXOF     decimal.Decimal
	BfaToUsaAmountReceivedUSD decimal.Decimal
	TotalPaidTransfers        int
	TotalPaidUsaToBf          int
	TotalPaidBfToUsa          int
}
