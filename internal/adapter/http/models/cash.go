package models

import (
	"errors"
	"strings"
	"time"

	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/shopspring/decimal"
)

type CashEntryRequest struct {
	AccountName   string          `json:"accountName"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	ProofFilePath string          `json:"proofFilePath"`
}

func (r CashEntryRequest) Validate() error {
	var errs []string

	if !domain.AccountName(strings.TrimSpace(r.AccountName)).Valid() {
		errs = append(errs, "accountName must be USA or BURKINA")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}
	if strings.TrimSpace(r.Description) == "" {
		errs = append(errs, "description is required")
	}
	if strings.TrimSpace(r.ProofFilePath) == "" {
		errs = append(errs, "proofFilePath is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type CashExpenseRequest struct {
	AccountName string          `json:"accountName"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (r CashExpenseRequest) Validate() error {
	var errs []string

	if !domain.AccountName(strings.TrimSpace(r.AccountName)).Valid() {
		errs = append(errs, "accountName must be USA or BURKINA")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}
	if strings.TrimSpace(r.Description) == "" {
		errs = append(errs, "description is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type LedgerEntryResponse struct {
	ID                string          `json:"id"`
	AccountName       string          `json:"accountName"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Description       string          `json:"description"`
	TransferReference *string         `json:"transferReference,omitempty"`
	CreatedByName     *string         `json:"createdByName,omitempty"`
	ProofFilePath     *string         `json:"proofFilePath,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

func NewLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:                e.ID,
		AccountName:       string(e.AccountName),
		Type:              string(e.Type),
		Amount:            e.Amount,
		Currency:          string(e.Currency),
		Description:       e.Description,
		TransferReference: e.TransferReference,
		CreatedByName:     e.CreatedByName,
		ProofFilePath:     e.ProofFilePath,
		CreatedAt:         e.CreatedAt,
	}
}

func NewLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, NewLedgerEntryResponse(e))
	}
	return responses
}

type CashDashboardResponse struct {
	UsaBalance                decimal.Decimal       `json:"usaBalance"`
	BurkinaBalance            decimal.Decimal       `json:"burkinaBalance"`
	TmountUSD                 decimal.Decimal       `json:"tmountUsd"`
	TfeesUSD                  decimal.Decimal       `json:"tfeesUsd"`
	TmountXOF                 decimal.Decimal       `json:"tmountXof"`
	TfeesXOF                  decimal.Decimal       `json:"tfeesXof"`
	BfaToUsaAmountSentXOF     decimal.Decimal       `json:"bfaToUsaAmountSentXof"`
	BfaToUsaAmountReceivedUSD decimal.Decimal       `json:"bfaToUsaAmountReceivedUsd"`
	TotalPaidTransfers        int                   `json:"totalPaidTransfers"`
	TotalPaidUsaToBf          int                   `json:"totalPaidUsaToBf"`
	TotalPaidBfToUsa          int                   `json:"totalPaidBfToUsa"`
	ProfitUSD                 decimal.Decimal       `json:"profitUsd"`
	PartnerShareUSD           decimal.Decimal       `json:"partnerShareUsd"`
	RecentEntries             []LedgerEntryResponse `json:"recentEntries"`
}
