package models

import (
	"errors"
	"strings"
	"time"

	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/shopspring/decimal"
)

var allowedSendMethods = []string{
	"cash",
	"mobile_money",
	"bank_deposit",
	"zelle",
	"cashapp",
	"orange_money",
	"moov_money",
	"wave",
}

type PartyPayload struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email,omitempty"`
	Country   string  `json:"country"`
	City      string  `json:"city"`
	IDType    *string `json:"idType,omitempty"`
	IDNumber  *string `json:"idNumber,omitempty"`
}

func (p PartyPayload) validate(label string) []string {
	var errs []string
	if strings.TrimSpace(p.FirstName) == "" {
		errs = append(errs, label+".firstName is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		errs = append(errs, label+".lastName is required")
	}
	if strings.TrimSpace(p.Phone) == "" {
		errs = append(errs, label+".phone is required")
	}
	if strings.TrimSpace(p.Country) == "" {
		errs = append(errs, label+".country is required")
	}
	return errs
}

func (p PartyPayload) ToDomain() domain.Party {
	return domain.Party{
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Phone:     strings.TrimSpace(p.Phone),
		Email:     p.Email,
		Country:   strings.TrimSpace(p.Country),
		City:      strings.TrimSpace(p.City),
		IDType:    p.IDType,
		IDNumber:  p.IDNumber,
	}
}

type CreateTransferRequest struct {
	Sender       PartyPayload     `json:"sender"`
	Beneficiary  PartyPayload     `json:"beneficiary"`
	AmountSent   decimal.Decimal  `json:"amountSent"`
	CurrencySent string           `json:"currencySent"`
	ExchangeRate decimal.Decimal  `json:"exchangeRate"`
	SendMethod   string           `json:"sendMethod"`
	Notes        *string          `json:"notes,omitempty"`
	CustomFees   *decimal.Decimal `json:"customFees,omitempty"`
}

func (r CreateTransferRequest) Validate() error {
	var errs []string

	errs = append(errs, r.Sender.validate("sender")...)
	errs = append(errs, r.Beneficiary.validate("beneficiary")...)

	if r.AmountSent.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amountSent must be greater than zero")
	}

	currency := strings.ToUpper(strings.TrimSpace(r.CurrencySent))
	if currency != string(domain.CurrencyUSD) && currency != string(domain.CurrencyXOF) {
		errs = append(errs, "currencySent must be USD or XOF")
	}

	if r.ExchangeRate.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "exchangeRate must be greater than zero")
	}

	if !isAllowedSendMethod(strings.TrimSpace(r.SendMethod)) {
		errs = append(errs, "sendMethod is not supported")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type ConfirmTransferRequest struct {
	TransferID    string  `json:"-"`
	ProofFilePath string  `json:"proofFilePath"`
	Comment       *string `json:"comment,omitempty"`
	ClientIP      *string `json:"-"`
}

func (r ConfirmTransferRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.TransferID) == "" {
		errs = append(errs, "transferId is required")
	}
	if strings.TrimSpace(r.ProofFilePath) == "" {
		errs = append(errs, "proofFilePath is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type CancelTransferRequest struct {
	TransferID string `json:"-"`
	Reason     string `json:"reason"`
}

func (r CancelTransferRequest) Validate() error {
	if strings.TrimSpace(r.TransferID) == "" {
		return errors.New("transferId is required")
	}
	return nil
}

type TransferResponse struct {
	ID                 string           `json:"id"`
	Reference          string           `json:"reference"`
	SenderName         string           `json:"senderName"`
	SenderPhone        string           `json:"senderPhone"`
	SenderCountry      string           `json:"senderCountry"`
	BeneficiaryName    string           `json:"beneficiaryName"`
	BeneficiaryPhone   string           `json:"beneficiaryPhone"`
	BeneficiaryCountry string           `json:"beneficiaryCountry"`
	BeneficiaryCity    string           `json:"beneficiaryCity"`
	AmountSent         decimal.Decimal  `json:"amountSent"`
	CurrencySent       string           `json:"currencySent"`
	ExchangeRate       decimal.Decimal  `json:"exchangeRate"`
	Fees               decimal.Decimal  `json:"fees"`
	AmountReceived     decimal.Decimal  `json:"amountReceived"`
	CurrencyReceived   string           `json:"currencyReceived"`
	SendMethod         string           `json:"sendMethod"`
	Status             string           `json:"status"`
	Notes              *string          `json:"notes,omitempty"`
	CreatedBy          string           `json:"createdBy"`
	PaidBy             *string          `json:"paidBy,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	PaidAt             *time.Time       `json:"paidAt,omitempty"`
	CancelledAt        *time.Time       `json:"cancelledAt,omitempty"`
	CancellationReason *string          `json:"cancellationReason,omitempty"`
	ProofFilePath      *string          `json:"proofFilePath,omitempty"`
}

func NewTransferResponse(t domain.Transfer) TransferResponse {
	return TransferResponse{
		ID:                 t.ID,
		Reference:          t.Reference,
		SenderName:         t.SenderName,
		SenderPhone:        t.SenderPhone,
		SenderCountry:      t.SenderCountry,
		BeneficiaryName:    t.BeneficiaryName,
		BeneficiaryPhone:   t.BeneficiaryPhone,
		BeneficiaryCountry: t.BeneficiaryCountry,
		BeneficiaryCity:    t.BeneficiaryCity,
		AmountSent:         t.AmountSent,
		CurrencySent:       string(t.CurrencySent),
		ExchangeRate:       t.ExchangeRate,
		Fees:               t.Fees,
		AmountReceived:     t.AmountReceived,
		CurrencyReceived:   string(t.CurrencyReceived),
		SendMethod:         t.SendMethod,
		Status:             string(t.Status),
		Notes:              t.Notes,
		CreatedBy:          t.CreatedBy,
		PaidBy:             t.PaidBy,
		CreatedAt:          t.CreatedAt,
		PaidAt:             t.PaidAt,
		CancelledAt:        t.CancelledAt,
		CancellationReason: t.CancellationReason,
		ProofFilePath:      t.ProofFilePath,
	}
}

func NewTransferResponses(transfers []domain.Transfer) []TransferResponse {
	responses := make([]TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		responses = append(responses, NewTransferResponse(t))
	}
	return responses
}

func isAllowedSendMethod(value string) bool {
	for _, allowed := range allowedSendMethods {
		if strings.EqualFold(allowed, value) {
			return true
		}
	}
	return false
}
