package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransferStatus string

const (
	TransferStatusPending    TransferStatus = "pending"
	TransferStatusInProgress TransferStatus = "in_progress"
	TransferStatusPaid       TransferStatus = "paid"
	TransferStatusCancelled  TransferStatus = "cancelled"
)

// validTransferTransitions encodes the monotonic lifecycle: paid and cancelled
// are terminal.
var validTransferTransitions = map[TransferStatus][]TransferStatus{
	TransferStatusPending:    {TransferStatusInProgress, TransferStatusPaid, TransferStatusCancelled},
	TransferStatusInProgress: {TransferStatusPaid, TransferStatusCancelled},
}

func CanTransitionTo(current, target TransferStatus) bool {
	allowed, ok := validTransferTransitions[current]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

const (
	CountryUSA     = "USA"
	CountryBurkina = "BFA"
)

// IsBurkinaCountry accepts the code and the spelled-out variants that show up
// in operator records ("BFA", "Burkina Faso").
func IsBurkinaCountry(country string) bool {
	c := strings.TrimSpace(country)
	if c == "" {
		return false
	}
	return c == CountryBurkina || strings.Contains(strings.ToLower(c), "burkina")
}

func IsUSACountry(country string) bool {
	c := strings.TrimSpace(country)
	if c == "" {
		return false
	}
	return strings.EqualFold(c, CountryUSA) || strings.EqualFold(c, "United States") || c == "États-Unis"
}

// AccountForCountry maps a corridor country to the till that holds its cash.
func AccountForCountry(country string) AccountName {
	if IsBurkinaCountry(country) {
		return AccountBurkina
	}
	return AccountUSA
}

type Party struct {
	ID        *string
	FirstName string
	LastName  string
	Phone     string
	Email     *string
	Country   string
	City      string
	IDType    *string
	IDNumber  *string
}

func (p Party) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Transfer struct {
	ID                  string
	Reference           string
	SenderID            *string
	SenderCountry       string
	SenderName          string
	SenderPhone         string
	BeneficiaryID       *string
	BeneficiaryCountry  string
	BeneficiaryCity     string
	BeneficiaryName     string
	BeneficiaryPhone    string
	AmountSent          decimal.Decimal
	CurrencySent        Currency
	ExchangeRate        decimal.Decimal
	Fees                decimal.Decimal
	AmountReceived      decimal.Decimal
	CurrencyReceived    Currency
	SendMethod          string
	Status              TransferStatus
	Notes               *string
	CreatedBy           string
	PaidBy              *string
	CreatedAt           time.Time
	PaidAt              *time.Time
	CancelledAt         *time.Time
	CancellationReason  *string
	ProofFilePath       *string
	ConfirmationComment *string
	ConfirmedAt         *time.Time
	ConfirmationIP      *string
}
