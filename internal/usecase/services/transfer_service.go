package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BillyHamid/backendGlobal/internal/adapter/http/models"
	"github.com/BillyHamid/backendGlobal/internal/adapter/repository/repo_interfaces"
	"github.com/BillyHamid/backendGlobal/internal/commons"
	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/logger"
	"github.com/BillyHamid/backendGlobal/internal/usecase/service_interfaces"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	referenceAttempts   = 5
	sideEffectTimeout   = 20 * time.Second
	defaultCancelReason = "Cancelled by operator"
)

type TransferService struct {
	transfers repo_interfaces.TransferRepository
	fees      service_interfaces.FeeService
	audits    repo_interfaces.AuditRepository
	push      service_interfaces.PushNotifier
	whatsapp  service_interfaces.WhatsAppNotifier

	uploadDir    string
	topicCreated string
	topicPaid    string
}

var _ service_interfaces.TransferService = (*TransferService)(nil)

func NewTransferService(
	transfers repo_interfaces.TransferRepository,
	fees service_interfaces.FeeService,
	audits repo_interfaces.AuditRepository,
	push service_interfaces.PushNotifier,
	whatsapp service_interfaces.WhatsAppNotifier,
	uploadDir, topicCreated, topicPaid string,
) *TransferService {
	return &TransferService{
		transfers:    transfers,
		fees:         fees,
		audits:       audits,
		push:         push,
		whatsapp:     whatsapp,
		uploadDir:    uploadDir,
		topicCreated: topicCreated,
		topicPaid:    topicPaid,
	}
}

func (s *TransferService) Create(ctx context.Context, actor domain.User, req models.CreateTransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service create request", logger.Fields{
		"actor":   actor.Username,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("transfer service create validation failed", err, nil)
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}

	sender := req.Sender.ToDomain()
	beneficiary := req.Beneficiary.ToDomain()
	currencySent := domain.Currency(strings.ToUpper(strings.TrimSpace(req.CurrencySent)))

	fees, err := s.fees.Resolve(req.AmountSent, currencySent, req.CustomFees)
	if err != nil {
		logger.Error("transfer service fee resolution failed", err, nil)
		return commons.ErrorResponse[models.TransferResponse]("invalid fees", err.Error()), err
	}

	amountReceived, currencyReceived := convertForCorridor(req.AmountSent, req.ExchangeRate, sender.Country, beneficiary.Country)

	transfer := domain.Transfer{
		ID:                 uuid.New().String(),
		SenderCountry:      sender.Country,
		SenderName:         sender.FullName(),
		SenderPhone:        sender.Phone,
		BeneficiaryCountry: beneficiary.Country,
		BeneficiaryCity:    beneficiary.City,
		BeneficiaryName:    beneficiary.FullName(),
		BeneficiaryPhone:   beneficiary.Phone,
		AmountSent:         req.AmountSent,
		CurrencySent:       currencySent,
		ExchangeRate:       req.ExchangeRate,
		Fees:               fees,
		AmountReceived:     amountReceived,
		CurrencyReceived:   currencyReceived,
		SendMethod:         strings.TrimSpace(req.SendMethod),
		Status:             domain.TransferStatusPending,
		Notes:              req.Notes,
		CreatedBy:          actor.ID,
	}

	// Cash arrived at the origin cashier: credit the sender-country till for
	// the sent amount in the sent currency.
	credit := domain.LedgerEntry{
		AccountName: domain.AccountForCountry(sender.Country),
		Type:        domain.LedgerEntryCredit,
		Amount:      req.AmountSent,
		Currency:    currencySent,
		CreatedBy:   &actor.ID,
	}

	var created domain.Transfer
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		transfer.Reference = newReference()
		credit.Description = fmt.Sprintf("Cash in for transfer %s from %s", transfer.Reference, transfer.SenderName)

		outbox, err := s.outboxMessage(s.topicCreated, transfer)
		if err != nil {
			return commons.ErrorResponse[models.TransferResponse]("failed to create transfer", "Unable to create transfer right now"), err
		}

		created, err = s.transfers.CreateWithPosting(ctx, transfer, credit, outbox)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicateReference) && attempt < referenceAttempts-1 {
			continue
		}
		logger.Error("transfer service create failed", err, logger.Fields{
			"reference": transfer.Reference,
		})
		return s.mapTransferError(err, "failed to create transfer")
	}

	s.runSideEffects("create", func(ctx context.Context) {
		if s.push != nil {
			if err := s.push.TransferCreated(ctx, created); err != nil {
				logger.Error("transfer created push notification failed", err, logger.Fields{
					"reference": created.Reference,
				})
			}
		}
	})

	logger.Info("transfer service create success", logger.Fields{
		"transferId":     created.ID,
		"reference":      created.Reference,
		"amountReceived": created.AmountReceived,
	})

	return commons.SuccessResponse("transfer created successfully", models.NewTransferResponse(created)), nil
}

func (s *TransferService) Confirm(ctx context.Context, actor domain.User, req models.ConfirmTransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service confirm request", logger.Fields{
		"actor":      actor.Username,
		"transferId": req.TransferID,
	})

	if err := req.Validate(); err != nil {
		logger.Error("transfer service confirm validation failed", err, nil)
		if strings.TrimSpace(req.ProofFilePath) == "" && strings.TrimSpace(req.TransferID) != "" {
			return commons.ErrorResponse[models.TransferResponse]("validation failed", domain.ErrProofRequired.Error()), domain.ErrProofRequired
		}
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}

	transfer, err := s.transfers.GetByID(ctx, req.TransferID)
	if err != nil {
		return s.mapTransferError(err, "failed to confirm transfer")
	}

	if err := authorizeConfirmation(actor, transfer); err != nil {
		logger.Error("transfer service confirm authorization failed", err, logger.Fields{
			"transferId":   transfer.ID,
			"actorCountry": actor.Country,
		})
		return commons.ErrorResponse[models.TransferResponse]("forbidden", err.Error()), err
	}

	// Cash left the paying cashier: debit the payer-country till for the
	// received amount in the received currency.
	debit := domain.LedgerEntry{
		AccountName: payerAccount(transfer),
		Type:        domain.LedgerEntryDebit,
		Amount:      transfer.AmountReceived,
		Currency:    transfer.CurrencyReceived,
		Description: fmt.Sprintf("Payout for transfer %s to %s", transfer.Reference, transfer.BeneficiaryName),
		CreatedBy:   &actor.ID,
	}

	paidView := transfer
	paidView.Status = domain.TransferStatusPaid
	outbox, err := s.outboxMessage(s.topicPaid, paidView)
	if err != nil {
		return commons.ErrorResponse[models.TransferResponse]("failed to confirm transfer", "Unable to confirm transfer right now"), err
	}

	confirmed, err := s.transfers.ConfirmWithPosting(ctx, repo_interfaces.ConfirmPosting{
		TransferID:    transfer.ID,
		PaidBy:        actor.ID,
		ProofFilePath: strings.TrimSpace(req.ProofFilePath),
		Comment:       req.Comment,
		ClientIP:      req.ClientIP,
		Debit:         debit,
		Outbox:        outbox,
	})
	if err != nil {
		logger.Error("transfer service confirm failed", err, logger.Fields{
			"transferId": transfer.ID,
		})
		return s.mapTransferError(err, "failed to confirm transfer")
	}

	s.runSideEffects("confirm", func(ctx context.Context) {
		s.auditConfirmation(ctx, actor, transfer, confirmed, req)
		if s.push != nil {
			if err := s.push.TransferPaid(ctx, confirmed); err != nil {
				logger.Error("transfer paid push notification failed", err, logger.Fields{
					"reference": confirmed.Reference,
				})
			}
		}
		if s.whatsapp != nil {
			if err := s.whatsapp.TransferPaid(ctx, confirmed); err != nil {
				logger.Error("transfer paid whatsapp notification failed", err, logger.Fields{
					"reference": confirmed.Reference,
				})
			}
		}
	})

	logger.Info("transfer service confirm success", logger.Fields{
		"transferId": confirmed.ID,
		"reference":  confirmed.Reference,
		"paidBy":     actor.Username,
	})

	return commons.SuccessResponse("transfer confirmed successfully", models.NewTransferResponse(confirmed)), nil
}

// PayLegacy flips a pending transfer to paid without proof and without any
// ledger posting. Pre-existing behavior kept for old clients; balances diverge
// from the confirm path on purpose.
func (s *TransferService) PayLegacy(ctx context.Context, actor domain.User, transferID string) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service legacy pay request", logger.Fields{
		"actor":      actor.Username,
		"transferId": transferID,
	})

	paid, err := s.transfers.MarkPaid(ctx, transferID, actor.ID)
	if err != nil {
		logger.Error("transfer service legacy pay failed", err, logger.Fields{
			"transferId": transferID,
		})
		return s.mapTransferError(err, "failed to pay transfer")
	}

	return commons.SuccessResponse("transfer paid successfully", models.NewTransferResponse(paid)), nil
}

func (s *TransferService) Cancel(ctx context.Context, actor domain.User, req models.CancelTransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service cancel request", logger.Fields{
		"actor":      actor.Username,
		"transferId": req.TransferID,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultCancelReason
	}

	cancelled, err := s.transfers.Cancel(ctx, req.TransferID, reason)
	if err != nil {
		logger.Error("transfer service cancel failed", err, logger.Fields{
			"transferId": req.TransferID,
		})
		return s.mapTransferError(err, "failed to cancel transfer")
	}

	return commons.SuccessResponse("transfer cancelled successfully", models.NewTransferResponse(cancelled)), nil
}

func (s *TransferService) Delete(ctx context.Context, actor domain.User, transferID string) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service delete request", logger.Fields{
		"actor":      actor.Username,
		"transferId": transferID,
	})

	if !actor.IsAdmin() {
		return commons.ErrorResponse[models.TransferResponse]("forbidden", domain.ErrAdminOnly.Error()), domain.ErrAdminOnly
	}

	deleted, err := s.transfers.Delete(ctx, transferID)
	if err != nil {
		logger.Error("transfer service delete failed", err, logger.Fields{
			"transferId": transferID,
		})
		return s.mapTransferError(err, "failed to delete transfer")
	}

	s.runSideEffects("delete", func(ctx context.Context) {
		s.removeProofFile(deleted)
		s.auditDeletion(ctx, actor, deleted)
	})

	logger.Info("transfer service delete success", logger.Fields{
		"transferId": deleted.ID,
		"reference":  deleted.Reference,
	})

	return commons.SuccessResponse("transfer deleted successfully", models.NewTransferResponse(deleted)), nil
}

func (s *TransferService) GetByID(ctx context.Context, transferID string) (commons.Response[models.TransferResponse], error) {
	transfer, err := s.transfers.GetByID(ctx, transferID)
	if err != nil {
		return s.mapTransferError(err, "failed to get transfer")
	}
	return commons.SuccessResponse("transfer fetched successfully", models.NewTransferResponse(transfer)), nil
}

func (s *TransferService) GetByReference(ctx context.Context, reference string) (commons.Response[models.TransferResponse], error) {
	transfer, err := s.transfers.GetByReference(ctx, reference)
	if err != nil {
		return s.mapTransferError(err, "failed to get transfer")
	}
	return commons.SuccessResponse("transfer fetched successfully", models.NewTransferResponse(transfer)), nil
}

func (s *TransferService) ListPending(ctx context.Context, actor domain.User) (commons.Response[[]models.TransferResponse], error) {
	pending, err := s.transfers.ListPending(ctx, "")
	if err != nil {
		logger.Error("transfer service list pending failed", err, nil)
		return commons.ErrorResponse[[]models.TransferResponse]("failed to list transfers", "Unable to list transfers right now"), err
	}

	// BF payer agents only see transfers they can pay out.
	if actor.RestrictedToBurkinaTill() {
		filtered := pending[:0]
		for _, t := range pending {
			if domain.IsBurkinaCountry(t.BeneficiaryCountry) {
				filtered = append(filtered, t)
			}
		}
		pending = filtered
	}

	return commons.SuccessResponse("pending transfers fetched successfully", models.NewTransferResponses(pending)), nil
}

func (s *TransferService) DownloadProof(ctx context.Context, actor domain.User, transferID string, clientIP *string) (string, error) {
	transfer, err := s.transfers.GetByID(ctx, transferID)
	if err != nil {
		return "", err
	}

	// BF-restricted agents only handle payouts on their side of the corridor;
	// the proofs they may read follow the same line.
	if actor.RestrictedToBurkinaTill() && !domain.IsBurkinaCountry(transfer.BeneficiaryCountry) {
		return "", domain.ErrBurkinaTillOnly
	}

	if transfer.ProofFilePath == nil || *transfer.ProofFilePath == "" {
		return "", domain.ErrRecordNotFound
	}
	path := filepath.Join(s.uploadDir, filepath.Clean(*transfer.ProofFilePath))

	s.runSideEffects("proof-download", func(ctx context.Context) {
		s.auditProofDownload(ctx, actor, transfer, clientIP)
	})

	return path, nil
}

// convertForCorridor computes the payout amount and currency. Unknown pairings
// fall back to the USA→BFA rule.
func convertForCorridor(amountSent, rate decimal.Decimal, senderCountry, beneficiaryCountry string) (decimal.Decimal, domain.Currency) {
	if domain.IsBurkinaCountry(senderCountry) && domain.IsUSACountry(beneficiaryCountry) {
		return amountSent.Div(rate).Round(2), domain.CurrencyUSD
	}
	return amountSent.Mul(rate).Round(0), domain.CurrencyXOF
}

// authorizeConfirmation enforces the opposite-country rule: a transfer created
// on one side of the corridor is paid out, and therefore confirmed, on the
// other. Admins and supervisors are exempt.
func authorizeConfirmation(actor domain.User, transfer domain.Transfer) error {
	if actor.CanOverrideCountryRule() {
		return nil
	}
	if domain.IsBurkinaCountry(transfer.SenderCountry) {
		if !domain.IsUSACountry(actor.Country) {
			return domain.ErrUnauthorizedCountryConfirmation
		}
		return nil
	}
	if !domain.IsBurkinaCountry(actor.Country) {
		return domain.ErrUnauthorizedCountryConfirmation
	}
	return nil
}

// payerAccount is the till the payout leaves from: the opposite side of the
// corridor from the sender.
func payerAccount(transfer domain.Transfer) domain.AccountName {
	if domain.IsBurkinaCountry(transfer.SenderCountry) {
		return domain.AccountUSA
	}
	return domain.AccountBurkina
}

func newReference() string {
	return fmt.Sprintf("GX-%d-%06d", time.Now().Year(), rand.IntN(1000000))
}

type transferEvent struct {
	TransferID         string `json:"transferId"`
	Reference          string `json:"reference"`
	Status             string `json:"status"`
	SenderCountry      string `json:"senderCountry"`
	BeneficiaryCountry string `json:"beneficiaryCountry"`
	AmountSent         string `json:"amountSent"`
	CurrencySent       string `json:"currencySent"`
	AmountReceived     string `json:"amountReceived"`
	CurrencyReceived   string `json:"currencyReceived"`
	Fees               string `json:"fees"`
}

func (s *TransferService) outboxMessage(topic string, transfer domain.Transfer) (domain.OutboxMessage, error) {
	payload, err := json.Marshal(transferEvent{
		TransferID:         transfer.ID,
		Reference:          transfer.Reference,
		Status:             string(transfer.Status),
		SenderCountry:      transfer.SenderCountry,
		BeneficiaryCountry: transfer.BeneficiaryCountry,
		AmountSent:         transfer.AmountSent.String(),
		CurrencySent:       string(transfer.CurrencySent),
		AmountReceived:     transfer.AmountReceived.String(),
		CurrencyReceived:   string(transfer.CurrencyReceived),
		Fees:               transfer.Fees.String(),
	})
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("marshal %s event: %w", topic, err)
	}

	return domain.OutboxMessage{
		MessageKey: transfer.ID,
		Topic:      topic,
		Payload:    string(payload),
	}, nil
}

// runSideEffects executes best-effort work after the settlement committed.
// Panics and errors stay behind this boundary.
func (s *TransferService) runSideEffects(stage string, fn func(ctx context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("transfer side effects panicked", fmt.Errorf("%v", r), logger.Fields{
					"stage": stage,
				})
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (s *TransferService) auditConfirmation(ctx context.Context, actor domain.User, before, after domain.Transfer, req models.ConfirmTransferRequest) {
	oldValues, _ := json.Marshal(map[string]string{"status": string(before.Status)})
	newValues, _ := json.Marshal(map[string]string{
		"status":        string(after.Status),
		"proofFilePath": strings.TrimSpace(req.ProofFilePath),
	})
	previous := string(oldValues)
	updated := string(newValues)

	if err := s.audits.Log(ctx, domain.AuditLog{
		UserID:     &actor.ID,
		Action:     domain.AuditActionConfirmationWithProof,
		EntityType: "transfer",
		EntityID:   after.ID,
		OldValues:  &previous,
		NewValues:  &updated,
		IPAddress:  req.ClientIP,
	}); err != nil {
		logger.Error("transfer confirmation audit failed", err, logger.Fields{
			"transferId": after.ID,
		})
	}
}

func (s *TransferService) auditDeletion(ctx context.Context, actor domain.User, deleted domain.Transfer) {
	oldValues, _ := json.Marshal(map[string]string{
		"reference": deleted.Reference,
		"status":    string(deleted.Status),
	})
	old := string(oldValues)

	if err := s.audits.Log(ctx, domain.AuditLog{
		UserID:     &actor.ID,
		Action:     domain.AuditActionTransferDeleted,
		EntityType: "transfer",
		EntityID:   deleted.ID,
		OldValues:  &old,
	}); err != nil {
		logger.Error("transfer deletion audit failed", err, logger.Fields{
			"transferId": deleted.ID,
		})
	}
}

func (s *TransferService) auditProofDownload(ctx context.Context, actor domain.User, transfer domain.Transfer, clientIP *string) {
	if err := s.audits.Log(ctx, domain.AuditLog{
		UserID:     &actor.ID,
		Action:     domain.AuditActionProofDownload,
		EntityType: "transfer",
		EntityID:   transfer.ID,
		IPAddress:  clientIP,
	}); err != nil {
		logger.Error("transfer proof download audit failed", err, logger.Fields{
			"transferId": transfer.ID,
		})
	}
}

func (s *TransferService) removeProofFile(deleted domain.Transfer) {
	if deleted.ProofFilePath == nil || *deleted.ProofFilePath == "" {
		return
	}
	path := filepath.Join(s.uploadDir, filepath.Clean(*deleted.ProofFilePath))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Error("transfer proof file removal failed", err, logger.Fields{
			"path": path,
		})
	}
}

func (s *TransferService) mapTransferError(err error, message string) (commons.Response[models.TransferResponse], error) {
	switch {
	case errors.Is(err, domain.ErrTransferNotFound),
		errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrInvalidStatusForConfirmation),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrUnauthorizedCountryConfirmation),
		errors.Is(err, domain.ErrInvalidFeeOverride),
		errors.Is(err, domain.ErrUnsupportedCurrency),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAdminOnly):
		return commons.ErrorResponse[models.TransferResponse](message, err.Error()), err
	default:
		return commons.ErrorResponse[models.TransferResponse](message, "Unable to process the transfer right now"), err
	}
}
