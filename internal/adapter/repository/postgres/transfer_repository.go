package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/BillyHamid/backendGlobal/internal/adapter/repository/repo_interfaces"
	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/logger"
	"github.com/google/uuid"
)

type TransferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

const selectTransferColumns = `
SELECT id, reference, sender_id, sender_country, sender_name, sender_phone,
       beneficiary_id, beneficiary_country, beneficiary_city, beneficiary_name, beneficiary_phone,
       amount_sent, currency_sent, exchange_rate, fees, amount_received, currency_received,
       send_method, status, notes, created_by, paid_by,
       created_at, paid_at, cancelled_at, cancellation_reason,
       proof_file_path, confirmation_comment, confirmed_at, confirmation_ip
FROM transfers`

func (r *TransferRepository) CreateWithPosting(ctx context.Context, transfer domain.Transfer, credit domain.LedgerEntry, outbox domain.OutboxMessage) (domain.Transfer, error) {
	logger.Info("transfer repository create", logger.Fields{
		"reference":     transfer.Reference,
		"senderCountry": transfer.SenderCountry,
		"amountSent":    transfer.AmountSent,
		"currencySent":  transfer.CurrencySent,
	})

	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Transfer{}, fmt.Errorf("begin create transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertTransfer = `
INSERT INTO transfers (
	id, reference, sender_id, sender_country, sender_name, sender_phone,
	beneficiary_id, beneficiary_country, beneficiary_city, beneficiary_name, beneficiary_phone,
	amount_sent, currency_sent, exchange_rate, fees, amount_received, currency_received,
	send_method, status, notes, created_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
RETURNING created_at`

	err = tx.QueryRowContext(
		ctx,
		insertTransfer,
		transfer.ID,
		transfer.Reference,
		transfer.SenderID,
		transfer.SenderCountry,
		transfer.SenderName,
		transfer.SenderPhone,
		transfer.BeneficiaryID,
		transfer.BeneficiaryCountry,
		transfer.BeneficiaryCity,
		transfer.BeneficiaryName,
		transfer.BeneficiaryPhone,
		transfer.AmountSent,
		string(transfer.CurrencySent),
		transfer.ExchangeRate,
		transfer.Fees,
		transfer.AmountReceived,
		string(transfer.CurrencyReceived),
		transfer.SendMethod,
		string(domain.TransferStatusPending),
		transfer.Notes,
		transfer.CreatedBy,
	).Scan(&transfer.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Transfer{}, domain.ErrDuplicateReference
		}
		logger.Error("transfer repository insert failed", err, logger.Fields{
			"reference": transfer.Reference,
		})
		return domain.Transfer{}, fmt.Errorf("insert transfer %s: %w", transfer.Reference, err)
	}
	transfer.Status = domain.TransferStatusPending

	credit.TransferID = &transfer.ID
	if _, err = postEntryTx(ctx, tx, credit); err != nil {
		return domain.Transfer{}, err
	}

	if err = insertOutboxTx(ctx, tx, outbox); err != nil {
		return domain.Transfer{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Transfer{}, fmt.Errorf("commit create transaction: %w", err)
	}

	logger.Info("transfer repository create success", logger.Fields{
		"transferId": transfer.ID,
		"reference":  transfer.Reference,
	})

	return transfer, nil
}

func (r *TransferRepository) ConfirmWithPosting(ctx context.Context, posting repo_interfaces.ConfirmPosting) (domain.Transfer, error) {
	logger.Info("transfer repository confirm", logger.Fields{
		"transferId": posting.TransferID,
		"paidBy":     posting.PaidBy,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Transfer{}, fmt.Errorf("begin confirm transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Compare-and-set on status: of two concurrent confirmations exactly one
	// matches the pending row, the other scans no rows and is rejected after a
	// status re-read.
	const confirm = `
UPDATE transfers
SET status = $2,
    paid_by = $3,
    paid_at = NOW(),
    proof_file_path = $4,
    confirmation_comment = $5,
    confirmed_at = NOW(),
    confirmation_ip = $6
WHERE id = $1 AND status = $7` + transferReturning

	row := tx.QueryRowContext(
		ctx,
		confirm,
		posting.TransferID,
		string(domain.TransferStatusPaid),
		posting.PaidBy,
		posting.ProofFilePath,
		posting.Comment,
		posting.ClientIP,
		string(domain.TransferStatusPending),
	)

	var transfer domain.Transfer
	transfer, err = scanTransfer(row)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			err = r.classifyConfirmLoss(ctx, posting.TransferID)
		}
		return domain.Transfer{}, err
	}

	debit := posting.Debit
	debit.TransferID = &transfer.ID
	if _, err = postEntryTx(ctx, tx, debit); err != nil {
		return domain.Transfer{}, err
	}

	if err = insertOutboxTx(ctx, tx, posting.Outbox); err != nil {
		return domain.Transfer{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Transfer{}, fmt.Errorf("commit confirm transaction: %w", err)
	}

	logger.Info("transfer repository confirm success", logger.Fields{
		"transferId": transfer.ID,
		"reference":  transfer.Reference,
	})

	return transfer, nil
}

// classifyConfirmLoss re-reads the row outside the failed CAS to tell a missing
// transfer apart from one already settled by a concurrent request.
func (r *TransferRepository) classifyConfirmLoss(ctx context.Context, id string) error {
	var status domain.TransferStatus
	if err := r.db.QueryRowContext(ctx, `SELECT status FROM transfers WHERE id = $1`, id).Scan(&status); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrTransferNotFound
		}
		return fmt.Errorf("re-read transfer %s status: %w", id, err)
	}
	return domain.ErrInvalidStatusForConfirmation
}

func (r *TransferRepository) MarkPaid(ctx context.Context, id, paidBy string) (domain.Transfer, error) {
	const markPaid = `
UPDATE transfers
SET status = $2, paid_by = $3, paid_at = NOW()
WHERE id = $1 AND status = $4` + transferReturning

	row := r.db.QueryRowContext(ctx, markPaid, id, string(domain.TransferStatusPaid), paidBy, string(domain.TransferStatusPending))
	transfer, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Transfer{}, r.classifyConfirmLoss(ctx, id)
		}
		return domain.Transfer{}, err
	}

	logger.Info("transfer repository marked paid", logger.Fields{
		"transferId": transfer.ID,
		"paidBy":     paidBy,
	})

	return transfer, nil
}

func (r *TransferRepository) Cancel(ctx context.Context, id, reason string) (domain.Transfer, error) {
	const cancel = `
UPDATE transfers
SET status = $2, cancelled_at = NOW(), cancellation_reason = $3
WHERE id = $1 AND status IN ($4, $5)` + transferReturning

	row := r.db.QueryRowContext(
		ctx,
		cancel,
		id,
		string(domain.TransferStatusCancelled),
		reason,
		string(domain.TransferStatusPending),
		string(domain.TransferStatusInProgress),
	)
	transfer, err := scanTransfer(row)
	if err == nil {
		logger.Info("transfer repository cancelled", logger.Fields{
			"transferId": transfer.ID,
			"reason":     reason,
		})
		return transfer, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return domain.Transfer{}, err
	}

	var status domain.TransferStatus
	if err := r.db.QueryRowContext(ctx, `SELECT status FROM transfers WHERE id = $1`, id).Scan(&status); err != nil {
		if err == sql.ErrNoRows {
			return domain.Transfer{}, domain.ErrTransferNotFound
		}
		return domain.Transfer{}, fmt.Errorf("re-read transfer %s status: %w", id, err)
	}
	switch status {
	case domain.TransferStatusPaid:
		return domain.Transfer{}, domain.ErrAlreadyPaid
	case domain.TransferStatusCancelled:
		return domain.Transfer{}, domain.ErrAlreadyCancelled
	default:
		return domain.Transfer{}, domain.ErrTransferNotFound
	}
}

func (r *TransferRepository) Delete(ctx context.Context, id string) (domain.Transfer, error) {
	const del = `
DELETE FROM transfers
WHERE id = $1
RETURNING id, reference, sender_id, sender_country, sender_name, sender_phone,
       beneficiary_id, beneficiary_country, beneficiary_city, beneficiary_name, beneficiary_phone,
       amount_sent, currency_sent, exchange_rate, fees, amount_received, currency_received,
       send_method, status, notes, created_by, paid_by,
       created_at, paid_at, cancelled_at, cancellation_reason,
       proof_file_path, confirmation_comment, confirmed_at, confirmation_ip`

	transfer, err := scanTransfer(r.db.QueryRowContext(ctx, del, id))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Transfer{}, domain.ErrTransferNotFound
		}
		return domain.Transfer{}, err
	}

	logger.Info("transfer repository deleted", logger.Fields{
		"transferId": transfer.ID,
		"reference":  transfer.Reference,
	})

	return transfer, nil
}

func (r *TransferRepository) GetByID(ctx context.Context, id string) (domain.Transfer, error) {
	query := selectTransferColumns + `
WHERE id = $1`

	transfer, err := scanTransfer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Transfer{}, domain.ErrTransferNotFound
		}
		return domain.Transfer{}, err
	}
	return transfer, nil
}

func (r *TransferRepository) GetByReference(ctx context.Context, reference string) (domain.Transfer, error) {
	query := selectTransferColumns + `
WHERE reference = $1`

	transfer, err := scanTransfer(r.db.QueryRowContext(ctx, query, reference))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Transfer{}, domain.ErrTransferNotFound
		}
		return domain.Transfer{}, err
	}
	return transfer, nil
}

func (r *TransferRepository) ListPending(ctx context.Context, beneficiaryCountry string) ([]domain.Transfer, error) {
	query := selectTransferColumns + `
WHERE status = $1`
	args := []any{string(domain.TransferStatusPending)}

	if beneficiaryCountry != "" {
		query += `
  AND beneficiary_country = $2`
		args = append(args, beneficiaryCountry)
	}
	query += `
ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("transfer repository list pending failed", err, nil)
		return nil, fmt.Errorf("list pending transfers: %w", err)
	}
	defer rows.Close()

	transfers := make([]domain.Transfer, 0, 20)
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}

func (r *TransferRepository) DashboardTotals(ctx context.Context) (domain.CashTotals, error) {
	const query = `
SELECT COALESCE(SUM(CASE WHEN currency_sent = 'USD' THEN amount_sent END), 0),
       COALESCE(SUM(CASE WHEN currency_sent = 'USD' THEN fees END), 0),
       COALESCE(SUM(CASE WHEN currency_sent = 'USD' THEN amount_received END), 0),
       COALESCE(SUM(CASE WHEN currency_sent = 'XOF' THEN fees END), 0),
       COALESCE(SUM(CASE WHEN currency_sent = 'XOF' THEN amount_sent END), 0),
       COALESCE(SUM(CASE WHEN currency_sent = 'XOF' THEN amount_received END), 0),
       COUNT(*),
       COUNT(CASE WHEN currency_sent = 'USD' THEN 1 END),
       COUNT(CASE WHEN currency_sent = 'XOF' THEN 1 END)
FROM transfers
WHERE status = $1`

	var totals domain.CashTotals
	if err := r.db.QueryRowContext(ctx, query, string(domain.TransferStatusPaid)).Scan(
		&totals.TmountUSD,
		&totals.TfeesUSD,
		&totals.TmountXOF,
		&totals.TfeesXOF,
		&totals.BfaToUsaAmountSentXOF,
		&totals.BfaToUsaAmountReceivedUSD,
		&totals.TotalPaidTransfers,
		&totals.TotalPaidUsaToBf,
		&totals.TotalPaidBfToUsa,
	); err != nil {
		logger.Error("transfer repository dashboard totals failed", err, nil)
		return domain.CashTotals{}, fmt.Errorf("dashboard totals: %w", err)
	}

	return totals, nil
}

const transferReturning = `
RETURNING id, reference, sender_id, sender_country, sender_name, sender_phone,
       beneficiary_id, beneficiary_country, beneficiary_city, beneficiary_name, beneficiary_phone,
       amount_sent, currency_sent, exchange_rate, fees, amount_received, currency_received,
       send_method, status, notes, created_by, paid_by,
       created_at, paid_at, cancelled_at, cancellation_reason,
       proof_file_path, confirmation_comment, confirmed_at, confirmation_ip`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransfer(row rowScanner) (domain.Transfer, error) {
	var (
		transfer            domain.Transfer
		senderID            sql.NullString
		beneficiaryID       sql.NullString
		notes               sql.NullString
		paidBy              sql.NullString
		paidAt              sql.NullTime
		cancelledAt         sql.NullTime
		cancellationReason  sql.NullString
		proofFilePath       sql.NullString
		confirmationComment sql.NullString
		confirmedAt         sql.NullTime
		confirmationIP      sql.NullString
	)

	err := row.Scan(
		&transfer.ID,
		&transfer.Reference,
		&senderID,
		&transfer.SenderCountry,
		&transfer.SenderName,
		&transfer.SenderPhone,
		&beneficiaryID,
		&transfer.BeneficiaryCountry,
		&transfer.BeneficiaryCity,
		&transfer.BeneficiaryName,
		&transfer.BeneficiaryPhone,
		&transfer.AmountSent,
		&transfer.CurrencySent,
		&transfer.ExchangeRate,
		&transfer.Fees,
		&transfer.AmountReceived,
		&transfer.CurrencyReceived,
		&transfer.SendMethod,
		&transfer.Status,
		&notes,
		&transfer.CreatedBy,
		&paidBy,
		&transfer.CreatedAt,
		&paidAt,
		&cancelledAt,
		&cancellationReason,
		&proofFilePath,
		&confirmationComment,
		&confirmedAt,
		&confirmationIP,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Transfer{}, domain.ErrRecordNotFound
		}
		return domain.Transfer{}, fmt.Errorf("scan transfer: %w", err)
	}

	transfer.SenderID = nullableString(senderID)
	transfer.BeneficiaryID = nullableString(beneficiaryID)
	transfer.Notes = nullableString(notes)
	transfer.PaidBy = nullableString(paidBy)
	transfer.PaidAt = nullableTime(paidAt)
	transfer.CancelledAt = nullableTime(cancelledAt)
	transfer.CancellationReason = nullableString(cancellationReason)
	transfer.ProofFilePath = nullableString(proofFilePath)
	transfer.ConfirmationComment = nullableString(confirmationComment)
	transfer.ConfirmedAt = nullableTime(confirmedAt)
	transfer.ConfirmationIP = nullableString(confirmationIP)

	return transfer, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	value := v.String
	return &value
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	value := v.Time
	return &value
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
