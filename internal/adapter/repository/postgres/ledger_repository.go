package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/logger"
	"github.com/google/uuid"
)

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Post(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	logger.Info("ledger repository post", logger.Fields{
		"accountName": entry.AccountName,
		"type":        entry.Type,
		"amount":      entry.Amount,
		"currency":    entry.Currency,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("ledger repository begin tx failed", err, nil)
		return domain.LedgerEntry{}, fmt.Errorf("begin ledger transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var posted domain.LedgerEntry
	posted, err = postEntryTx(ctx, tx, entry)
	if err != nil {
		return domain.LedgerEntry{}, err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("ledger repository commit failed", err, nil)
		return domain.LedgerEntry{}, fmt.Errorf("commit ledger transaction: %w", err)
	}

	logger.Info("ledger repository post success", logger.Fields{
		"entryId":     posted.ID,
		"accountName": posted.AccountName,
	})

	return posted, nil
}

// postEntryTx validates the entry against the locked account row, inserts it
// and adjusts the stored balance inside the caller's transaction. Shared by
// manual postings and transfer settlements so every write path goes through
// the same preconditions.
func postEntryTx(ctx context.Context, tx *sql.Tx, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	if !entry.AccountName.Valid() {
		return domain.LedgerEntry{}, domain.ErrInvalidAccountName
	}

	const lockAccount = `
SELECT id, currency
FROM accounts
WHERE name = $1
FOR UPDATE`

	var accountID string
	var accountCurrency domain.Currency
	if err := tx.QueryRowContext(ctx, lockAccount, string(entry.AccountName)).Scan(&accountID, &accountCurrency); err != nil {
		if err == sql.ErrNoRows {
			return domain.LedgerEntry{}, domain.ErrRecordNotFound
		}
		return domain.LedgerEntry{}, fmt.Errorf("lock account %s: %w", entry.AccountName, err)
	}

	if err := entry.Validate(accountCurrency); err != nil {
		return domain.LedgerEntry{}, err
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.AccountID = accountID

	const insertEntry = `
INSERT INTO ledger_entries (id, account_id, transaction_id, type, amount, currency, description, created_by, proof_file_path)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at`

	if err := tx.QueryRowContext(
		ctx,
		insertEntry,
		entry.ID,
		entry.AccountID,
		entry.TransferID,
		string(entry.Type),
		entry.Amount,
		string(entry.Currency),
		entry.Description,
		entry.CreatedBy,
		entry.ProofFilePath,
	).Scan(&entry.CreatedAt); err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("insert ledger entry: %w", err)
	}

	const adjustBalance = `
UPDATE accounts
SET current_balance = current_balance + $2::numeric,
    updated_at = NOW()
WHERE id = $1`

	if _, err := execRequiredRows(ctx, tx, adjustBalance, entry.AccountID, entry.SignedAmount()); err != nil {
		return domain.LedgerEntry{}, err
	}

	return entry, nil
}

const selectEntryColumns = `
SELECT le.id,
       le.account_id,
       a.name,
       le.transaction_id,
       le.type,
       le.amount,
       le.currency,
       le.description,
       le.created_by,
       le.proof_file_path,
       le.created_at,
       u.name,
       t.reference
FROM ledger_entries le
JOIN accounts a ON le.account_id = a.id
LEFT JOIN users u ON le.created_by = u.id
LEFT JOIN transfers t ON le.transaction_id = t.id`

func (r *LedgerRepository) History(ctx context.Context, name domain.AccountName, limit int) ([]domain.LedgerEntry, error) {
	if !name.Valid() {
		return nil, domain.ErrInvalidAccountName
	}
	if limit <= 0 {
		limit = 50
	}

	query := selectEntryColumns + `
WHERE a.name = $1
ORDER BY le.created_at DESC
LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, string(name), limit)
	if err != nil {
		logger.Error("ledger repository history failed", err, logger.Fields{
			"accountName": name,
		})
		return nil, fmt.Errorf("ledger history for %s: %w", name, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *LedgerRepository) RecentAll(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := selectEntryColumns + `
ORDER BY le.created_at DESC
LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		logger.Error("ledger repository recent all failed", err, nil)
		return nil, fmt.Errorf("recent ledger entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *LedgerRepository) GetEntry(ctx context.Context, id string) (domain.LedgerEntry, error) {
	query := selectEntryColumns + `
WHERE le.id = $1`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("get ledger entry: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	if len(entries) == 0 {
		return domain.LedgerEntry{}, domain.ErrRecordNotFound
	}
	return entries[0], nil
}

func scanEntries(rows *sql.Rows) ([]domain.LedgerEntry, error) {
	entries := make([]domain.LedgerEntry, 0, 20)
	for rows.Next() {
		var (
			entry         domain.LedgerEntry
			transferID    sql.NullString
			createdBy     sql.NullString
			proofFilePath sql.NullString
			createdByName sql.NullString
			transferRef   sql.NullString
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.AccountName,
			&transferID,
			&entry.Type,
			&entry.Amount,
			&entry.Currency,
			&entry.Description,
			&createdBy,
			&proofFilePath,
			&entry.CreatedAt,
			&createdByName,
			&transferRef,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if transferID.Valid {
			value := transferID.String
			entry.TransferID = &value
		}
		if createdBy.Valid {
			value := createdBy.String
			entry.CreatedBy = &value
		}
		if proofFilePath.Valid {
			value := proofFilePath.String
			entry.ProofFilePath = &value
		}
		if createdByName.Valid {
			value := createdByName.String
			entry.CreatedByName = &value
		}
		if transferRef.Valid {
			value := transferRef.String
			entry.TransferReference = &value
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func execRequiredRows(ctx context.Context, tx *sql.Tx, query string, args ...any) (int64, error) {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec statement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return 0, domain.ErrRecordNotFound
	}

	return affected, nil
}
