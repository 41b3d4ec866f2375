package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/logger"
	"github.com/google/uuid"
)

type OutboxRepository struct {
	db *sql.DB
}

func NewOutboxRepository(db *sql.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// insertOutboxTx writes the event row inside the caller's settlement
// transaction so the event exists iff the settlement committed.
func insertOutboxTx(ctx context.Context, tx *sql.Tx, message domain.OutboxMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	const insert = `
INSERT INTO outbox_messages (id, message_key, topic, payload, status, retry_count)
VALUES ($1, $2, $3, $4, $5, 0)`

	if _, err := tx.ExecContext(ctx, insert, message.ID, message.MessageKey, message.Topic, message.Payload, domain.OutboxStatusPending); err != nil {
		return fmt.Errorf("insert outbox message for topic %s: %w", message.Topic, err)
	}

	return nil
}

func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
SELECT id, message_key, topic, payload, status, retry_count, created_at, updated_at
FROM outbox_messages
WHERE status = $1
ORDER BY created_at
LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, domain.OutboxStatusPending, limit)
	if err != nil {
		logger.Error("outbox repository get pending failed", err, nil)
		return nil, fmt.Errorf("get pending outbox messages: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.OutboxMessage, 0, limit)
	for rows.Next() {
		var message domain.OutboxMessage
		if err := rows.Scan(
			&message.ID,
			&message.MessageKey,
			&message.Topic,
			&message.Payload,
			&message.Status,
			&message.RetryCount,
			&message.CreatedAt,
			&message.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan outbox message: %w", err)
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id string) error {
	const query = `
UPDATE outbox_messages
SET status = $2, updated_at = NOW()
WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, domain.OutboxStatusSent); err != nil {
		return fmt.Errorf("mark outbox message %s sent: %w", id, err)
	}
	return nil
}

func (r *OutboxRepository) IncrementRetryCount(ctx context.Context, id string) error {
	const query = `
UPDATE outbox_messages
SET retry_count = retry_count + 1, updated_at = NOW()
WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment outbox message %s retry count: %w", id, err)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id string) error {
	const query = `
UPDATE outbox_messages
SET status = $2, updated_at = NOW()
WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, domain.OutboxStatusFailed); err != nil {
		return fmt.Errorf("mark outbox message %s failed: %w", id, err)
	}
	return nil
}
