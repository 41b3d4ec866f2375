package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/google/uuid"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Log(ctx context.Context, entry domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	const insert = `
INSERT INTO audit_logs (id, user_id, action, entity_type, entity_id, old_values, new_values, ip_address, user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := r.db.ExecContext(
		ctx,
		insert,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.OldValues,
		entry.NewValues,
		entry.IPAddress,
		entry.UserAgent,
	); err != nil {
		return fmt.Errorf("insert audit log %s: %w", entry.Action, err)
	}

	return nil
}
