package domain

import "time"

const (
	AuditActionConfirmationWithProof = "CONFIRMATION_WITH_PROOF"
	AuditActionTransferDeleted       = "TRANSFER_DELETED"
	AuditActionProofDownload         = "PROOF_DOWNLOAD"
)

type AuditLog struct {
	ID         string
	UserID     *string
	Action     string
	EntityType string
	EntityID   string
	OldValues  *string
	NewValues  *string
	IPAddress  *string
	UserAgent  *string
	CreatedAt  time.Time
}
