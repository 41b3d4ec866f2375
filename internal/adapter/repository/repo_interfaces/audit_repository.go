package repo_interfaces

import (
	"context"

	"github.com/BillyHamid/backendGlobal/internal/domain"
)

type AuditRepository interface {
	Log(ctx context.Context, entry domain.AuditLog) error
}
