package service_interfaces

import (
	"context"

	"github.com/BillyHamid/backendGlobal/internal/domain"
)

// Notifiers are best-effort collaborators: the settlement path calls them after
// commit and discards their errors.
type PushNotifier interface {
	TransferCreated(ctx context.Context, transfer domain.Transfer) error
	TransferPaid(ctx context.Context, transfer domain.Transfer) error
}

type WhatsAppNotifier interface {
	TransferPaid(ctx context.Context, transfer domain.Transfer) error
}
