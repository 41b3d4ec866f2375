package service_interfaces

import (
	"context"

	"github.com/BillyHamid/backendGlobal/internal/adapter/http/models"
	"github.com/BillyHamid/backendGlobal/internal/commons"
	"github.com/BillyHamid/backendGlobal/internal/domain"
)

type TransferService interface {
	Create(ctx context.Context, actor domain.User, req models.CreateTransferRequest) (commons.Response[models.TransferResponse], error)
	Confirm(ctx context.Context, actor domain.User, req models.ConfirmTransferRequest) (commons.Response[models.TransferResponse], error)
	PayLegacy(ctx context.Context, actor domain.User, transferID string) (commons.Response[models.TransferResponse], error)
	Cancel(ctx context.Context, actor domain.User, req models.CancelTransferRequest) (commons.Response[models.TransferResponse], error)
	Delete(ctx context.Context, actor domain.User, transferID string) (commons.Response[models.TransferResponse], error)
	GetByID(ctx context.Context, transferID string) (commons.Response[models.TransferResponse], error)
	GetByReference(ctx context.Context, reference string) (commons.Response[models.TransferResponse], error)
	ListPending(ctx context.Context, actor domain.User) (commons.Response[[]models.TransferResponse], error)

	// DownloadProof resolves the stored payment proof to a servable file path
	// and records the access in the audit log.
	DownloadProof(ctx context.Context, actor domain.User, transferID string, clientIP *string) (string, error)
}
