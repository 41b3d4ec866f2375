package service_interfaces

import (
	"context"

	"github.com/BillyHamid/backendGlobal/internal/adapter/http/models"
	"github.com/BillyHamid/backendGlobal/internal/commons"
	"github.com/BillyHamid/backendGlobal/internal/domain"
)

type CashService interface {
	Dashboard(ctx context.Context, actor domain.User) (commons.Response[models.CashDashboardResponse], error)
	AddEntry(ctx context.Context, actor domain.User, req models.CashEntryRequest) (commons.Response[models.LedgerEntryResponse], error)
	AddExpense(ctx context.Context, actor domain.User, req models.CashExpenseRequest) (commons.Response[models.LedgerEntryResponse], error)
	History(ctx context.Context, actor domain.User, accountName string, limit int) (commons.Response[[]models.LedgerEntryResponse], error)

	// DownloadEntryProof resolves a manual entry's proof to a servable file
	// path and records the access in the audit log.
	DownloadEntryProof(ctx context.Context, actor domain.User, entryID string) (string, error)
}
