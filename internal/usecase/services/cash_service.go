package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/BillyHamid/backendGlobal/internal/adapter/http/models"
	"github.com/BillyHamid/backendGlobal/internal/adapter/repository/repo_interfaces"
	"github.com/BillyHamid/backendGlobal/internal/commons"
	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/logger"
	"github.com/BillyHamid/backendGlobal/internal/usecase/service_interfaces"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardCacheKey = "cash:dashboard"
	dashboardCacheTTL = 30 * time.Second
	recentEntriesSize = 20
)

// partnerShare is the cut of USA→BF fees owed to the Burkina partner.
var partnerShare = decimal.NewFromFloat(0.5)

type CashService struct {
	accounts  repo_interfaces.AccountRepository
	ledger    repo_interfaces.LedgerRepository
	transfers repo_interfaces.TransferRepository
	audits    repo_interfaces.AuditRepository

	uploadDir string

	// cache is optional: nil disables dashboard caching entirely.
	cache *redis.Client
}

var _ service_interfaces.CashService = (*CashService)(nil)

func NewCashService(
	accounts repo_interfaces.AccountRepository,
	ledger repo_interfaces.LedgerRepository,
	transfers repo_interfaces.TransferRepository,
	audits repo_interfaces.AuditRepository,
	cache *redis.Client,
	uploadDir string,
) *CashService {
	return &CashService{
		accounts:  accounts,
		ledger:    ledger,
		transfers: transfers,
		audits:    audits,
		uploadDir: uploadDir,
		cache:     cache,
	}
}

func (s *CashService) Dashboard(ctx context.Context, actor domain.User) (commons.Response[models.CashDashboardResponse], error) {
	if actor.RestrictedToBurkinaTill() {
		return commons.ErrorResponse[models.CashDashboardResponse]("forbidden", domain.ErrBurkinaTillOnly.Error()), domain.ErrBurkinaTillOnly
	}

	if cached, ok := s.cachedDashboard(ctx); ok {
		return commons.SuccessResponse("cash dashboard fetched successfully", cached), nil
	}

	var (
		usa     domain.Account
		burkina domain.Account
		totals  domain.CashTotals
		recent  []domain.LedgerEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		usa, err = s.accounts.GetOrCreate(gctx, domain.AccountUSA)
		return err
	})
	g.Go(func() error {
		var err error
		burkina, err = s.accounts.GetOrCreate(gctx, domain.AccountBurkina)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.transfers.DashboardTotals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.ledger.RecentAll(gctx, recentEntriesSize)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error("cash service dashboard aggregation failed", err, nil)
		return commons.ErrorResponse[models.CashDashboardResponse]("failed to load dashboard", "Unable to load the cash dashboard right now"), err
	}

	profit := totals.TfeesUSD
	response := models.CashDashboardResponse{
		UsaBalance:                usa.CurrentBalance,
		BurkinaBalance:            burkina.CurrentBalance,
		TmountUSD:                 totals.TmountUSD,
		TfeesUSD:                  totals.TfeesUSD,
		TmountXOF:                 totals.TmountXOF,
		TfeesXOF:                  totals.TfeesXOF,
		BfaToUsaAmountSentXOF:     totals.BfaToUsaAmountSentXOF,
		BfaToUsaAmountReceivedUSD: totals.BfaToUsaAmountReceivedUSD,
		TotalPaidTransfers:        totals.TotalPaidTransfers,
		TotalPaidUsaToBf:          totals.TotalPaidUsaToBf,
		TotalPaidBfToUsa:          totals.TotalPaidBfToUsa,
		ProfitUSD:                 profit,
		PartnerShareUSD:           profit.Mul(partnerShare).Round(2),
		RecentEntries:             models.NewLedgerEntryResponses(recent),
	}

	s.storeDashboard(ctx, response)

	return commons.SuccessResponse("cash dashboard fetched successfully", response), nil
}

func (s *CashService) AddEntry(ctx context.Context, actor domain.User, req models.CashEntryRequest) (commons.Response[models.LedgerEntryResponse], error) {
	logger.Info("cash service add entry request", logger.Fields{
		"actor":   actor.Username,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("cash service add entry validation failed", err, nil)
		if strings.TrimSpace(req.ProofFilePath) == "" {
			return commons.ErrorResponse[models.LedgerEntryResponse]("validation failed", domain.ErrProofRequired.Error()), domain.ErrProofRequired
		}
		return commons.ErrorResponse[models.LedgerEntryResponse]("validation failed", err.Error()), err
	}

	name := domain.AccountName(strings.TrimSpace(req.AccountName))
	if err := s.authorizeTill(actor, name); err != nil {
		return commons.ErrorResponse[models.LedgerEntryResponse]("forbidden", err.Error()), err
	}

	proof := strings.TrimSpace(req.ProofFilePath)
	return s.post(ctx, domain.LedgerEntry{
		AccountName:   name,
		Type:          domain.LedgerEntryCredit,
		Amount:        req.Amount,
		Currency:      name.Currency(),
		Description:   strings.TrimSpace(req.Description),
		CreatedBy:     &actor.ID,
		ProofFilePath: &proof,
	})
}

func (s *CashService) AddExpense(ctx context.Context, actor domain.User, req models.CashExpenseRequest) (commons.Response[models.LedgerEntryResponse], error) {
	logger.Info("cash service add expense request", logger.Fields{
		"actor":   actor.Username,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("cash service add expense validation failed", err, nil)
		return commons.ErrorResponse[models.LedgerEntryResponse]("validation failed", err.Error()), err
	}

	name := domain.AccountName(strings.TrimSpace(req.AccountName))
	if err := s.authorizeTill(actor, name); err != nil {
		return commons.ErrorResponse[models.LedgerEntryResponse]("forbidden", err.Error()), err
	}

	return s.post(ctx, domain.LedgerEntry{
		AccountName: name,
		Type:        domain.LedgerEntryDebit,
		Amount:      req.Amount,
		Currency:    name.Currency(),
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   &actor.ID,
	})
}

func (s *CashService) History(ctx context.Context, actor domain.User, accountName string, limit int) (commons.Response[[]models.LedgerEntryResponse], error) {
	name := domain.AccountName(strings.TrimSpace(accountName))
	if !name.Valid() {
		return commons.ErrorResponse[[]models.LedgerEntryResponse]("validation failed", domain.ErrInvalidAccountName.Error()), domain.ErrInvalidAccountName
	}
	if err := s.authorizeTill(actor, name); err != nil {
		return commons.ErrorResponse[[]models.LedgerEntryResponse]("forbidden", err.Error()), err
	}

	entries, err := s.ledger.History(ctx, name, limit)
	if err != nil {
		logger.Error("cash service history failed", err, logger.Fields{
			"accountName": name,
		})
		return commons.ErrorResponse[[]models.LedgerEntryResponse]("failed to load history", "Unable to load the ledger history right now"), err
	}

	return commons.SuccessResponse("ledger history fetched successfully", models.NewLedgerEntryResponses(entries)), nil
}

func (s *CashService) DownloadEntryProof(ctx context.Context, actor domain.User, entryID string) (string, error) {
	entry, err := s.ledger.GetEntry(ctx, entryID)
	if err != nil {
		return "", err
	}
	if err := s.authorizeTill(actor, entry.AccountName); err != nil {
		return "", err
	}
	if entry.ProofFilePath == nil || *entry.ProofFilePath == "" {
		return "", domain.ErrRecordNotFound
	}
	path := filepath.Join(s.uploadDir, filepath.Clean(*entry.ProofFilePath))

	if err := s.audits.Log(ctx, domain.AuditLog{
		UserID:     &actor.ID,
		Action:     domain.AuditActionProofDownload,
		EntityType: "ledger_entry",
		EntityID:   entry.ID,
	}); err != nil {
		logger.Error("cash proof download audit failed", err, logger.Fields{
			"entryId": entry.ID,
		})
	}

	return path, nil
}

func (s *CashService) post(ctx context.Context, entry domain.LedgerEntry) (commons.Response[models.LedgerEntryResponse], error) {
	if _, err := s.accounts.GetOrCreate(ctx, entry.AccountName); err != nil {
		return commons.ErrorResponse[models.LedgerEntryResponse]("failed to post entry", "Unable to post the ledger entry right now"), err
	}

	posted, err := s.ledger.Post(ctx, entry)
	if err != nil {
		logger.Error("cash service posting failed", err, logger.Fields{
			"accountName": entry.AccountName,
			"type":        entry.Type,
		})
		switch {
		case errors.Is(err, domain.ErrInvalidAmount),
			errors.Is(err, domain.ErrInvalidEntryType),
			errors.Is(err, domain.ErrCurrencyMismatch),
			errors.Is(err, domain.ErrInvalidAccountName):
			return commons.ErrorResponse[models.LedgerEntryResponse]("validation failed", err.Error()), err
		default:
			return commons.ErrorResponse[models.LedgerEntryResponse]("failed to post entry", "Unable to post the ledger entry right now"), err
		}
	}

	s.invalidateDashboard(ctx)

	return commons.SuccessResponse("ledger entry posted successfully", models.NewLedgerEntryResponse(posted)), nil
}

func (s *CashService) authorizeTill(actor domain.User, name domain.AccountName) error {
	if actor.RestrictedToBurkinaTill() && name != domain.AccountBurkina {
		return domain.ErrBurkinaTillOnly
	}
	return nil
}

func (s *CashService) cachedDashboard(ctx context.Context) (models.CashDashboardResponse, bool) {
	if s.cache == nil {
		return models.CashDashboardResponse{}, false
	}

	raw, err := s.cache.Get(ctx, dashboardCacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Error("cash dashboard cache read failed", err, nil)
		}
		return models.CashDashboardResponse{}, false
	}

	var response models.CashDashboardResponse
	if err := json.Unmarshal([]byte(raw), &response); err != nil {
		logger.Error("cash dashboard cache decode failed", err, nil)
		return models.CashDashboardResponse{}, false
	}
	return response, true
}

func (s *CashService) storeDashboard(ctx context.Context, response models.CashDashboardResponse) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL).Err(); err != nil {
		logger.Error("cash dashboard cache write failed", err, nil)
	}
}

func (s *CashService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, dashboardCacheKey).Err(); err != nil {
		logger.Error("cash dashboard cache invalidation failed", err, nil)
	}
}
