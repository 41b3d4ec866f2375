package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/BillyHamid/backendGlobal/internal/adapter/http/models"
	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/shopspring/decimal"
)

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[domain.AccountName]domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[domain.AccountName]domain.Account{}}
}

func (f *fakeAccountRepo) GetOrCreate(_ context.Context, name domain.AccountName) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if account, ok := f.accounts[name]; ok {
		return account, nil
	}
	account := domain.Account{
		ID:        "acc-" + string(name),
		Name:      name,
		Currency:  name.Currency(),
		CreatedAt: time.Now(),
	}
	f.accounts[name] = account
	return account, nil
}

func (f *fakeAccountRepo) GetByName(_ context.Context, name domain.AccountName) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[name]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	return account, nil
}

func (f *fakeAccountRepo) List(_ context.Context) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	accounts := make([]domain.Account, 0, len(f.accounts))
	for _, account := range f.accounts {
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (f *fakeAccountRepo) setBalance(name domain.AccountName, balance decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.accounts[name] = domain.Account{
		ID:             "acc-" + string(name),
		Name:           name,
		Currency:       name.Currency(),
		CurrentBalance: balance,
	}
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries []domain.LedgerEntry
}

func (f *fakeLedgerRepo) Post(_ context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	if err := entry.Validate(entry.AccountName.Currency()); err != nil {
		return domain.LedgerEntry{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entry.ID = fmt.Sprintf("entry-%d", len(f.entries)+1)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeLedgerRepo) History(_ context.Context, name domain.AccountName, limit int) ([]domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var history []domain.LedgerEntry
	for _, entry := range f.entries {
		if entry.AccountName != name {
			continue
		}
		history = append(history, entry)
		if limit > 0 && len(history) == limit {
			break
		}
	}
	return history, nil
}

func (f *fakeLedgerRepo) RecentAll(_ context.Context, limit int) ([]domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if limit > 0 && len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func (f *fakeLedgerRepo) GetEntry(_ context.Context, id string) (domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, entry := range f.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return domain.LedgerEntry{}, domain.ErrRecordNotFound
}

type cashFixture struct {
	service   *CashService
	accounts  *fakeAccountRepo
	ledger    *fakeLedgerRepo
	repo      *fakeTransferRepo
	audits    *fakeAuditRepo
	uploadDir string
}

func newCashFixture(t *testing.T) cashFixture {
	t.Helper()

	accounts := newFakeAccountRepo()
	ledger := &fakeLedgerRepo{}
	repo := newFakeTransferRepo()
	audits := newFakeAuditRepo()
	uploadDir := t.TempDir()
	return cashFixture{
		service:   NewCashService(accounts, ledger, repo, audits, nil, uploadDir),
		accounts:  accounts,
		ledger:    ledger,
		repo:      repo,
		audits:    audits,
		uploadDir: uploadDir,
	}
}

func TestCashService_Dashboard(t *testing.T) {
	fx := newCashFixture(t)

	fx.accounts.setBalance(domain.AccountUSA, dec("1500.25"))
	fx.accounts.setBalance(domain.AccountBurkina, dec("920000"))
	fx.repo.totals = domain.CashTotals{
		TmountUSD:                 dec("5000"),
		TfeesUSD:                  dec("250"),
		TmountXOF:                 dec("3075000"),
		TfeesXOF:                  dec("153750"),
		BfaToUsaAmountSentXOF:     dec("123000"),
		BfaToUsaAmountReceivedUSD: dec("200"),
		TotalPaidTransfers:        12,
		TotalPaidUsaToBf:          10,
		TotalPaidBfToUsa:          2,
	}
	if _, err := fx.ledger.Post(context.Background(), domain.LedgerEntry{
		AccountName: domain.AccountUSA,
		Type:        domain.LedgerEntryCredit,
		Amount:      dec("100"),
		Currency:    domain.CurrencyUSD,
		Description: "Cash in",
	}); err != nil {
		t.Fatalf("seed ledger entry: %v", err)
	}

	response, err := fx.service.Dashboard(context.Background(), admin)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}

	dashboard := *response.Data
	if !dashboard.UsaBalance.Equal(dec("1500.25")) {
		t.Fatalf("usaBalance = %s, want 1500.25", dashboard.UsaBalance)
	}
	if !dashboard.BurkinaBalance.Equal(dec("920000")) {
		t.Fatalf("burkinaBalance = %s, want 920000", dashboard.BurkinaBalance)
	}
	if !dashboard.ProfitUSD.Equal(dec("250")) {
		t.Fatalf("profitUsd = %s, want 250", dashboard.ProfitUSD)
	}
	if !dashboard.PartnerShareUSD.Equal(dec("125")) {
		t.Fatalf("partnerShareUsd = %s, want 125", dashboard.PartnerShareUSD)
	}
	// TmountXOF is the XOF delivered on the USA→BF corridor; the BFA→USA XOF
	// flow is a separate column and must never collapse into it.
	if !dashboard.TmountXOF.Equal(dec("3075000")) {
		t.Fatalf("tmountXof = %s, want 3075000", dashboard.TmountXOF)
	}
	if !dashboard.BfaToUsaAmountSentXOF.Equal(dec("123000")) {
		t.Fatalf("bfaToUsaAmountSentXof = %s, want 123000", dashboard.BfaToUsaAmountSentXOF)
	}
	if !dashboard.BfaToUsaAmountReceivedUSD.Equal(dec("200")) {
		t.Fatalf("bfaToUsaAmountReceivedUsd = %s, want 200", dashboard.BfaToUsaAmountReceivedUSD)
	}
	if dashboard.TotalPaidTransfers != 12 || dashboard.TotalPaidUsaToBf != 10 || dashboard.TotalPaidBfToUsa != 2 {
		t.Fatalf("paid counters not carried through")
	}
	if len(dashboard.RecentEntries) != 1 {
		t.Fatalf("recentEntries = %d, want 1", len(dashboard.RecentEntries))
	}
}

func TestCashService_DashboardBlockedForBurkinaAgents(t *testing.T) {
	fx := newCashFixture(t)

	if _, err := fx.service.Dashboard(context.Background(), bfAgent); !errors.Is(err, domain.ErrBurkinaTillOnly) {
		t.Fatalf("expected ErrBurkinaTillOnly, got %v", err)
	}
}

func TestCashService_AddEntry(t *testing.T) {
	fx := newCashFixture(t)

	response, err := fx.service.AddEntry(context.Background(), usaAgent, models.CashEntryRequest{
		AccountName:   "USA",
		Amount:        dec("300"),
		Description:   "Cash deposit from counter",
		ProofFilePath: "proofs/deposit.jpg",
	})
	if err != nil {
		t.Fatalf("AddEntry returned error: %v", err)
	}

	posted := *response.Data
	if posted.Type != string(domain.LedgerEntryCredit) {
		t.Fatalf("type = %s, want CREDIT", posted.Type)
	}
	if posted.Currency != string(domain.CurrencyUSD) {
		t.Fatalf("currency = %s, want USD", posted.Currency)
	}
	if posted.ProofFilePath == nil || *posted.ProofFilePath != "proofs/deposit.jpg" {
		t.Fatalf("proofFilePath not stored")
	}
	if len(fx.ledger.entries) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(fx.ledger.entries))
	}
}

func TestCashService_AddEntryRequiresProof(t *testing.T) {
	fx := newCashFixture(t)

	_, err := fx.service.AddEntry(context.Background(), usaAgent, models.CashEntryRequest{
		AccountName: "USA",
		Amount:      dec("300"),
		Description: "Cash deposit from counter",
	})
	if !errors.Is(err, domain.ErrProofRequired) {
		t.Fatalf("expected ErrProofRequired, got %v", err)
	}
	if len(fx.ledger.entries) != 0 {
		t.Fatalf("no entry must be posted without proof")
	}
}

func TestCashService_TillRestrictionForBurkinaAgents(t *testing.T) {
	fx := newCashFixture(t)

	_, err := fx.service.AddEntry(context.Background(), bfAgent, models.CashEntryRequest{
		AccountName:   "USA",
		Amount:        dec("300"),
		Description:   "Cash deposit",
		ProofFilePath: "proofs/deposit.jpg",
	})
	if !errors.Is(err, domain.ErrBurkinaTillOnly) {
		t.Fatalf("expected ErrBurkinaTillOnly for USA till, got %v", err)
	}

	if _, err := fx.service.AddEntry(context.Background(), bfAgent, models.CashEntryRequest{
		AccountName:   "BURKINA",
		Amount:        dec("50000"),
		Description:   "Cash deposit",
		ProofFilePath: "proofs/deposit.jpg",
	}); err != nil {
		t.Fatalf("BF agent posting on the BURKINA till failed: %v", err)
	}
}

func TestCashService_AddExpense(t *testing.T) {
	fx := newCashFixture(t)

	response, err := fx.service.AddExpense(context.Background(), usaAgent, models.CashExpenseRequest{
		AccountName: "BURKINA",
		Amount:      dec("25000"),
		Description: "Office rent",
	})
	if err != nil {
		t.Fatalf("AddExpense returned error: %v", err)
	}

	posted := *response.Data
	if posted.Type != string(domain.LedgerEntryDebit) {
		t.Fatalf("type = %s, want DEBIT", posted.Type)
	}
	if posted.Currency != string(domain.CurrencyXOF) {
		t.Fatalf("currency = %s, want XOF", posted.Currency)
	}
}

func TestCashService_History(t *testing.T) {
	fx := newCashFixture(t)

	for _, till := range []domain.AccountName{domain.AccountUSA, domain.AccountBurkina} {
		if _, err := fx.ledger.Post(context.Background(), domain.LedgerEntry{
			AccountName: till,
			Type:        domain.LedgerEntryCredit,
			Amount:      dec("100"),
			Currency:    till.Currency(),
			Description: "Opening entry",
		}); err != nil {
			t.Fatalf("seed %s entry: %v", till, err)
		}
	}

	response, err := fx.service.History(context.Background(), usaAgent, "USA", 10)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(*response.Data) != 1 {
		t.Fatalf("history entries = %d, want 1", len(*response.Data))
	}
	if (*response.Data)[0].AccountName != "USA" {
		t.Fatalf("history leaked entries from another till")
	}

	if _, err := fx.service.History(context.Background(), bfAgent, "USA", 10); !errors.Is(err, domain.ErrBurkinaTillOnly) {
		t.Fatalf("expected ErrBurkinaTillOnly for BF agent on USA history, got %v", err)
	}

	if _, err := fx.service.History(context.Background(), admin, "FRANCE", 10); !errors.Is(err, domain.ErrInvalidAccountName) {
		t.Fatalf("expected ErrInvalidAccountName, got %v", err)
	}
}

func TestCashService_DownloadEntryProof(t *testing.T) {
	fx := newCashFixture(t)

	created, err := fx.service.AddEntry(context.Background(), usaAgent, models.CashEntryRequest{
		AccountName:   "USA",
		Amount:        dec("300"),
		Description:   "Cash deposit from counter",
		ProofFilePath: "proofs/deposit.jpg",
	})
	if err != nil {
		t.Fatalf("AddEntry returned error: %v", err)
	}

	path, err := fx.service.DownloadEntryProof(context.Background(), usaAgent, created.Data.ID)
	if err != nil {
		t.Fatalf("DownloadEntryProof returned error: %v", err)
	}
	if want := filepath.Join(fx.uploadDir, "proofs", "deposit.jpg"); path != want {
		t.Fatalf("proof path = %s, want %s", path, want)
	}

	audit := waitFor(t, fx.audits.logged, "proof download audit log")
	if audit.Action != domain.AuditActionProofDownload {
		t.Fatalf("audit action = %s, want %s", audit.Action, domain.AuditActionProofDownload)
	}
	if audit.EntityType != "ledger_entry" || audit.EntityID != created.Data.ID {
		t.Fatalf("audit entity = %s/%s, want ledger_entry/%s", audit.EntityType, audit.EntityID, created.Data.ID)
	}
}

func TestCashService_DownloadEntryProofTillRestriction(t *testing.T) {
	fx := newCashFixture(t)

	created, err := fx.service.AddEntry(context.Background(), usaAgent, models.CashEntryRequest{
		AccountName:   "USA",
		Amount:        dec("300"),
		Description:   "Cash deposit",
		ProofFilePath: "proofs/deposit.jpg",
	})
	if err != nil {
		t.Fatalf("AddEntry returned error: %v", err)
	}

	if _, err := fx.service.DownloadEntryProof(context.Background(), bfAgent, created.Data.ID); !errors.Is(err, domain.ErrBurkinaTillOnly) {
		t.Fatalf("expected ErrBurkinaTillOnly, got %v", err)
	}
}

func TestCashService_DownloadEntryProofMissing(t *testing.T) {
	fx := newCashFixture(t)

	created, err := fx.service.AddExpense(context.Background(), usaAgent, models.CashExpenseRequest{
		AccountName: "USA",
		Amount:      dec("40"),
		Description: "Office supplies",
	})
	if err != nil {
		t.Fatalf("AddExpense returned error: %v", err)
	}

	if _, err := fx.service.DownloadEntryProof(context.Background(), usaAgent, created.Data.ID); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for proofless entry, got %v", err)
	}

	if _, err := fx.service.DownloadEntryProof(context.Background(), usaAgent, "missing-id"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for unknown entry, got %v", err)
	}
}
