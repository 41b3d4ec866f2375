package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/BillyHamid/backendGlobal/internal/adapter/http/models"
	"github.com/BillyHamid/backendGlobal/internal/commons"
	"github.com/BillyHamid/backendGlobal/internal/domain"
)

type CashService interface {
	Dashboard(ctx context.Context, actor domain.User) (commons.Response[models.CashDashboardResponse], error)
	AddEntry(ctx context.Context, actor domain.User, req models.CashEntryRequest) (commons.Response[models.LedgerEntryResponse], error)
	AddExpense(ctx context.Context, actor domain.User, req models.CashExpenseRequest) (commons.Response[models.LedgerEntryResponse], error)
	History(ctx context.Context, actor domain.User, accountName string, limit int) (commons.Response[[]models.LedgerEntryResponse], error)
	DownloadEntryProof(ctx context.Context, actor domain.User, entryID string) (string, error)
}

type CashController struct {
	service CashService
}

func NewCashController(service CashService) *CashController {
	return &CashController{service: service}
}

func (c *CashController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("GET /api/cash/dashboard", wrap(c.dashboard))
	mux.Handle("POST /api/cash/entries", wrap(c.addEntry))
	mux.Handle("POST /api/cash/expenses", wrap(c.addExpense))
	mux.Handle("GET /api/cash/entries/{id}/proof", wrap(c.downloadEntryProof))
	mux.Handle("GET /api/cash/accounts/{name}/history", wrap(c.history))
}

func (c *CashController) dashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := operatorFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.Dashboard(r.Context(), actor)
	if err != nil {
		logError(r, err, nil)
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *CashController) addEntry(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	actor, ok := operatorFrom(w, r)
	if !ok {
		return
	}

	var req models.CashEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.LedgerEntryResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.AddEntry(r.Context(), actor, req)
	if err != nil {
		logError(r, err, nil)
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *CashController) addExpense(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	actor, ok := operatorFrom(w, r)
	if !ok {
		return
	}

	var req models.CashExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.LedgerEntryResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.AddExpense(r.Context(), actor, req)
	if err != nil {
		logError(r, err, nil)
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *CashController) downloadEntryProof(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := operatorFrom(w, r)
	if !ok {
		return
	}

	path, err := c.service.DownloadEntryProof(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		logError(r, err, nil)
		response := proofErrorResponse("failed to download proof", err)
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	http.ServeFile(w, r, path)
	logResponse(r, http.StatusOK, nil, start)
}

func (c *CashController) history(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := operatorFrom(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response := commons.ErrorResponse[[]models.LedgerEntryResponse]("validation failed", "limit must be a non-negative integer")
			writeJSON(w, http.StatusBadRequest, response)
			logResponse(r, http.StatusBadRequest, response, start)
			return
		}
		limit = parsed
	}

	response, err := c.service.History(r.Context(), actor, r.PathValue("name"), limit)
	if err != nil {
		logError(r, err, nil)
		status := statusFor(response.Message, err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
