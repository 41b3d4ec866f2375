package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/BillyHamid/backendGlobal/internal/adapter/http/middleware"
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
	DownloadProof(ctx context.Context, actor domain.User, transferID string, clientIP *string) (string, error)
}

type TransferController struct {
	service TransferService
}

func NewTransferController(service TransferService) *TransferController {
	return &TransferController{service: service}
}

func (c *TransferController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("POST /api/transfers", wrap(c.create))
	mux.Handle("GET /api/transfers/pending", wrap(c.listPending))
	mux.Handle("GET /api/transfers/reference/{reference}", wrap(c.getByReference))
	mux.Handle("GET /api/transfers/{id}", wrap(c.getByID))
	mux.Handle("GET /api/transfers/{id}/proof", wrap(c.downloadProof))
	mux.Handle("POST /api/transfers/{id}/confirm", wrap(c.confirm))
	mux.Handle("POST /api/transfers/{id}/pay", wrap(c.payLegacy))
	mux.Handle("POST /api/transfers/{id}/cancel", wrap(c.cancel))
	mux.Handle("DELETE /api/transfers/{id}", wrap(c.remove))
}

func (c *TransferController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	actor, ok := operatorFrom(w, r)
	if !ok {
		return
	}

	var req models.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransferResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Create(r.Context(), actor, req)
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

func (c *TransferController) confirm(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	actor, ok := operatorFrom(w, r)
	if !ok {
		return
	}

	var req models.ConfirmTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransferResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	req.TransferID = r.PathValue("id")
	ip := clientIP(r)
	req.ClientIP = &ip
	logRequest(r, req)

	response, err := c.service.Confirm(r.Context(), actor, req)
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

func (c *TransferController) payLegacy(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := operatorFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.PayLegacy(r.Context(), actor, r.PathValue("id"))
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

func (c *TransferController) cancel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	actor, ok := operatorFrom(w, r)
	if !ok {
		return
	}

	var req models.CancelTransferRequest
	if r.Body != nil {
		// Reason is optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	req.TransferID = r.PathValue("id")
	logRequest(r, req)

	response, err := c.service.Cancel(r.Context(), actor, req)
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

func (c *TransferController) remove(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := operatorFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.Delete(r.Context(), actor, r.PathValue("id"))
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

func (c *TransferController) getByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if _, ok := operatorFrom(w, r); !ok {
		return
	}

	response, err := c.service.GetByID(r.Context(), r.PathValue("id"))
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

func (c *TransferController) getByReference(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if _, ok := operatorFrom(w, r); !ok {
		return
	}

	response, err := c.service.GetByReference(r.Context(), r.PathValue("reference"))
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

func (c *TransferController) listPending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := operatorFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.ListPending(r.Context(), actor)
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

func (c *TransferController) downloadProof(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	actor, ok := operatorFrom(w, r)
	if !ok {
		return
	}

	ip := clientIP(r)
	path, err := c.service.DownloadProof(r.Context(), actor, r.PathValue("id"), &ip)
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

// proofErrorResponse keeps the error body in the usual envelope while serving
// files instead of JSON on the happy path.
func proofErrorResponse(message string, err error) commons.Response[struct{}] {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrTransferNotFound),
		errors.Is(err, domain.ErrBurkinaTillOnly):
		return commons.ErrorResponse[struct{}](message, err.Error())
	default:
		return commons.ErrorResponse[struct{}](message, "Unable to download the proof right now")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// operatorFrom pulls the authenticated operator off the request context. The
// auth middleware guarantees it for registered routes; a miss means the route
// was wired without the middleware.
func operatorFrom(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return domain.User{}, false
	}
	return actor, true
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func statusFor(message string, err error) int {
	switch message {
	case "validation failed", "invalid request body", "invalid fees":
		return http.StatusBadRequest
	case "forbidden":
		return http.StatusForbidden
	}

	switch {
	case errors.Is(err, domain.ErrTransferNotFound),
		errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidStatusForConfirmation),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrDuplicateReference):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorizedCountryConfirmation),
		errors.Is(err, domain.ErrAdminOnly),
		errors.Is(err, domain.ErrBurkinaTillOnly):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrProofRequired),
		errors.Is(err, domain.ErrInvalidFeeOverride),
		errors.Is(err, domain.ErrUnsupportedCurrency),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidEntryType),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
