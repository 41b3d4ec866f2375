package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/BillyHamid/backendGlobal/internal/adapter/http/models"
	"github.com/BillyHamid/backendGlobal/internal/commons"
	"github.com/BillyHamid/backendGlobal/internal/domain"
)

type UserService interface {
	CreateUser(ctx context.Context, actor domain.User, req models.CreateUserRequest) (commons.Response[models.UserResponse], error)
}

type UserController struct {
	service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{service: service}
}

func (c *UserController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("POST /api/users", wrap(c.create))
}

func (c *UserController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	actor, ok := operatorFrom(w, r)
	if !ok {
		return
	}

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.UserResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateUser(r.Context(), actor, req)
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
