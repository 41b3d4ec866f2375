package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BillyHamid/backendGlobal/internal/adapter/http/models"
	"github.com/BillyHamid/backendGlobal/internal/adapter/repository/repo_interfaces"
	"github.com/BillyHamid/backendGlobal/internal/commons"
	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/logger"
	"github.com/BillyHamid/backendGlobal/internal/usecase/service_interfaces"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users repo_interfaces.UserRepository
}

var _ service_interfaces.UserService = (*UserService)(nil)

func NewUserService(users repo_interfaces.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.User{}, domain.ErrInvalidCredential
		}
		return domain.User{}, err
	}
	if !user.IsActive {
		return domain.User{}, domain.ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredential
	}
	return user, nil
}

func (s *UserService) CreateUser(ctx context.Context, actor domain.User, req models.CreateUserRequest) (commons.Response[models.UserResponse], error) {
	logger.Info("user service create user request", logger.Fields{
		"actor":   actor.Username,
		"payload": logger.SanitizePayload(req),
	})

	if !actor.IsAdmin() {
		return commons.ErrorResponse[models.UserResponse]("forbidden", domain.ErrAdminOnly.Error()), domain.ErrAdminOnly
	}

	if err := req.Validate(); err != nil {
		logger.Error("user service create user validation failed", err, nil)
		return commons.ErrorResponse[models.UserResponse]("validation failed", err.Error()), err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("user service password hash failed", err, nil)
		return commons.ErrorResponse[models.UserResponse]("failed to create user", "Unable to create user right now"), fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Name:         strings.TrimSpace(req.Name),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
		Role:         domain.Role(strings.TrimSpace(req.Role)),
		Country:      strings.TrimSpace(req.Country),
		IsActive:     true,
	})
	if err != nil {
		logger.Error("user service create user failed", err, nil)
		return commons.ErrorResponse[models.UserResponse]("failed to create user", "Unable to create user right now"), err
	}

	return commons.SuccessResponse("user created successfully", models.NewUserResponse(user)), nil
}

func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	count, err := s.users.CountAll(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap admin password: %w", err)
	}

	if _, err := s.users.Create(ctx, domain.User{
		Name:         "Administrator",
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Country:      domain.CountryUSA,
		IsActive:     true,
	}); err != nil {
		return fmt.Errorf("seed bootstrap admin: %w", err)
	}

	logger.Info("bootstrap administrator seeded", logger.Fields{
		"username": username,
	})

	return nil
}
