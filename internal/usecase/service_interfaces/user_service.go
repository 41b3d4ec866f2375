package service_interfaces

import (
	"context"

	"github.com/BillyHamid/backendGlobal/internal/adapter/http/models"
	"github.com/BillyHamid/backendGlobal/internal/commons"
	"github.com/BillyHamid/backendGlobal/internal/domain"
)

type UserService interface {
	// Authenticate resolves an active user by username and verifies the
	// password against the stored bcrypt hash.
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
	CreateUser(ctx context.Context, actor domain.User, req models.CreateUserRequest) (commons.Response[models.UserResponse], error)

	// EnsureAdmin seeds the bootstrap administrator when the users table is
	// empty. Idempotent.
	EnsureAdmin(ctx context.Context, username, password string) error
}
