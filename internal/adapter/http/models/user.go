package models

import (
	"errors"
	"strings"
	"time"

	"github.com/BillyHamid/backendGlobal/internal/domain"
)

type CreateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Country  string `json:"country"`
}

func (r CreateUserRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, "username is required")
	}
	if len(r.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}

	switch domain.Role(strings.TrimSpace(r.Role)) {
	case domain.RoleAdmin, domain.RoleSupervisor, domain.RoleSenderAgent, domain.RolePayerAgent:
	default:
		errs = append(errs, "role must be admin, supervisor, sender_agent or payer_agent")
	}

	if strings.TrimSpace(r.Country) == "" {
		errs = append(errs, "country is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Country   string    `json:"country"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Role:      string(u.Role),
		Country:   u.Country,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
