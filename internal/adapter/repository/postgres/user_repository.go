package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/logger"
	"github.com/google/uuid"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	const insert = `
INSERT INTO users (id, name, username, password_hash, role, country, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		insert,
		user.ID,
		user.Name,
		user.Username,
		user.PasswordHash,
		string(user.Role),
		user.Country,
		user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		logger.Error("user repository create failed", err, logger.Fields{
			"username": user.Username,
		})
		return domain.User{}, fmt.Errorf("insert user %s: %w", user.Username, err)
	}

	logger.Info("user repository created", logger.Fields{
		"userId":   user.ID,
		"username": user.Username,
		"role":     user.Role,
	})

	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	const query = `
SELECT id, name, username, password_hash, role, country, is_active, created_at, updated_at
FROM users
WHERE username = $1`

	var user domain.User
	if err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.Country,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, domain.ErrRecordNotFound
		}
		return domain.User{}, fmt.Errorf("get user %s: %w", username, err)
	}

	return user, nil
}

func (r *UserRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
