package middleware

import (
	"context"
	"net/http"

	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/logger"
)

// Authenticator resolves an operator from basic auth credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
}

type contextKey string

const userContextKey contextKey = "authenticated-user"

// OperatorAuth guards routes with basic auth against the users table and
// attaches the resolved operator to the request context.
func OperatorAuth(users Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w, r, "missing_credentials")
				return
			}

			user, err := users.Authenticate(r.Context(), username, password)
			if err != nil {
				unauthorized(w, r, "invalid_credentials")
				return
			}

			logger.Info("operator auth middleware authorized request", logger.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"username": user.Username,
				"role":     user.Role,
			})

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the operator attached by OperatorAuth.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(domain.User)
	return user, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	logger.Info("operator auth middleware unauthorized request", logger.Fields{
		"method":      r.Method,
		"path":        r.URL.Path,
		"credentials": reason,
	})
	w.Header().Set("WWW-Authenticate", `Basic realm="restricted"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
