package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BillyHamid/backendGlobal/internal/domain"
)

type fakeAuthenticator struct {
	user domain.User
}

func (f fakeAuthenticator) Authenticate(_ context.Context, username, password string) (domain.User, error) {
	if username == f.user.Username && password == "correct-password" {
		return f.user, nil
	}
	return domain.User{}, domain.ErrInvalidCredential
}

func basicHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func TestOperatorAuth_AllowsValidCredentials(t *testing.T) {
	operator := domain.User{ID: "u1", Username: "aminata", Role: domain.RolePayerAgent, Country: "Burkina Faso"}
	mw := OperatorAuth(fakeAuthenticator{user: operator})

	var seen domain.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Fatalf("expected operator in request context")
		}
		seen = user
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", basicHeader("aminata", "correct-password"))

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if seen.ID != operator.ID {
		t.Fatalf("expected operator %q in context, got %q", operator.ID, seen.ID)
	}
}

func TestOperatorAuth_RejectsInvalidCredentials(t *testing.T) {
	mw := OperatorAuth(fakeAuthenticator{user: domain.User{Username: "aminata"}})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler must not run for invalid credentials")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", basicHeader("aminata", "wrong-password"))

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestOperatorAuth_RejectsMissingHeader(t *testing.T) {
	mw := OperatorAuth(fakeAuthenticator{user: domain.User{Username: "aminata"}})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler must not run without credentials")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}
