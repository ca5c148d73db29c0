package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/artelier/store-backend/internal/middleware"
	"github.com/artelier/store-backend/internal/utils"
)

// mockVerifier implements middleware.TokenVerifier without any signing key.
type mockVerifier struct {
	accountID string
	err       error
}

func (m mockVerifier) Verify(tokenString string) (string, error) {
	return m.accountID, m.err
}

// mockRoleFetcher implements middleware.RoleFetcher without any database dependency.
type mockRoleFetcher struct {
	role string
	err  error
}

func (m mockRoleFetcher) FindRoleByID(id string) (string, error) {
	return m.role, m.err
}

// callWithCookie wraps a simple 200-OK inner handler in the provided middleware,
// optionally setting one cookie on the request, and returns the recorded response.
func callWithCookie(t *testing.T, mw func(http.Handler) http.Handler, cookieName, cookieValue string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw(inner)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if cookieName != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestAuthMiddleware_MissingCookie verifies that a request with no token
// cookie receives a 401 with the generic access-denied body.
func TestAuthMiddleware_MissingCookie(t *testing.T) {
	mw := middleware.AuthMiddleware(mockVerifier{})

	rec := callWithCookie(t, mw, "", "")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Access denied") {
		t.Errorf("expected body to contain %q, got: %q", "Access denied", rec.Body.String())
	}
}

// TestAuthMiddleware_InvalidToken verifies that a failed verification yields
// a 401 response containing "Invalid or expired token".
func TestAuthMiddleware_InvalidToken(t *testing.T) {
	mw := middleware.AuthMiddleware(mockVerifier{err: errors.New("bad signature")})

	rec := callWithCookie(t, mw, middleware.SessionCookieName, "garbage")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid or expired token") {
		t.Errorf("expected body to contain %q, got: %q", "Invalid or expired token", rec.Body.String())
	}
}

// TestAuthMiddleware_ValidToken verifies that a request with a verifiable
// token receives a 200 response and that the account id lands in the context.
func TestAuthMiddleware_ValidToken(t *testing.T) {
	const wantAccountID = "test-account-123"

	// inner handler reads and checks the account id from context
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, ok := utils.GetAccountIDFromContext(r.Context())
		if !ok {
			http.Error(w, "accountID not in context", http.StatusInternalServerError)
			return
		}
		if gotID != wantAccountID {
			http.Error(w, "wrong accountID in context: "+gotID, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mw := middleware.AuthMiddleware(mockVerifier{accountID: wantAccountID})
	handler := mw(inner)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "valid-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}
}

// adminRequest runs AdminMiddleware over a 200-OK inner handler with the
// given fetcher, optionally seeding an account id through AuthMiddleware.
func adminRequest(t *testing.T, fetcher middleware.RoleFetcher, withIdentity bool) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.AdminMiddleware(fetcher)(inner)
	if withIdentity {
		handler = middleware.AuthMiddleware(mockVerifier{accountID: "some-account"})(handler)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if withIdentity {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "valid-token"})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestAdminMiddleware_MissingIdentity verifies that AdminMiddleware returns 401
// when no account id is present in the request context (i.e. AuthMiddleware
// did not run).
func TestAdminMiddleware_MissingIdentity(t *testing.T) {
	rec := adminRequest(t, mockRoleFetcher{}, false)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

// TestAdminMiddleware_NonAdmin verifies that an authenticated non-admin
// account receives a 403 with the admin-only body.
func TestAdminMiddleware_NonAdmin(t *testing.T) {
	rec := adminRequest(t, mockRoleFetcher{role: "user"}, true)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Admin only") {
		t.Errorf("expected body to contain %q, got: %q", "Admin only", rec.Body.String())
	}
}

// TestAdminMiddleware_MissingAccount verifies that a vanished account is
// treated like a non-admin (403), not a server error.
func TestAdminMiddleware_MissingAccount(t *testing.T) {
	rec := adminRequest(t, mockRoleFetcher{err: middleware.ErrAccountNotFound}, true)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

// TestAdminMiddleware_FetcherError verifies that a storage failure surfaces
// as a 500 rather than leaking through as a role decision.
func TestAdminMiddleware_FetcherError(t *testing.T) {
	rec := adminRequest(t, mockRoleFetcher{err: errors.New("connection refused")}, true)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

// TestAdminMiddleware_Admin verifies that an admin account passes through
// unchanged.
func TestAdminMiddleware_Admin(t *testing.T) {
	rec := adminRequest(t, mockRoleFetcher{role: "admin"}, true)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}
}

// TestRateLimiter verifies that requests beyond the burst from one IP are
// rejected with 429 while a fresh IP is still admitted.
func TestRateLimiter(t *testing.T) {
	rl := middleware.NewRateLimiter(0, 2)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rl.Middleware(inner)

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := send("10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", code)
	}
	if code := send("10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("fresh IP: expected 200, got %d", code)
	}
}
