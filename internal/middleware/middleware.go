package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/artelier/store-backend/internal/utils"
	"golang.org/x/time/rate"
)

// SessionCookieName is the cookie the auth gate reads the token from. The
// token is deliberately not read from the Authorization header.
const SessionCookieName = "token"

// TokenVerifier validates a session token and returns the account id it
// was issued for.
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

// ErrAccountNotFound distinguishes a missing account from a storage failure
// in RoleFetcher implementations.
var ErrAccountNotFound = errors.New("account not found")

// RoleFetcher looks up the current role of an account. The admin gate does
// a fresh lookup per request rather than trusting a role baked into the
// token, so demotions take effect immediately.
type RoleFetcher interface {
	FindRoleByID(id string) (string, error)
}

// AuthMiddleware verifies the session cookie and injects the account id
// into the request context.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				utils.RespondError(w, http.StatusUnauthorized, "Access denied")
				return
			}

			accountID, err := verifier.Verify(cookie.Value)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextAccountIDKey, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware must run after AuthMiddleware; it relies on the account id
// already being in the context.
func AdminMiddleware(fetcher RoleFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, ok := utils.GetAccountIDFromContext(r.Context())
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, "Access denied")
				return
			}

			role, err := fetcher.FindRoleByID(accountID)
			if err != nil {
				if errors.Is(err, ErrAccountNotFound) {
					utils.RespondError(w, http.StatusForbidden, "Access denied. Admin only.")
					return
				}
				utils.RespondError(w, http.StatusInternalServerError, "Server error")
				return
			}

			if role != "admin" {
				utils.RespondError(w, http.StatusForbidden, "Access denied. Admin only.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewCORSMiddleware echoes the origin back only when it is on the
// configured allow-list.
func NewCORSMiddleware(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin") // important for caches
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter hands out a token bucket per client IP. Used on the
// credential endpoints (register, login, forgot-password) to slow down
// guessing.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[ip] = l
	}
	return l
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !rl.limiterFor(ip).Allow() {
			utils.RespondError(w, http.StatusTooManyRequests, "Too many attempts, please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
