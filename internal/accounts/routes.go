package accounts

import (
	"github.com/artelier/store-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the credential flows. The rate limiter covers the
// endpoints an attacker can grind on.
func SetupRoutes(h *Handler, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	authGate := middleware.AuthMiddleware(h.issuer)
	adminGate := middleware.AdminMiddleware(RoleInfo{})

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/forgot-password", h.ForgotPassword)
	})

	r.Post("/google-login", h.GoogleLogin)
	r.Post("/logout", h.Logout)
	r.Post("/reset-password/{token}", h.ResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(authGate)
		r.Get("/me", h.Me)
		r.Patch("/edit-profile", h.EditProfile)
		r.Patch("/change-password", h.ChangePassword)

		r.Group(func(r chi.Router) {
			r.Use(adminGate)
			r.Get("/users", h.ListUsers)
			r.Delete("/users/{id}", h.DeleteUser)
			r.Put("/users/{id}", h.UpdateUserRole)
		})
	})

	return r
}
