package favorites

import (
	"github.com/artelier/store-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(verifier middleware.TokenVerifier) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.AuthMiddleware(verifier))

	r.Get("/", ListHandler)
	r.Post("/{productID}", AddHandler)
	r.Delete("/{productID}", RemoveHandler)

	return r
}
