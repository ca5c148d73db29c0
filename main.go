package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/artelier/store-backend/internal/accounts"
	"github.com/artelier/store-backend/internal/config"
	"github.com/artelier/store-backend/internal/db"
	"github.com/artelier/store-backend/internal/favorites"
	"github.com/artelier/store-backend/internal/mail"
	"github.com/artelier/store-backend/internal/middleware"
	"github.com/artelier/store-backend/internal/token"
	"github.com/go-chi/chi/v5"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "API server is running")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	db.Connect(cfg.DatabaseURL)
	accounts.Init()

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)
	mailer := mail.NewSMTPSender(cfg.SMTP)
	handler := accounts.NewHandler(cfg, issuer, mailer)

	// 5 attempts per 15 minutes, matching the old storefront's limiter.
	limiter := middleware.NewRateLimiter(5.0/(15*60), 5)

	r := chi.NewRouter()
	r.Use(middleware.NewCORSMiddleware(cfg.AllowedOrigins))
	r.Get("/", RootHandler)

	r.Mount("/api/auth", accounts.SetupRoutes(handler, limiter))
	r.Mount("/api/favorites", favorites.SetupRoutes(issuer))

	log.Println("Server listening on", cfg.ListenAddr)

	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		log.Fatal(err)
	}
}
