package main

import (
	"log"
	"os"

	"github.com/artelier/store-backend/internal/accounts"
	"github.com/artelier/store-backend/internal/config"
	"github.com/artelier/store-backend/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bootstraps the first admin account. Role elevation is otherwise only
// possible through an already-existing admin, so a fresh deployment runs
// this once.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	email := accounts.NormalizeEmail(os.Getenv("ADMIN_EMAIL"))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	if !accounts.ValidPassword(password) {
		log.Fatal("ADMIN_PASSWORD does not satisfy the password policy")
	}

	db.Connect(cfg.DatabaseURL)
	accounts.Init()

	var existing accounts.Account
	err = db.DB.First(&existing, "email = ?", email).Error
	if err == nil {
		if existing.Role == accounts.RoleAdmin {
			log.Printf("Admin already exists, skipping: %s", email)
			return
		}
		if err := db.DB.Model(&existing).Update("role", accounts.RoleAdmin).Error; err != nil {
			log.Fatalf("Failed to promote %s: %v", email, err)
		}
		log.Printf("Promoted existing account to admin: %s", email)
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("DB error while checking %s: %v", email, err)
	}

	acct := accounts.Account{
		ID:       uuid.NewString(),
		Username: "admin",
		Email:    email,
		Phone:    "0000000001",
		Role:     accounts.RoleAdmin,
	}
	if err := acct.SetPassword(password, cfg.BcryptCost); err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	if err := db.DB.Create(&acct).Error; err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("Seeded admin account: %s", email)
}
