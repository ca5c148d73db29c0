package accounts

import (
	"log"

	"github.com/artelier/store-backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "app_accounts"); err != nil {
		log.Fatal("Failed to ensure schema app_accounts: ", err)
	}

	if err := db.DB.AutoMigrate(&Account{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
