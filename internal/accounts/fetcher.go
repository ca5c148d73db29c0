package accounts

import (
	"errors"

	"github.com/artelier/store-backend/internal/db"
	"github.com/artelier/store-backend/internal/middleware"
	"gorm.io/gorm"
)

// RoleInfo adapts the accounts table to middleware.RoleFetcher.
type RoleInfo struct{}

func (RoleInfo) FindRoleByID(id string) (string, error) {
	var acct Account

	err := db.DB.Select("role").First(&acct, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", middleware.ErrAccountNotFound
	}
	if err != nil {
		return "", err
	}

	return acct.Role, nil
}
