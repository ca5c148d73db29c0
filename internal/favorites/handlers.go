package favorites

import (
	"errors"
	"net/http"

	"github.com/artelier/store-backend/internal/accounts"
	"github.com/artelier/store-backend/internal/db"
	"github.com/artelier/store-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Products live in another service; this package only tracks their ids on
// the account record.

func ListHandler(w http.ResponseWriter, r *http.Request) {
	acct, ok := loadAccount(w, r)
	if !ok {
		return
	}

	respondFavorites(w, acct)
}

func AddHandler(w http.ResponseWriter, r *http.Request) {
	acct, ok := loadAccount(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productID")
	if !contains(acct.Favorites, productID) {
		acct.Favorites = append(acct.Favorites, productID)
		if err := db.DB.Model(acct).Update("favorites", acct.Favorites).Error; err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to add favorite")
			return
		}
	}

	respondFavorites(w, acct)
}

func RemoveHandler(w http.ResponseWriter, r *http.Request) {
	acct, ok := loadAccount(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productID")
	kept := make(pq.StringArray, 0, len(acct.Favorites))
	for _, id := range acct.Favorites {
		if id != productID {
			kept = append(kept, id)
		}
	}

	if len(kept) != len(acct.Favorites) {
		acct.Favorites = kept
		if err := db.DB.Model(acct).Update("favorites", acct.Favorites).Error; err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to remove favorite")
			return
		}
	}

	respondFavorites(w, acct)
}

func respondFavorites(w http.ResponseWriter, acct *accounts.Account) {
	favorites := acct.Favorites
	if favorites == nil {
		favorites = pq.StringArray{}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"favorites": favorites,
	})
}

func loadAccount(w http.ResponseWriter, r *http.Request) (*accounts.Account, bool) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Access denied")
		return nil, false
	}

	var acct accounts.Account
	err := db.DB.First(&acct, "id = ?", accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return nil, false
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error")
		return nil, false
	}

	return &acct, true
}

func contains(list pq.StringArray, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
