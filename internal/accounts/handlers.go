package accounts

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/artelier/store-backend/internal/config"
	"github.com/artelier/store-backend/internal/db"
	"github.com/artelier/store-backend/internal/mail"
	"github.com/artelier/store-backend/internal/middleware"
	"github.com/artelier/store-backend/internal/token"
	"github.com/artelier/store-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Handler carries the credential flows. Config, token issuer, and mail
// sender are injected at startup; nothing here reads the environment.
type Handler struct {
	cfg    *config.Config
	issuer *token.Issuer
	mailer mail.Sender
}

func NewHandler(cfg *config.Config, issuer *token.Issuer, mailer mail.Sender) *Handler {
	return &Handler{cfg: cfg, issuer: issuer, mailer: mailer}
}

// sessionCookie builds the token cookie. Secure/SameSite=None in production
// so the cookie survives the cross-site frontend; Lax over plain HTTP in dev.
func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.cfg.Production {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Production,
		SameSite: sameSite,
	}
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Password string `json:"password" validate:"required,password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	req.Username = NormalizeUsername(req.Username)
	req.Email = NormalizeEmail(req.Email)

	if err := validate.Struct(req); err != nil {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"errors":  validationMessages(err),
		})
		return
	}

	var existing Account
	err := db.DB.Where("email = ? OR phone = ?", req.Email, req.Phone).First(&existing).Error
	if err == nil {
		utils.RespondError(w, http.StatusConflict, "Email or phone number already in use")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	acct := Account{
		ID:       uuid.NewString(),
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     RoleUser,
	}
	if err := acct.SetPassword(req.Password, h.cfg.BcryptCost); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	if err := db.DB.Create(&acct).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	// No token here: registration does not log the account in.
	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User registered successfully",
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	var acct Account
	err := db.DB.First(&acct, "email = ?", NormalizeEmail(req.Email)).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	// Same message whether the email is unknown or the password is wrong.
	if err != nil || !acct.CheckPassword(req.Password) {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.respondLoggedIn(w, &acct, "Logged in successfully")
}

type GoogleLoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	PhotoURL string `json:"photoURL"`
}

func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Email == "" || req.Username == "" {
		utils.RespondError(w, http.StatusBadRequest, "Email and username are required")
		return
	}

	email := NormalizeEmail(req.Email)

	var acct Account
	err := db.DB.First(&acct, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		phone := req.Phone
		if phone == "" {
			phone = "0000000000"
		}

		acct = Account{
			ID:           uuid.NewString(),
			Username:     NormalizeUsername(req.Username),
			Email:        email,
			Phone:        phone,
			Role:         RoleUser,
			ProfileImage: req.PhotoURL,
		}
		// Google collects no password, so synthesize one nobody knows.
		if err := acct.SetPassword(syntheticPassword(), h.cfg.BcryptCost); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Google login failed")
			return
		}
		if err := db.DB.Create(&acct).Error; err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Google login failed")
			return
		}
	} else if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Google login failed")
		return
	}

	h.respondLoggedIn(w, &acct, "Google login successful")
}

// respondLoggedIn issues a session token, sets the cookie, and returns the
// sanitized account. Shared tail of the login and google-login flows.
func (h *Handler) respondLoggedIn(w http.ResponseWriter, acct *Account, message string) {
	tok, err := h.issuer.Issue(acct.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	http.SetCookie(w, h.sessionCookie(tok, int(h.issuer.TTL().Seconds())))
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"token":   tok,
		"user":    acct.Public(),
	})
}

// Logout is idempotent: the cookie is cleared whether or not a session
// existed. Stateless tokens have nothing server-side to revoke.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	var acct Account
	err := db.DB.First(&acct, "email = ?", NormalizeEmail(req.Email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Discloses account existence; kept as-is, see DESIGN.md.
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to process request")
		return
	}

	raw, hash, err := NewResetToken()
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to process request")
		return
	}

	expires := time.Now().Add(h.cfg.ResetTokenTTL)
	err = db.DB.Model(&acct).Updates(map[string]any{
		"reset_token_hash":       hash,
		"reset_token_expires_at": expires,
	}).Error
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to process request")
		return
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", h.cfg.ClientURL, raw)
	if err := h.mailer.Send(acct.Email, "Reset Your Password", mail.ResetPasswordBody(resetURL)); err != nil {
		log.Println("forgot-password mail error:", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to process request")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password reset link sent to your email",
	})
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if !ValidPassword(req.Password) {
		utils.RespondError(w, http.StatusBadRequest,
			"Password must contain at least one uppercase letter, one lowercase letter, and one number.")
		return
	}

	hash := HashResetToken(chi.URLParam(r, "token"))

	var acct Account
	err := db.DB.Where("reset_token_hash = ? AND reset_token_expires_at > ?", hash, time.Now()).
		First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(w, http.StatusBadRequest, "Invalid or expired token")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	if err := acct.SetPassword(req.Password, h.cfg.BcryptCost); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	// New hash and token clearing land in one write: the token is single use.
	err = db.DB.Model(&acct).Updates(map[string]any{
		"password_hash":          acct.PasswordHash,
		"reset_token_hash":       nil,
		"reset_token_expires_at": nil,
	}).Error
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password reset successfully",
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.currentAccount(w, r)
	if !ok {
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    acct.Public(),
	})
}

type EditProfileRequest struct {
	Username     *string `json:"username"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Bio          *string `json:"bio"`
	Profession   *string `json:"profession"`
	ProfileImage *string `json:"profileImage"`
}

func (h *Handler) EditProfile(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.currentAccount(w, r)
	if !ok {
		return
	}

	var req EditProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	updates := map[string]any{}
	if req.Username != nil {
		updates["username"] = NormalizeUsername(*req.Username)
	}
	if req.Email != nil {
		updates["email"] = NormalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		if !phonePattern.MatchString(*req.Phone) {
			utils.RespondError(w, http.StatusBadRequest, "Phone number must be a valid number")
			return
		}
		updates["phone"] = *req.Phone
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Profession != nil {
		updates["profession"] = *req.Profession
	}
	if req.ProfileImage != nil {
		updates["profile_image"] = *req.ProfileImage
	}

	if len(updates) > 0 {
		if err := db.DB.Model(acct).Updates(updates).Error; err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		// Re-read so the response reflects what was actually stored.
		if err := db.DB.First(acct, "id = ?", acct.ID).Error; err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    acct.Public(),
	})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.currentAccount(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		utils.RespondError(w, http.StatusBadRequest, "Both passwords required")
		return
	}

	if !acct.CheckPassword(req.CurrentPassword) {
		// More specific than login's generic message; see DESIGN.md.
		utils.RespondError(w, http.StatusUnauthorized, "Incorrect current password")
		return
	}

	if !ValidPassword(req.NewPassword) {
		utils.RespondError(w, http.StatusBadRequest,
			"Password must contain at least one uppercase letter, one lowercase letter, and one number.")
		return
	}

	if err := acct.SetPassword(req.NewPassword, h.cfg.BcryptCost); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}
	if err := db.DB.Model(acct).Update("password_hash", acct.PasswordHash).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password changed successfully",
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var accts []Account
	if err := db.DB.Order("created_at desc").Find(&accts).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	data := make([]PublicAccount, 0, len(accts))
	for i := range accts {
		data = append(data, accts[i].Public())
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	result := db.DB.Delete(&Account{}, "id = ?", chi.URLParam(r, "id"))
	if result.Error != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "User deleted successfully",
	})
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Role != RoleUser && req.Role != RoleAdmin {
		utils.RespondError(w, http.StatusBadRequest, "Role must be user or admin")
		return
	}

	var acct Account
	err := db.DB.First(&acct, "id = ?", chi.URLParam(r, "id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update role")
		return
	}

	if err := db.DB.Model(&acct).Update("role", req.Role).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update role")
		return
	}
	acct.Role = req.Role

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "User role updated",
		"user":    acct.Public(),
	})
}

// currentAccount loads the account whose id AuthMiddleware put in the
// context, handling the error responses itself.
func (h *Handler) currentAccount(w http.ResponseWriter, r *http.Request) (*Account, bool) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Access denied")
		return nil, false
	}

	var acct Account
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

// syntheticPassword builds a throwaway policy-satisfying password for
// accounts created through Google login.
func syntheticPassword() string {
	var n uint32
	_ = binary.Read(rand.Reader, binary.BigEndian, &n)
	return fmt.Sprintf("Abc%04d", n%10000)
}
