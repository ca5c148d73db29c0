package accounts

import (
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is the durable identity record. The raw password never touches
// this struct; only PasswordHash is persisted, and it is written through
// SetPassword alone so a hash can never be hashed again.
type Account struct {
	ID           string         `gorm:"primaryKey" json:"_id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string         `gorm:"uniqueIndex;not null" json:"phone"`
	PasswordHash string         `json:"-"`
	Role         string         `gorm:"default:'user'" json:"role"`
	Bio          string         `json:"bio"`
	Profession   string         `json:"profession"`
	ProfileImage string         `json:"profileImage"`
	Favorites    pq.StringArray `gorm:"type:text[]" json:"favorites"`

	ResetTokenHash      *string    `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Account) TableName() string { return "app_accounts.accounts" }

// SetPassword hashes plaintext with a fresh salt and stores the digest.
// Every password write in the codebase goes through here.
func (a *Account) SetPassword(plaintext string, cost int) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashed)
	return nil
}

func (a *Account) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)) == nil
}

// PublicAccount is the only shape of an account that leaves the server.
type PublicAccount struct {
	ID           string         `json:"_id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Role         string         `json:"role"`
	Bio          string         `json:"bio"`
	Profession   string         `json:"profession"`
	ProfileImage string         `json:"profileImage"`
	Favorites    pq.StringArray `json:"favorites"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (a *Account) Public() PublicAccount {
	favorites := a.Favorites
	if favorites == nil {
		favorites = pq.StringArray{}
	}
	return PublicAccount{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		Phone:        a.Phone,
		Role:         a.Role,
		Bio:          a.Bio,
		Profession:   a.Profession,
		ProfileImage: a.ProfileImage,
		Favorites:    favorites,
		CreatedAt:    a.CreatedAt,
	}
}
