package accounts

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Digits with an optional leading +, 10-15 of them.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	})

	return v
}

// ValidPassword enforces the account password policy: at least six
// characters with one lowercase letter, one uppercase letter, and one digit.
func ValidPassword(pw string) bool {
	if len(pw) < 6 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// NormalizeUsername trims and NFC-normalizes a handle so visually identical
// names can't occupy two rows.
func NormalizeUsername(username string) string {
	return norm.NFC.String(strings.TrimSpace(username))
}

// NormalizeEmail lowercases and trims an address before any lookup or write.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validationMessages flattens validator errors into client-facing strings.
func validationMessages(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"Invalid request"}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, "Email must be a valid email address")
		case "phone":
			msgs = append(msgs, "Phone number must be a valid number")
		case "password":
			msgs = append(msgs, "Password must contain at least one uppercase letter, one lowercase letter, and one number.")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return msgs
}
