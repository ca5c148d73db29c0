package accounts_test

import (
	"testing"

	"github.com/artelier/store-backend/internal/accounts"
)

func TestValidPassword(t *testing.T) {
	cases := []struct {
		pw   string
		want bool
	}{
		{"Abcdef1", true},
		{"Abcde1", true},   // exactly six
		{"abcdef1", false}, // no uppercase
		{"ABCDEF1", false}, // no lowercase
		{"Abcdefg", false}, // no digit
		{"Ab1", false},     // too short
		{"", false},
	}

	for _, c := range cases {
		if got := accounts.ValidPassword(c.pw); got != c.want {
			t.Errorf("ValidPassword(%q) = %v, want %v", c.pw, got, c.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := accounts.NormalizeEmail("  Ana@X.COM "); got != "ana@x.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestNormalizeUsername(t *testing.T) {
	// e + combining acute accent collapses to the precomposed form.
	decomposed := "ané"
	composed := "ané"
	if got := accounts.NormalizeUsername("  " + decomposed + " "); got != composed {
		t.Errorf("NormalizeUsername = %q, want %q", got, composed)
	}
}
