package accounts_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/artelier/store-backend/internal/accounts"
	"golang.org/x/crypto/bcrypt"
)

// TestSetPassword_NeverStoresPlaintext verifies the stored digest is never
// the submitted plaintext and that verification round-trips.
func TestSetPassword_NeverStoresPlaintext(t *testing.T) {
	var acct accounts.Account

	if err := acct.SetPassword("Abcdef1", bcrypt.MinCost); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	if acct.PasswordHash == "Abcdef1" {
		t.Fatal("password stored as plaintext")
	}
	if !acct.CheckPassword("Abcdef1") {
		t.Error("CheckPassword rejected the correct password")
	}
	if acct.CheckPassword("Abcdef2") {
		t.Error("CheckPassword accepted a wrong password")
	}
}

// TestSetPassword_FreshSaltPerCall verifies two hashes of the same
// plaintext differ (per-call random salt).
func TestSetPassword_FreshSaltPerCall(t *testing.T) {
	var a, b accounts.Account
	if err := a.SetPassword("Abcdef1", bcrypt.MinCost); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if err := b.SetPassword("Abcdef1", bcrypt.MinCost); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	if a.PasswordHash == b.PasswordHash {
		t.Error("expected different digests for the same plaintext")
	}
}

// TestPublicProjection_OmitsSecrets serializes both the model and its
// projection and checks no credential material leaks.
func TestPublicProjection_OmitsSecrets(t *testing.T) {
	var acct accounts.Account
	acct.ID = "id-1"
	acct.Username = "ana123"
	acct.Email = "a@x.com"
	if err := acct.SetPassword("Abcdef1", bcrypt.MinCost); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	hash := "sometokenhash"
	acct.ResetTokenHash = &hash

	for _, v := range []any{acct, acct.Public()} {
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body := string(raw)
		if strings.Contains(body, acct.PasswordHash) {
			t.Errorf("serialized form contains the password hash: %s", body)
		}
		if strings.Contains(body, "sometokenhash") {
			t.Errorf("serialized form contains the reset token hash: %s", body)
		}
	}
}

// TestPublicProjection_EmptyFavorites verifies the projection serializes an
// empty list rather than null.
func TestPublicProjection_EmptyFavorites(t *testing.T) {
	var acct accounts.Account

	raw, err := json.Marshal(acct.Public())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"favorites":[]`) {
		t.Errorf("expected empty favorites array, got: %s", raw)
	}
}
