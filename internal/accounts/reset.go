package accounts

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewResetToken generates a single-use password-reset credential. The raw
// value goes into the outgoing email; only the hash is ever stored.
func NewResetToken() (raw string, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(b)
	return raw, HashResetToken(raw), nil
}

// HashResetToken maps a raw reset token to its at-rest form.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
