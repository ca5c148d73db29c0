package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed payload, or natural expiry. Callers don't get to distinguish.
var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
}

// Issuer signs and verifies session tokens. Stateless on purpose: there is
// no revocation list, expiry is the only enforced bound.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// TTL reports the validity window tokens are issued with. The cookie's
// MaxAge is derived from it so the two can't drift apart.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

func (i *Issuer) Issue(accountID string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		AccountID: accountID,
	})

	return t.SignedString(i.secret)
}

// Verify returns the account id embedded in tokenString, or ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}
	if claims.AccountID == "" {
		return "", ErrInvalidToken
	}

	return claims.AccountID, nil
}
