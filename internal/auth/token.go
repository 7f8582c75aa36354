package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for a token that is malformed, expired, or
// signed with the wrong key.
var ErrInvalidToken = errors.New("invalid access token")

// TokenIssuer signs and verifies HS256 access tokens whose subject is the
// member id.
type TokenIssuer struct {
	secret  []byte
	expires time.Duration
	now     func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. Tokens are valid for expires.
func NewTokenIssuer(secret string, expires time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:  []byte(secret),
		expires: expires,
		now:     time.Now,
	}
}

// Issue creates a signed token for memberID.
func (t *TokenIssuer) Issue(memberID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   memberID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.expires)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenString and returns the member id it was issued for.
func (t *TokenIssuer) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
