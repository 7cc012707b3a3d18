// Package auth issues and verifies unlock-session tokens.
//
// After the extension proves knowledge of the master secret once, it gets a
// short-lived HS256 token and presents it on subsequent fill/reveal
// requests. The signing key is random per process, so tokens die with the
// host; nothing about them is persisted and they never cache the secret.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/loginkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	jwt.RegisteredClaims
	SessionID string
}

type Sessions struct {
	key []byte
	ttl time.Duration
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{key: common.GenerateRandByteArray(32), ttl: ttl}
}

// Issue creates a fresh session token valid for the configured TTL.
func (s *Sessions) Issue() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
		},
		SessionID: uuid.NewString(),
	})

	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature and expiry and returns the session id.
// Expired tokens yield common.ErrTokenExpired, everything else invalid
// yields common.ErrInvalidToken.
func (s *Sessions) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.SessionID, nil
}
