package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/asistoya/shared-services/internal/core/domain"
)

// Claims are the access token claims. Subject is the identity id.
type Claims struct {
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 access tokens signed with the project key.
type Tokens struct {
	key   []byte
	ttl   time.Duration
	clock domain.Clock
}

func NewTokens(key string, ttl time.Duration, clock domain.Clock) *Tokens {
	return &Tokens{key: []byte(key), ttl: ttl, clock: clock}
}

// Issue signs an access token for user and returns it with its expiry.
func (t *Tokens) Issue(user domain.AuthUser) (string, time.Time, error) {
	now := t.clock.Now()
	exp := now.Add(t.ttl)
	role, _ := user.UserMetadata["role"].(string)

	claims := Claims{
		Email:        user.Email,
		Role:         role,
		UserMetadata: user.UserMetadata,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies raw and returns its claims. Tokens signed with any other
// method family are rejected.
func (t *Tokens) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.key, nil
	}, jwt.WithTimeFunc(t.clock.Now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("auth: invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("auth: invalid token: missing subject")
	}
	return claims, nil
}
