package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/asistoya/shared-services/internal/adapters/auth"
	"github.com/asistoya/shared-services/internal/core/domain"
)

var t0 = time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

func TestTokens_IssueAndParse(t *testing.T) {
	// ARRANGE
	tokens := auth.NewTokens("secret", time.Hour, domain.FixedClock{At: t0})
	user := domain.AuthUser{ID: "user-1", Email: "ana@example.com", UserMetadata: map[string]any{"role": "teacher"}}

	// ACT
	raw, exp, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := tokens.Parse(raw)

	// ASSERT
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if !exp.Equal(t0.Add(time.Hour)) {
		t.Errorf("expected expiry %v, got %v", t0.Add(time.Hour), exp)
	}
	if claims.Subject != "user-1" || claims.Email != "ana@example.com" || claims.Role != "teacher" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestTokens_Parse_Rejects(t *testing.T) {
	issuer := auth.NewTokens("secret", time.Hour, domain.FixedClock{At: t0})
	valid, _, err := issuer.Issue(domain.AuthUser{ID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		parser *auth.Tokens
		raw    func(t *testing.T) string
	}{
		{
			name:   "expired_token",
			parser: auth.NewTokens("secret", time.Hour, domain.FixedClock{At: t0.Add(2 * time.Hour)}),
			raw:    func(t *testing.T) string { return valid },
		},
		{
			name:   "wrong_key",
			parser: auth.NewTokens("other", time.Hour, domain.FixedClock{At: t0}),
			raw:    func(t *testing.T) string { return valid },
		},
		{
			name:   "unsigned_token",
			parser: issuer,
			raw: func(t *testing.T) string {
				claims := jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(t0.Add(time.Hour))}
				s, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
				if err != nil {
					t.Fatalf("sign: %v", err)
				}
				return s
			},
		},
		{
			name:   "missing_subject",
			parser: issuer,
			raw: func(t *testing.T) string {
				claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(t0.Add(time.Hour))}
				s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
				if err != nil {
					t.Fatalf("sign: %v", err)
				}
				return s
			},
		},
		{
			name:   "garbage",
			parser: issuer,
			raw:    func(t *testing.T) string { return "not.a.token" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parser.Parse(tt.raw(t))

			if err == nil {
				t.Fatal("expected parse error")
			}
			if !strings.HasPrefix(err.Error(), "auth: invalid token") {
				t.Errorf("unexpected error %q", err)
			}
		})
	}
}
