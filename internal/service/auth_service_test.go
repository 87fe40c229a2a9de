package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stemsi/studypilot-backend/internal/config"
)

func testAuthService() *AuthService {
	return NewAuthService(&config.Config{
		SupabaseJWTSecret: "learner-secret",
		AdminJWTSecret:    "admin-secret",
		JWTExpiry:         time.Hour,
		BcryptCost:        4,
	})
}

func TestPasswordHashing(t *testing.T) {
	s := testAuthService()
	hash, err := s.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := s.CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := s.CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
}

func TestAdminTokenRoundTrip(t *testing.T) {
	s := testAuthService()
	tok, exp, err := s.GenerateAdminToken(42, []string{"questions:read"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry %v is in the past", exp)
	}

	claims, err := s.ValidateAdminToken(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	id, err := claims.AdminID()
	if err != nil || id != 42 {
		t.Fatalf("admin id = %d, %v", id, err)
	}
	if len(claims.Permissions) != 1 || claims.Permissions[0] != "questions:read" {
		t.Fatalf("permissions = %v", claims.Permissions)
	}

	if _, err := s.ValidateLearnerToken(tok); err == nil {
		t.Fatal("admin token accepted as learner token")
	}
}

func TestValidateLearnerToken(t *testing.T) {
	s := testAuthService()
	sign := func(c jwt.MapClaims) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("learner-secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return tok
	}
	future := time.Now().Add(time.Hour).Unix()

	claims, err := s.ValidateLearnerToken(sign(jwt.MapClaims{"sub": "abc", "aud": "authenticated", "exp": future}))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID() != "abc" || claims.TokenType != TokenTypeLearner {
		t.Fatalf("claims = %+v", claims)
	}

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"wrong audience", jwt.MapClaims{"sub": "abc", "aud": "anon", "exp": future}},
		{"no expiry", jwt.MapClaims{"sub": "abc", "aud": "authenticated"}},
		{"expired", jwt.MapClaims{"sub": "abc", "aud": "authenticated", "exp": time.Now().Add(-time.Hour).Unix()}},
		{"no subject", jwt.MapClaims{"aud": "authenticated", "exp": future}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.ValidateLearnerToken(sign(tt.claims)); err == nil {
				t.Fatal("token accepted")
			}
		})
	}
}
