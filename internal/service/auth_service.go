package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/studypilot-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongTokenType     = errors.New("wrong token type")
)

// TokenType distinguishes learner vs admin tokens.
type TokenType string

const (
	TokenTypeLearner TokenType = "learner"
	TokenTypeAdmin   TokenType = "admin"
)

// supabaseAudience is the aud claim Supabase Auth puts on signed-in users.
const supabaseAudience = "authenticated"

// Claims extends JWT standard claims with app-specific fields. Learner
// tokens are Supabase access tokens, so only the registered claims, email
// and role are present on them; TokenType is set after validation.
type Claims struct {
	jwt.RegisteredClaims
	TokenType   TokenType `json:"token_type,omitempty"`
	Email       string    `json:"email,omitempty"`
	Role        string    `json:"role,omitempty"`
	Permissions []string  `json:"permissions,omitempty"` // Admin only
}

// UserID is the learner ID (Supabase user UUID) carried in sub.
func (c *Claims) UserID() string { return c.Subject }

// AdminID parses the admin ID carried in sub.
func (c *Claims) AdminID() (int, error) { return strconv.Atoi(c.Subject) }

// AuthService handles password hashing and JWT issuing/validation.
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateAdminToken creates a JWT for an admin with permissions embedded.
func (s *AuthService) GenerateAdminToken(adminID int, permissions []string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.JWTExpiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.Itoa(adminID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenType:   TokenTypeAdmin,
		Permissions: permissions,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.AdminJWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateLearnerToken verifies a Supabase access token.
func (s *AuthService) ValidateLearnerToken(tokenStr string) (*Claims, error) {
	claims, err := parse(tokenStr, s.cfg.SupabaseJWTSecret,
		jwt.WithAudience(supabaseAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.TokenType == TokenTypeAdmin {
		return nil, ErrWrongTokenType
	}
	claims.TokenType = TokenTypeLearner
	return claims, nil
}

// ValidateAdminToken verifies a token issued by GenerateAdminToken.
func (s *AuthService) ValidateAdminToken(tokenStr string) (*Claims, error) {
	claims, err := parse(tokenStr, s.cfg.AdminJWTSecret, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAdmin {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func parse(tokenStr, secret string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
