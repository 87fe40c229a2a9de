package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/model"
	"github.com/stemsi/studypilot-backend/internal/repository"
)

// AdminSession is the result of a successful admin login.
type AdminSession struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Admin     *model.Admin `json:"admin"`
}

// AdminService handles question-bank author accounts.
type AdminService struct {
	adminRepo   *repository.AdminRepository
	authService *AuthService
	log         zerolog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(adminRepo *repository.AdminRepository, authService *AuthService, log zerolog.Logger) *AdminService {
	return &AdminService{
		adminRepo:   adminRepo,
		authService: authService,
		log:         log.With().Str("component", "admin_service").Logger(),
	}
}

// Login checks credentials and issues an admin token.
func (s *AdminService) Login(ctx context.Context, email, password string) (*AdminSession, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}

	if err := s.authService.CheckPassword(admin.PasswordHash, password); err != nil {
		s.log.Warn().Int("admin_id", admin.ID).Msg("Failed admin login")
		return nil, err
	}

	token, expiresAt, err := s.authService.GenerateAdminToken(admin.ID, admin.Permissions)
	if err != nil {
		return nil, err
	}
	return &AdminSession{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

// GetByID retrieves an admin by ID.
func (s *AdminService) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	admin, err := s.adminRepo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return admin, err
}

// CreateOrUpdate hashes the password and stores the admin, replacing an
// existing account with the same email.
func (s *AdminService) CreateOrUpdate(ctx context.Context, email, name, password string, permissions []string) (*model.Admin, error) {
	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if len(permissions) == 0 {
		permissions = model.DefaultAdminPermissions
	}
	admin := &model.Admin{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Permissions:  permissions,
	}
	if err := s.adminRepo.Upsert(ctx, admin); err != nil {
		return nil, fmt.Errorf("upsert admin: %w", err)
	}
	return admin, nil
}
