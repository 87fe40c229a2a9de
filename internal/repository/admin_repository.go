package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/studypilot-backend/internal/model"
)

// AdminRepository handles admin data access.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

const adminColumns = `id, email, name, password_hash, permissions, created_at, updated_at`

// GetByID retrieves an admin by ID.
func (r *AdminRepository) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	a := &model.Admin{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id,
	).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Permissions, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByEmail retrieves an admin by their unique email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	a := &model.Admin{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE LOWER(email) = LOWER($1)`, email,
	).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Permissions, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Upsert inserts an admin or, when the email exists, replaces its name,
// password and permissions.
func (r *AdminRepository) Upsert(ctx context.Context, a *model.Admin) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO admins (email, name, password_hash, permissions)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (email) DO UPDATE
		 SET name = EXCLUDED.name,
		     password_hash = EXCLUDED.password_hash,
		     permissions = EXCLUDED.permissions,
		     updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		a.Email, a.Name, a.PasswordHash, a.Permissions,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}
