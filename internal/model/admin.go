package model

import "time"

// Permission codes carried in admin tokens.
const (
	PermissionQuestionsRead  = "questions:read"
	PermissionQuestionsWrite = "questions:write"
)

// DefaultAdminPermissions is granted to admins created from the CLI.
var DefaultAdminPermissions = []string{PermissionQuestionsRead, PermissionQuestionsWrite}

// Admin is a question-bank author.
type Admin struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Permissions  []string  `json:"permissions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminLoginRequest is the payload for admin authentication.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}
