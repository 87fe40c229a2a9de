package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/middleware"
	"github.com/stemsi/studypilot-backend/internal/model"
	"github.com/stemsi/studypilot-backend/internal/response"
	"github.com/stemsi/studypilot-backend/internal/service"
	"github.com/stemsi/studypilot-backend/internal/validator"
)

// AuthHandler handles authentication endpoints. Learners sign in through
// Supabase; only admins log in here.
type AuthHandler struct {
	adminService *service.AdminService
	log          zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(adminService *service.AdminService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		adminService: adminService,
		log:          log.With().Str("component", "auth_handler").Logger(),
	}
}

// GetLearnerProfile godoc
// GET /api/v1/auth/me
// Returns the identity carried by the learner's access token.
func (h *AuthHandler) GetLearnerProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"learner": gin.H{
			"id":    claims.UserID(),
			"email": claims.Email,
			"role":  claims.Role,
		},
	})
}

// AdminLogin godoc
// POST /api/v1/auth/admin/login
// Validates email + password, returns JWT with permissions.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.adminService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":       session.Token,
		"expires_at":  session.ExpiresAt,
		"admin":       session.Admin,
		"permissions": session.Admin.Permissions,
	})
}

// GetAdminProfile godoc
// GET /api/v1/auth/admin/me
// Returns the profile of the currently authenticated admin.
func (h *AuthHandler) GetAdminProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	adminID, err := claims.AdminID()
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	admin, err := h.adminService.GetByID(c.Request.Context(), adminID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"admin":       admin,
		"permissions": admin.Permissions,
	})
}
