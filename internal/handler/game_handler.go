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

// GameHandler exposes XP, levels, streaks and badges.
type GameHandler struct {
	gameService *service.GameService
	log         zerolog.Logger
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(gameService *service.GameService, log zerolog.Logger) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		log:         log.With().Str("component", "game_handler").Logger(),
	}
}

// GetProfile godoc
// GET /api/v1/game/profile
func (h *GameHandler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	profile, err := h.gameService.Profile(c.Request.Context(), claims.UserID())
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// RecordActivity godoc
// POST /api/v1/game/activity
func (h *GameHandler) RecordActivity(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.RecordActivityRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	reward, err := h.gameService.RecordActivity(c.Request.Context(), claims.UserID(), req)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, reward)
}

// ListBadges godoc
// GET /api/v1/game/badges
func (h *GameHandler) ListBadges(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	badges, err := h.gameService.Badges(c.Request.Context(), claims.UserID())
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"badges": badges})
}
