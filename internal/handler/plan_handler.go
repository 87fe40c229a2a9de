package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/middleware"
	"github.com/stemsi/studypilot-backend/internal/model"
	"github.com/stemsi/studypilot-backend/internal/response"
	"github.com/stemsi/studypilot-backend/internal/service"
	"github.com/stemsi/studypilot-backend/internal/validator"
)

// PlanHandler handles study plan endpoints.
type PlanHandler struct {
	planService *service.StudyPlanService
	log         zerolog.Logger
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService *service.StudyPlanService, log zerolog.Logger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		log:         log.With().Str("component", "plan_handler").Logger(),
	}
}

// CreatePlan godoc
// POST /api/v1/plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateStudyPlanRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), claims.UserID(), req)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, plan)
}

// ListPlans godoc
// GET /api/v1/plans?page=&per_page=
func (h *PlanHandler) ListPlans(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	page, perPage := response.PageParams(c)
	plans, pagination, err := h.planService.List(c.Request.Context(), claims.UserID(), page, perPage)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"plans": plans}, pagination)
}

// GetPlan godoc
// GET /api/v1/plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	claims, planID, ok := planRequest(c)
	if !ok {
		return
	}

	plan, err := h.planService.Get(c.Request.Context(), claims.UserID(), planID)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, plan)
}

// GetPace godoc
// GET /api/v1/plans/:id/pace?hours_completed=
func (h *PlanHandler) GetPace(c *gin.Context) {
	claims, planID, ok := planRequest(c)
	if !ok {
		return
	}

	var q model.PaceQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	pace, err := h.planService.Pace(c.Request.Context(), claims.UserID(), planID, q.HoursCompleted)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, pace)
}

// UpdateTask godoc
// PATCH /api/v1/plans/:id/tasks/:task_id
func (h *PlanHandler) UpdateTask(c *gin.Context) {
	claims, planID, ok := planRequest(c)
	if !ok {
		return
	}

	var req model.UpdateTaskRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	plan, err := h.planService.SetTaskCompleted(c.Request.Context(), claims.UserID(), planID, c.Param("task_id"), *req.Completed)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, plan)
}

// ExportPlan godoc
// POST /api/v1/plans/:id/export
func (h *PlanHandler) ExportPlan(c *gin.Context) {
	claims, planID, ok := planRequest(c)
	if !ok {
		return
	}

	export, err := h.planService.Export(c.Request.Context(), claims.UserID(), planID)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, export)
}

// planRequest extracts the caller and the :id plan parameter, writing the
// error response itself when either is missing.
func planRequest(c *gin.Context) (*service.Claims, uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, uuid.Nil, false
	}
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, uuid.Nil, false
	}
	return claims, planID, true
}
