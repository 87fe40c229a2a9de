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

// ExamHandler handles mock exams, marking, history and predictions.
type ExamHandler struct {
	examService *service.ExamService
	log         zerolog.Logger
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService, log zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		examService: examService,
		log:         log.With().Str("component", "exam_handler").Logger(),
	}
}

// StartMockExam godoc
// POST /api/v1/exams/mock
// Picks questions and opens a session; the answer key stays on the server.
func (h *ExamHandler) StartMockExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.GenerateMockExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	payload, err := h.examService.StartMockExam(c.Request.Context(), claims.UserID(), req)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, payload)
}

// SubmitMockExam godoc
// POST /api/v1/exams/mock/:session_id/submit
func (h *ExamHandler) SubmitMockExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitAnswersRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	graded, err := h.examService.SubmitMockExam(c.Request.Context(), claims.UserID(), sessionID, req.Answers)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, graded)
}

// MarkExam godoc
// POST /api/v1/exams/mark
// Grades answers keyed by question ID against one subject.
func (h *ExamHandler) MarkExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.MarkExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	graded, err := h.examService.MarkExam(c.Request.Context(), claims.UserID(), req)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, graded)
}

// ListAttempts godoc
// GET /api/v1/exams/attempts?page=&per_page=
func (h *ExamHandler) ListAttempts(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	page, perPage := response.PageParams(c)
	attempts, pagination, err := h.examService.History(c.Request.Context(), claims.UserID(), page, perPage)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"attempts": attempts}, pagination)
}

// GetPrediction godoc
// GET /api/v1/exams/prediction?subject=&days_until_exam=
func (h *ExamHandler) GetPrediction(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var q model.PredictionQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	prediction, err := h.examService.Predict(c.Request.Context(), claims.UserID(), q.Subject, q.DaysUntilExam)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, prediction)
}
