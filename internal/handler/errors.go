package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/response"
	"github.com/stemsi/studypilot-backend/internal/service"
)

// serviceErrors maps domain errors to their HTTP status and API code.
var serviceErrors = []struct {
	err    error
	status int
	code   response.ErrCode
}{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
	{service.ErrNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrSubjectNotFound, http.StatusNotFound, response.ErrSubjectNotFound},
	{service.ErrNoQuestions, http.StatusUnprocessableEntity, response.ErrNoQuestions},
	{service.ErrQuestionNotFound, http.StatusNotFound, response.ErrQuestionNotFound},
	{service.ErrSessionNotFound, http.StatusNotFound, response.ErrSessionNotFound},
	{service.ErrSessionSubmitted, http.StatusConflict, response.ErrSessionSubmitted},
	{service.ErrPlanNotFound, http.StatusNotFound, response.ErrPlanNotFound},
	{service.ErrTaskNotFound, http.StatusNotFound, response.ErrTaskNotFound},
	{service.ErrDeadlinePassed, http.StatusUnprocessableEntity, response.ErrDeadlinePassed},
	{service.ErrExportDisabled, http.StatusServiceUnavailable, response.ErrExportDisabled},
	{service.ErrUnknownActivity, http.StatusBadRequest, response.ErrUnknownActivity},
}

// failService writes the response for err, logging anything unexpected.
func failService(c *gin.Context, log zerolog.Logger, err error) {
	if errors.Is(err, service.ErrInvalidQuestion) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"correct_answer": err.Error(),
		})
		return
	}
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			response.Fail(c, m.status, m.code)
			return
		}
	}

	log.Error().Err(err).
		Str("request_id", response.RequestID(c)).
		Str("path", c.FullPath()).
		Msg("Request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
