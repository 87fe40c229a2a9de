package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/middleware"
	"github.com/stemsi/studypilot-backend/internal/response"
	"github.com/stemsi/studypilot-backend/internal/service"
	"github.com/stemsi/studypilot-backend/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestFailService(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   response.ErrCode
	}{
		{"wrapped not found", fmt.Errorf("get plan: %w", service.ErrPlanNotFound), http.StatusNotFound, response.ErrPlanNotFound},
		{"already submitted", service.ErrSessionSubmitted, http.StatusConflict, response.ErrSessionSubmitted},
		{"export disabled", service.ErrExportDisabled, http.StatusServiceUnavailable, response.ErrExportDisabled},
		{"invalid question", service.ErrInvalidQuestion, http.StatusBadRequest, response.ErrValidation},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, response.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			failService(c, zerolog.Nop(), tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			body := decodeResponse(t, w)
			if body.Error == nil || body.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want code %s", body.Error, tt.wantCode)
			}
		})
	}
}

func withLearner(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyClaims, &service.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
			TokenType:        service.TokenTypeLearner,
		})
		c.Next()
	}
}

func TestPlanHandler_RejectsBadInput(t *testing.T) {
	h := NewPlanHandler(nil, zerolog.Nop())

	r := gin.New()
	r.POST("/plans", withLearner("learner-1"), h.CreatePlan)
	r.GET("/plans/:id", withLearner("learner-1"), h.GetPlan)
	r.GET("/anonymous/:id", h.GetPlan)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   response.ErrCode
		wantField  string
	}{
		{
			name:       "missing fields",
			method:     http.MethodPost,
			path:       "/plans",
			body:       `{"exam_type":"WAEC"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.ErrValidation,
			wantField:  "deadline",
		},
		{
			name:       "bad deadline format",
			method:     http.MethodPost,
			path:       "/plans",
			body:       `{"exam_type":"WAEC","deadline":"31/12/2026","hours_per_day":2,"subjects":["Physics"]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.ErrValidation,
			wantField:  "deadline",
		},
		{
			name:       "invalid plan id",
			method:     http.MethodGet,
			path:       "/plans/not-a-uuid",
			wantStatus: http.StatusBadRequest,
			wantCode:   response.ErrInvalidID,
		},
		{
			name:       "no claims",
			method:     http.MethodGet,
			path:       "/anonymous/8a4f0e52-3f0c-4d7e-9a51-2f1d2b3c4d5e",
			wantStatus: http.StatusUnauthorized,
			wantCode:   response.ErrTokenRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			body := decodeResponse(t, w)
			if body.Error == nil || body.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want code %s", body.Error, tt.wantCode)
			}
			if tt.wantField != "" {
				if _, ok := body.Error.Fields[tt.wantField]; !ok {
					t.Fatalf("fields = %v, want %q", body.Error.Fields, tt.wantField)
				}
			}
		})
	}
}

func TestGameHandler_RejectsUnknownActivity(t *testing.T) {
	h := NewGameHandler(nil, zerolog.Nop())

	r := gin.New()
	r.POST("/game/activity", withLearner("learner-1"), h.RecordActivity)

	req := httptest.NewRequest(http.MethodPost, "/game/activity", bytes.NewBufferString(`{"activity":"napping"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
	if body := decodeResponse(t, w); body.Error.Fields["activity"] == "" {
		t.Fatalf("fields = %v, want activity error", body.Error.Fields)
	}
}
