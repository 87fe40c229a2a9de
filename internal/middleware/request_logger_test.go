package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/response"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
	}{
		{"ok", "/plans", http.StatusOK, "info"},
		{"client error", "/plans", http.StatusNotFound, "warn"},
		{"server error", "/plans", http.StatusInternalServerError, "error"},
		{"health", "/health", http.StatusOK, "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := zerolog.New(&buf).Level(zerolog.DebugLevel)

			r := gin.New()
			r.Use(response.RequestIDMiddleware(), RequestLogger(log))
			r.GET(tt.path, func(c *gin.Context) { c.Status(tt.status) })

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set(response.HeaderRequestID, "req-1")
			r.ServeHTTP(httptest.NewRecorder(), req)

			var line map[string]any
			if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
				t.Fatalf("decode log line %q: %v", buf.String(), err)
			}
			if line["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", line["level"], tt.wantLevel)
			}
			if line["request_id"] != "req-1" {
				t.Errorf("request_id = %v, want req-1", line["request_id"])
			}
			if got := int(line["status"].(float64)); got != tt.status {
				t.Errorf("status = %d, want %d", got, tt.status)
			}
		})
	}
}
