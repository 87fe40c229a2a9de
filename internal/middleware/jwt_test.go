package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stemsi/studypilot-backend/internal/config"
	"github.com/stemsi/studypilot-backend/internal/model"
	"github.com/stemsi/studypilot-backend/internal/service"
)

const (
	learnerSecret = "supabase-test-secret"
	adminSecret   = "admin-test-secret"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuth() *service.AuthService {
	return service.NewAuthService(&config.Config{
		SupabaseJWTSecret: learnerSecret,
		AdminJWTSecret:    adminSecret,
		JWTExpiry:         time.Hour,
		BcryptCost:        4,
	})
}

func learnerToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"aud":   "authenticated",
		"role":  "authenticated",
		"email": "learner@example.com",
		"exp":   exp.Unix(),
	})
	s, err := tok.SignedString([]byte(learnerSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func serve(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireLearnerJWT(t *testing.T) {
	auth := testAuth()
	adminTok, _, err := auth.GenerateAdminToken(7, model.DefaultAdminPermissions)
	if err != nil {
		t.Fatalf("admin token: %v", err)
	}

	r := gin.New()
	r.GET("/me", RequireLearnerJWT(auth), func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).UserID())
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"expired", "Bearer " + learnerToken(t, "u-1", time.Now().Add(-time.Minute)), http.StatusUnauthorized},
		{"admin token", "Bearer " + adminTok, http.StatusUnauthorized},
		{"valid", "Bearer " + learnerToken(t, "u-1", time.Now().Add(time.Hour)), http.StatusOK},
		{"lowercase scheme", "bearer " + learnerToken(t, "u-1", time.Now().Add(time.Hour)), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, "/me", tt.header)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusOK && w.Body.String() != "u-1" {
				t.Fatalf("user id = %q", w.Body.String())
			}
		})
	}
}

func TestRequireAdminJWT_WithPermission(t *testing.T) {
	auth := testAuth()
	tok, _, err := auth.GenerateAdminToken(3, []string{model.PermissionQuestionsRead})
	if err != nil {
		t.Fatalf("admin token: %v", err)
	}

	r := gin.New()
	admin := r.Group("/admin", RequireAdminJWT(auth))
	admin.GET("/read", RequirePermission(model.PermissionQuestionsRead), func(c *gin.Context) { c.Status(http.StatusOK) })
	admin.GET("/write", RequirePermission(model.PermissionQuestionsWrite), func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := serve(r, "/admin/read", "Bearer "+tok); w.Code != http.StatusOK {
		t.Fatalf("read status = %d", w.Code)
	}
	if w := serve(r, "/admin/write", "Bearer "+tok); w.Code != http.StatusForbidden {
		t.Fatalf("write status = %d, want 403", w.Code)
	}
	learner := learnerToken(t, "u-1", time.Now().Add(time.Hour))
	if w := serve(r, "/admin/read", "Bearer "+learner); w.Code != http.StatusUnauthorized {
		t.Fatalf("learner on admin route = %d, want 401", w.Code)
	}
}

func TestRequireLearnerWSAuth(t *testing.T) {
	auth := testAuth()
	r := gin.New()
	r.GET("/ws", RequireLearnerWSAuth(auth), func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := serve(r, "/ws", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d", w.Code)
	}
	tok := learnerToken(t, "u-2", time.Now().Add(time.Hour))
	if w := serve(r, "/ws?token="+tok, ""); w.Code != http.StatusOK {
		t.Fatalf("query token = %d", w.Code)
	}
}
