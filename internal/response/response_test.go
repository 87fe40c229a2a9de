package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"", 1, 20},
		{"?page=3&per_page=10", 3, 10},
		{"?page=0&per_page=-5", 1, 20},
		{"?page=abc&per_page=500", 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)

			page, perPage := PageParams(c)
			if page != tt.wantPage || perPage != tt.wantPerPage {
				t.Fatalf("PageParams = (%d, %d), want (%d, %d)", page, perPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 41)
	if p.TotalPages != 3 || p.TotalItems != 41 {
		t.Fatalf("pagination = %+v, want 3 pages of 41 items", p)
	}
	if NewPagination(1, 20, 0).TotalPages != 0 {
		t.Fatal("empty result should have zero pages")
	}
}

func TestFail_CarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrPlanNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("response header = %q, want abc-123", got)
	}
	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Metadata.RequestID != "abc-123" {
		t.Fatalf("metadata request_id = %q", body.Metadata.RequestID)
	}
	if body.Error == nil || body.Error.Message != GetMessage(ErrPlanNotFound) {
		t.Fatalf("error = %+v", body.Error)
	}
}
