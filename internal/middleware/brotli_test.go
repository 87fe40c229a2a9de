package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

func TestBrotli(t *testing.T) {
	gin.SetMode(gin.TestMode)
	long := strings.Repeat("study plan ", 200)

	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 64}))
	r.GET("/long", func(c *gin.Context) {
		c.String(http.StatusOK, long[:30])
		c.String(http.StatusOK, long[30:])
	})
	r.GET("/short", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	get := func(path, enc string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", enc)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/long", "gzip, br;q=0.9")
	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("content-encoding = %q", w.Header().Get("Content-Encoding"))
	}
	body, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(body) != long {
		t.Fatalf("decoded body differs: got %d bytes, want %d", len(body), len(long))
	}

	w = get("/short", "br")
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != "ok" {
		t.Fatalf("short body should pass through, got %q %q", w.Header().Get("Content-Encoding"), w.Body.String())
	}

	w = get("/long", "gzip")
	if w.Header().Get("Content-Encoding") != "" || w.Body.String() != long {
		t.Fatal("client without br support got a compressed body")
	}
}
