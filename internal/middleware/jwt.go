package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stemsi/studypilot-backend/internal/response"
	"github.com/stemsi/studypilot-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
)

// TokenValidator validates a raw bearer token.
type TokenValidator func(token string) (*service.Claims, error)

// RequireLearnerJWT validates a Supabase access token from the Authorization header.
func RequireLearnerJWT(authService *service.AuthService) gin.HandlerFunc {
	return requireJWT(authService.ValidateLearnerToken, response.ErrLearnerAccessOnly, false)
}

// RequireAdminJWT validates an admin JWT from the Authorization header.
func RequireAdminJWT(authService *service.AuthService) gin.HandlerFunc {
	return requireJWT(authService.ValidateAdminToken, response.ErrAdminAccessOnly, false)
}

// RequireLearnerWSAuth validates a learner token from the query param ?token=...
// Used for WebSocket upgrade requests, which cannot carry headers from browsers.
func RequireLearnerWSAuth(authService *service.AuthService) gin.HandlerFunc {
	return requireJWT(authService.ValidateLearnerToken, response.ErrLearnerAccessOnly, true)
}

func requireJWT(validate TokenValidator, wrongType response.ErrCode, queryOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string
		if queryOnly {
			tokenStr = c.Query("token")
		} else {
			tokenStr = bearerToken(c)
		}
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := validate(tokenStr)
		switch {
		case err == nil:
		case errors.Is(err, jwt.ErrTokenExpired):
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenExpired)
			return
		case errors.Is(err, service.ErrWrongTokenType):
			response.AbortFail(c, http.StatusForbidden, wrongType)
			return
		default:
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
