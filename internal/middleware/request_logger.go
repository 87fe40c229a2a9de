package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/response"
)

// RequestLogger writes one structured line per request. Server errors log at
// error level, client errors at warn, the rest at debug for ops routes and
// info otherwise.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "http").Logger()

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		var evt *zerolog.Event
		switch {
		case status >= 500:
			evt = log.Error()
		case status >= 400:
			evt = log.Warn()
		case path == "/health" || path == "/metrics":
			evt = log.Debug()
		default:
			evt = log.Info()
		}

		evt = evt.
			Str("request_id", response.RequestID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP())

		if claims := GetClaims(c); claims != nil {
			evt = evt.Str("subject", claims.Subject)
		}
		if len(c.Errors) > 0 {
			evt = evt.Str("errors", c.Errors.String())
		}
		evt.Msg("Request handled")
	}
}
