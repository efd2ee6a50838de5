package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	LogResponseID = "responseId"
	LogBoard      = "board"
	LogProvider   = "aiProvider"
	LogOutcome    = "outcome"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"session_id":  contextString(c, sessionIDKey),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		for key, name := range map[string]string{
			LogResponseID: "response_id",
			LogBoard:      "board",
			LogProvider:   "ai_provider",
			LogOutcome:    "outcome",
		} {
			if v := contextString(c, key); v != "" {
				fields[name] = v
			}
		}
		telemetry.Info("request.complete", fields)
	}
}
