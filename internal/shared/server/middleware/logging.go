package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"feedback-console/internal/shared/telemetry"
)

// SessionIDKey is where handlers record the console session a request addressed.
const SessionIDKey = "sessionId"

// EventKey is where handlers record the session event a request dispatched.
const EventKey = "event"

// Logging emits a structured log per request. Long-lived event streams log once they close.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if sessionID := c.GetString(SessionIDKey); sessionID != "" {
			fields["session_id"] = sessionID
		}
		if event := c.GetString(EventKey); event != "" {
			fields["event"] = event
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		telemetry.Info("request.complete", fields)
	}
}
