package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"enhanceme/internal/shared/telemetry"
)

// AnalysisStateKey is set by handlers that move the orchestration state.
const AnalysisStateKey = "analysisState"

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"session_id":  SessionIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if state := c.GetString(AnalysisStateKey); state != "" {
			fields["analysis_state"] = state
		}
		telemetry.Info("request.complete", fields)
	}
}
