// Package middleware provides the gin middleware shared by all routes:
// request logging, CORS, and prometheus instrumentation.
package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDKey is the gin context key holding the per-request id.
const requestIDKey = "request_id"

// RequestID returns the id assigned to this request, or "" before the
// logger middleware has run.
func RequestID(c *gin.Context) string {
	id, _ := c.Value(requestIDKey).(string)
	return id
}

// RequestLogger assigns each request a uuid, echoes it in X-Request-ID, and
// logs method, path, status, and duration when the handler chain finishes.
// Server faults log at error level, caller faults at warn.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestID,
		}
		switch {
		case status >= 500:
			slog.Error("Request completed", args...)
		case status >= 400:
			slog.Warn("Request completed", args...)
		default:
			slog.Info("Request completed", args...)
		}
	}
}
