package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"claims-backend/internal/shared/telemetry"
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
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		ownerID, _ := c.Get("ownerId")
		documentID, _ := c.Get("documentId")
		documentStatus := ""
		if raw, ok := c.Get("documentStatus"); ok {
			if s, ok := raw.(string); ok {
				documentStatus = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":      reqID,
			"method":          c.Request.Method,
			"path":            c.Request.URL.Path,
			"status":          status,
			"document_id":     documentID,
			"document_status": documentStatus,
			"duration_ms":     float64(latency.Microseconds()) / 1000.0,
			"owner_id":        ownerID,
			"client_ip":       c.ClientIP(),
			"user_agent":      c.Request.UserAgent(),
		})
	}
}
