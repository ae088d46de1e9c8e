package web

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func Success(msg any) any {
	result := make(map[string]any)
	result["success"] = true
	result["result"] = msg
	result["error"] = nil
	return result
}

func Fail(msg any) any {
	result := make(map[string]any)
	result["success"] = false
	result["result"] = nil
	result["error"] = msg
	return result
}

// requestLogger tags each request with an ID and logs it once it completes.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		logger.Info("HTTP request",
			"requestID", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
