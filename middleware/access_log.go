package middleware

import (
	"time"

	"github.com/annazecevic/comics-service/logger"
	"github.com/gin-gonic/gin"
)

func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info(logger.EventHTTPRequest, "request handled", logger.Fields(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", RequestIDFrom(c),
			"ip", c.ClientIP(),
		))
	}
}
