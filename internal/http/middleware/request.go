package middleware

import (
	"net/http"
	"time"

	"mainet/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestContext attaches a request id to the request logger and logs
// failed requests once they complete.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header("X-Request-ID", reqID)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), "request_id", reqID))

		start := time.Now()
		c.Next()

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			logger.WithContext(c.Request.Context()).Warn("request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"status", status,
				"latency", time.Since(start).String())
		}
	}
}

// CORS allows the configured frontend origin. An empty origin echoes the caller.
func CORS(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (allowedOrigin == "" || allowedOrigin == "*" || origin == allowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
