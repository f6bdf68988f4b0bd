// Package httpkit holds the gin middleware and response helpers shared by
// every module. It contains no business logic.
package httpkit

import (
	"net/http"
	"time"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID   = "X-Request-ID"
	maxRequestIDBytes = 64
)

// RequestID reuses the caller's X-Request-ID when it is short enough and
// mints one otherwise. The id is echoed back and stored on the request
// context for logger.WithContext.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDBytes {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// RequestLogger logs one line per request. Server errors recorded through
// HandleError are logged at error level with the underlying cause.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError && len(c.Errors) > 0 {
			log.HTTPError(c.Request.Context(), c.Request.Method, path, status, c.Errors.Last(), c.ClientIP())
			return
		}
		latencyMs := float64(time.Since(start).Microseconds()) / 1000
		log.HTTPRequest(c.Request.Context(), c.Request.Method, path, status, latencyMs, c.ClientIP())
	}
}

// SecurityHeaders sets headers for a JSON-only API. Score payloads carry
// contact details, so responses are never cached.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Cache-Control", "no-store")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
