package api

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kickit-app/kickit/pkg/kickit"
)

// RequestIDHeader carries the request id to the browser and the API.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an id. A valid incoming id is kept so
// that a proxy in front of the server can correlate its own logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(kickit.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// RequestLogger logs each request once it has been served.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"request_id", kickit.RequestIDFromContext(c.Request.Context()),
		}
		switch {
		case status >= 500:
			log.Error("request", fields...)
		case c.Request.URL.Path == "/healthz":
			log.Debug("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
