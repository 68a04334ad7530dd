// Package middleware holds the gin middleware chain shared by every
// route: request id tagging, structured access logging, panic
// recovery and CORS.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader is the header a caller may set to propagate its own
// request id; a missing or empty header gets a generated one.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, generating one when the
// caller didn't supply it, and echoes it back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger logs one structured line per request: method, path, status,
// latency and request id.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", RequestIDFrom(c)),
		)
	}
}

// Recovery turns a panic anywhere downstream into a 500 JSON response
// instead of killing the connection, logging the recovered value.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic_recovered",
					zap.Any("error", r),
					zap.String("request_id", RequestIDFrom(c)),
				)
				c.AbortWithStatusJSON(500, gin.H{
					"code":    "Internal",
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// CORS allows cross-origin requests from any origin; the planning UI
// this service backs runs on a separate origin in every deployment.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
		c.Header("Access-Control-Expose-Headers", RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// RequestIDFrom reads the request id a prior RequestID() call attached.
func RequestIDFrom(c *gin.Context) string {
	if v, ok := c.Get("request_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
