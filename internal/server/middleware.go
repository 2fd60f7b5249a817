package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vinizanotti89/influencer-panel-go/pkg/errors"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request with latency and status.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			fields = append(fields, zap.String("query", query))
		}

		switch {
		case status >= 500:
			logger.Error("Request failed", fields...)
		case status >= 400:
			logger.Warn("Request rejected", fields...)
		default:
			logger.Info("Request completed", fields...)
		}
	}
}

// Recovery converts panics into 500 responses instead of killing the server.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Handler panicked",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": apperrors.NormalizedError{
						Message: "request failed, please try again",
						Code:    apperrors.CodeService,
					},
				})
			}
		}()
		c.Next()
	}
}

// CORS allows browser dashboards on other origins to call the API.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// respondError maps an internal error onto the wire format shared by every
// endpoint.
func respondError(c *gin.Context, err error, platform string) {
	normalized := apperrors.Normalize(err, platform)
	c.JSON(apperrors.StatusCode(err), gin.H{"error": normalized})
}
