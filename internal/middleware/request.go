// Package middleware holds the gin middleware shared by the HTTP API.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/clinical-ui-manifest/internal/domain"
)

const (
	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key holding the request ID.
	RequestIDKey = "request_id"
)

// RequestID adds a unique request ID to each request for audit trails
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Reuse the caller's ID when present
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// Logger logs one structured entry per request
func Logger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"request_id":    c.GetString(RequestIDKey),
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"status":        status,
			"duration_ms":   time.Since(start).Milliseconds(),
			"client_ip":     c.ClientIP(),
			"user_agent":    c.Request.UserAgent(),
			"response_size": c.Writer.Size(),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("HTTP request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("HTTP request rejected")
		default:
			entry.Info("HTTP request")
		}
	}
}

// Recovery turns handler panics into 500 responses
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"panic":      recovered,
		}).Error("Recovered from handler panic")
		AbortWithError(c, http.StatusInternalServerError, domain.ErrInternalServer, "Internal server error", "")
	})
}

// RateLimit rejects requests with 429 once the token bucket is empty. A nil
// limiter disables limiting; onReject, if set, runs for every rejection.
func RateLimit(limiter *rate.Limiter, onReject func()) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow() {
			if onReject != nil {
				onReject()
			}
			c.Header("Retry-After", "1")
			AbortWithError(c, http.StatusTooManyRequests, domain.ErrRateLimit, "Rate limit exceeded", "")
			return
		}
		c.Next()
	}
}

// BodyLimit caps request body size; reads past the limit fail with
// *http.MaxBytesError
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// AbortWithError writes a structured API error and stops the handler chain.
func AbortWithError(c *gin.Context, status int, code, message, details string) {
	c.AbortWithStatusJSON(status, domain.NewAPIError(code, message, details, c.GetString(RequestIDKey)))
}
