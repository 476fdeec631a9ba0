package devapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxRequestID = "request_id"
	ctxUserID    = "user_id"

	headerRequestID = "X-Request-ID"
)

// RequestIDMiddleware keeps the caller's X-Request-ID, or generates one, and
// echoes it on the response
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		c.Set(ctxRequestID, requestID)
		c.Writer.Header().Set(headerRequestID, requestID)

		c.Next()
	}
}

// LoggingMiddleware logs every request with structured attributes
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rw := newResponseWriter(c.Writer)
		c.Writer = rw

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", c.GetString(ctxRequestID),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", float64(time.Since(start).Milliseconds()),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"response_size", rw.Size(),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			attrs = append(attrs, "query", query)
		}
		if userID, exists := c.Get(ctxUserID); exists {
			attrs = append(attrs, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			logger.Error("Request failed - server error", attrs...)
		case status >= 400:
			logger.Warn("Request failed - client error", attrs...)
		default:
			logger.Info("Request completed", attrs...)
		}
	}
}

// AuthMiddleware requires a valid bearer token and stores the user id in the context
func AuthMiddleware(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
			return
		}

		userID, err := svc.Authenticate(token)
		if err != nil {
			slog.Warn("Invalid access token",
				"error", err.Error(),
				"request_id", c.GetString(ctxRequestID),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
			return
		}

		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// OptionalAuthMiddleware stores the user id when a valid token is present
func OptionalAuthMiddleware(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if userID, err := svc.Authenticate(token); err == nil {
				c.Set(ctxUserID, userID)
			}
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id, or 0 for anonymous requests
func GetUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	scheme, token, found := strings.Cut(c.GetHeader("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
