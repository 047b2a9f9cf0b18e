package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/timmy/siscrap/internal/logger"
)

// RequestIDHeader carries the request id back to the UI.
const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware returns a Gin middleware that injects a request-scoped logger.
// An incoming X-Request-ID is reused.
// Parameters:
//   - component: value of the component field on every line.
//
// Returns:
//   - gin.HandlerFunc: middleware handler.
func LoggerMiddleware(component string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := logger.WithFields(c.Request.Context(), logger.Fields{
			logger.FieldRequestID: requestID,
			logger.FieldComponent: component,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set("logger", logger.FromContext(ctx))
		c.Header(RequestIDHeader, requestID)

		logger.CtxDebug(ctx, "Request started: method=%s, path=%s, client_ip=%s",
			c.Request.Method, path, c.ClientIP())

		c.Next()

		fullPath := path
		if query != "" {
			fullPath = path + "?" + query
		}
		// c.Request may carry more fields now (user_id, arquivo_id).
		logger.With(logger.Fields{
			logger.FieldStatus:     c.Writer.Status(),
			logger.FieldDurationMs: time.Since(start).Milliseconds(),
			logger.FieldSize:       c.Writer.Size(),
		}).Info(c.Request.Context(), "Request completed: method=%s, path=%s", c.Request.Method, fullPath)
	}
}

// GetLogger extracts logger from Gin context or request context.
func GetLogger(c *gin.Context) *logger.Logger {
	if l, exists := c.Get("logger"); exists {
		if log, ok := l.(*logger.Logger); ok {
			return log
		}
	}
	return logger.FromContext(c.Request.Context())
}
