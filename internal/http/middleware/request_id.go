package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/homefix/marketplace-client/internal/logger"
)

const (
	// RequestIDHeader заголовок корреляции запросов к мосту.
	RequestIDHeader = "X-Request-ID"

	ContextRequestIDKey = "requestID"
)

// RequestLogger присваивает запросу идентификатор и пишет строку лога по завершении.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		entry := logger.Log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		})
		if viewID := c.GetString(ContextViewIDKey); viewID != "" {
			entry = entry.WithField("view_id", viewID)
		}
		if c.Writer.Status() >= 500 {
			entry.Error("http: запрос")
			return
		}
		entry.Debug("http: запрос")
	}
}
