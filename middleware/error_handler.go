package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"justissimo-api/utils"
)

// ErrorHandler reports errors attached by handlers to Sentry and the log.
func ErrorHandler(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, ginErr := range c.Errors {
			fields := map[string]interface{}{
				"endpoint": c.FullPath(),
				"method":   c.Request.Method,
				"status":   c.Writer.Status(),
			}
			log.WithError(ginErr.Err).WithFields(fields).Error("Request failed")
			utils.CaptureError(c.Request.Context(), ginErr.Err, fields)
		}
	}
}
