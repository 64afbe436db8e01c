package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	applogger "github.com/joy095/travelapp/logger"
)

// GinLogger logs every request with method, path, status and latency.
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		entry := applogger.InfoLogger.WithFields(map[string]interface{}{
			"status":  status,
			"method":  c.Request.Method,
			"path":    path,
			"ip":      c.ClientIP(),
			"latency": latency.String(),
		})

		switch {
		case status >= 500:
			applogger.ErrorLogger.Errorf("%s %s -> %d (%v)", c.Request.Method, path, status, latency)
		case status >= 400:
			applogger.WarnLogger.Warnf("%s %s -> %d (%v)", c.Request.Method, path, status, latency)
		default:
			entry.Info("request completed")
		}
	}
}
