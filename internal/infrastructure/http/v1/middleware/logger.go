package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"bookstock/pkg/logger"
)

// Logger logs one line per request after the handler chain finishes.
// Server errors log at error level so they stand out in aggregated logs;
// everything else, including 4xx, is routine traffic.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"size", c.Writer.Size(),
			"client_ip", c.ClientIP(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, "errors", errs.String())
		}

		entry := log.WithContext(c.Request.Context())
		if status >= 500 {
			entry.Errorw("http request", fields...)
		} else {
			entry.Infow("http request", fields...)
		}
	}
}
