package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/geotag-backend-go/internal/logging"
)

// Logger middleware logs HTTP requests
func Logger(logger logging.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.Noop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.String("clientIP", c.ClientIP()),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= 500 {
			logger.Error(c.Request.Context(), "request", fields...)
			return
		}
		logger.Info(c.Request.Context(), "request", fields...)
	}
}
