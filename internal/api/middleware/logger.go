package middleware

import (
	"time"

	"mortality-valuation/internal/metrics"
	"mortality-valuation/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per request after it is served.
func Logger(log logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Any("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= 500 {
			log.Error(c.Request.Context(), "request", fields...)
			return
		}
		log.Info(c.Request.Context(), "request", fields...)
	}
}

// Metrics records request counts and latency by matched route.
func Metrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
