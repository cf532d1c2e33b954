package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/escrowdesk/internal/metrics"
)

// RequestLogger logs information about incoming requests using slog.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
		}
		if account, ok := c.Get(AccountContextKey); ok {
			attrs = append(attrs, slog.Any("account", account))
		}
		if status >= 500 {
			logger.Error("http request", attrs...)
			return
		}
		logger.Info("http request", attrs...)
	}
}

// RequestMetrics records request counts and latency by route.
func RequestMetrics(registry *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		registry.ObserveHTTP(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
