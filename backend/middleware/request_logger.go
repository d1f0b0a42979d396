package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ozcotech/denklem/backend/pkg/logger"
)

// RequestLogger writes one access log line per request, at a level chosen
// by the response status
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if route := c.FullPath(); route != "" && route != path {
			attrs = append(attrs, "route", route)
		}
		if query != "" {
			attrs = append(attrs, "query", query)
		}

		// c.Request carries the ids set by RequestID and AuthMiddleware
		l := logger.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			l.Error("request completed", attrs...)
		case status >= 400:
			l.Warn("request completed", attrs...)
		default:
			l.Info("request completed", attrs...)
		}
	}
}
