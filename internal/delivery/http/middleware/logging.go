package middleware

import (
	"strconv"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestLogger logs each request and records its latency histogram.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(latency.Seconds())

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}
		event = event.
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP())
		if v, ok := c.Get(handler.ContextUserIDKey); ok {
			if id, ok := v.(uuid.UUID); ok {
				event = event.Str("user_id", id.String())
			}
		}
		if err := c.Errors.Last(); err != nil {
			event = event.Err(err.Err)
		}
		event.Msg("request")
	}
}
