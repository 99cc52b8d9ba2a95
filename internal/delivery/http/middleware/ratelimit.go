package middleware

import (
	"context"
	"strconv"

	"github.com/gdugdh24/heartmatch-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Limiter is satisfied by *ratelimit.Limiter.
type Limiter interface {
	Allow(ctx context.Context, identifier string, rule ratelimit.Rule) (bool, error)
}

// RateLimit throttles authenticated users by rule. It must run after
// RequireAuth. Limiter errors let the request through.
func RateLimit(limiter Limiter, rule ratelimit.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(handler.ContextUserIDKey)
		userID, ok := v.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		allowed, _ := limiter.Allow(c.Request.Context(), userID.String(), rule)
		if !allowed {
			metrics.RateLimited.WithLabelValues(rule.Name).Inc()
			c.Header("Retry-After", strconv.Itoa(int(rule.Window.Seconds())))
			handler.WriteError(c, domain.ErrRateLimited)
			return
		}
		c.Next()
	}
}
