package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rings-s/anha/internal/caching"
	"github.com/rings-s/anha/internal/metrics"
)

// RateLimitMiddleware applies a fixed-window counter per route and
// client IP, backed by redis.
type RateLimitMiddleware struct {
	cache   caching.CacheService
	metrics *metrics.Metrics
	limit   int
	window  time.Duration
}

func NewRateLimitMiddleware(cache caching.CacheService, appMetrics *metrics.Metrics, limit int, window time.Duration) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		cache:   cache,
		metrics: appMetrics,
		limit:   limit,
		window:  window,
	}
}

// Limit returns middleware limiting requests to the named route. Redis
// outages fail open; a throttling layer should not take logins down
// with it.
func (m *RateLimitMiddleware) Limit(route string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf("ratelimit:%s:%s", route, c.RealIP())

			limited, err := m.cache.IsRateLimited(ctx, key, m.limit)
			if err != nil {
				slog.Warn("rate limit check failed", "route", route, "error", err)
				return next(c)
			}
			if limited {
				m.metrics.RateLimited.WithLabelValues(route).Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}

			if err := m.cache.IncrementRateLimit(ctx, key, m.window); err != nil {
				slog.Warn("rate limit increment failed", "route", route, "error", err)
			}
			return next(c)
		}
	}
}
