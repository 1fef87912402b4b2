package middleware

import (
	"context"
	"time"

	"pharmafind/internal/caching"
	"pharmafind/internal/common"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RateLimit caps requests per client address and route within a fixed window.
// When the limiter itself fails the request is let through.
func RateLimit(cache caching.CacheService, limit int, window time.Duration, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cache == nil || limit <= 0 {
				return next(c)
			}

			key := c.RealIP() + ":" + c.Path()
			ctx, cancel := context.WithTimeout(c.Request().Context(), 100*time.Millisecond)
			limited, err := cache.IsRateLimited(ctx, key, limit, window)
			cancel()
			if err != nil {
				logger.Warn("Rate limiter unavailable", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			if limited {
				return common.SendRateLimitedError(c)
			}
			return next(c)
		}
	}
}
