// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	domainerror "github.com/fleet-console/backend/internal/domain/error"
	"github.com/fleet-console/backend/internal/integration/entrypoint/dto"
)

const (
	// defaultMaxRequests is the default number of allowed requests per window.
	defaultMaxRequests = 120
	// defaultWindowDuration is the default time window for rate limiting.
	defaultWindowDuration = 1 * time.Minute

	rateLimitKeyPrefix = "fleet-console:ratelimit:"
)

// RateLimiter provides a fixed-window rate limiter backed by Redis, so every
// API replica shares the same counters.
type RateLimiter struct {
	client         redis.Cmdable
	maxRequests    int
	windowDuration time.Duration
	// skip disables limiting, used by the test environment.
	skip bool
}

// NewRateLimiter creates a new rate limiter with default settings.
func NewRateLimiter(client redis.Cmdable) *RateLimiter {
	return NewRateLimiterWithConfig(client, defaultMaxRequests, defaultWindowDuration)
}

// NewRateLimiterWithConfig creates a new rate limiter with custom settings.
func NewRateLimiterWithConfig(client redis.Cmdable, maxRequests int, windowDuration time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = defaultMaxRequests
	}
	if windowDuration <= 0 {
		windowDuration = defaultWindowDuration
	}

	return &RateLimiter{
		client:         client,
		maxRequests:    maxRequests,
		windowDuration: windowDuration,
		skip:           os.Getenv("ENV") == "test",
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
// Authenticated requests are limited per organization, others per client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.skip {
			c.Next()
			return
		}

		count, err := rl.hit(c, limitKey(c))
		if err != nil {
			// Fail open.
			slog.Warn("Rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		remaining := rl.maxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > rl.maxRequests {
			c.Header("Retry-After", strconv.Itoa(int(rl.windowDuration.Seconds())))
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// hit increments the counter for key and starts its window on the first request.
func (rl *RateLimiter) hit(c *gin.Context, key string) (int64, error) {
	ctx := c.Request.Context()

	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incrementing %s: %w", key, err)
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, key, rl.windowDuration).Err(); err != nil {
			return 0, fmt.Errorf("expiring %s: %w", key, err)
		}
	}
	return count, nil
}

func limitKey(c *gin.Context) string {
	if orgID, ok := GetOrganizationIDFromContext(c); ok {
		return rateLimitKeyPrefix + "org:" + orgID.String()
	}

	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = c.Request.RemoteAddr
	}
	return rateLimitKeyPrefix + "ip:" + clientIP
}
