package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"salon-scheduler/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware applies a fixed-window counter per user (per IP for
// anonymous requests). Redis failures let the request through; losing the
// limiter must not take booking submission down with it.
type RateLimitMiddleware struct {
	client *redis.Client
	cfg    config.RedisConfig
}

func NewRateLimitMiddleware(client *redis.Client, cfg config.RedisConfig) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		client: client,
		cfg:    cfg,
	}
}

func (m *RateLimitMiddleware) SubmitLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.client == nil || m.cfg.SubmitLimit <= 0 {
			c.Next()
			return
		}

		key := m.submitKey(c)
		ctx := c.Request.Context()

		count, err := m.client.Incr(ctx, key).Result()
		if err != nil {
			slog.Warn("rate limiter unavailable", "key", key, "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := m.client.Expire(ctx, key, m.cfg.SubmitWindow).Err(); err != nil {
				slog.Warn("failed to set rate limit window", "key", key, "error", err)
			}
		}

		remaining := int64(m.cfg.SubmitLimit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(m.cfg.SubmitLimit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(m.cfg.SubmitLimit) {
			retryAfter := int(m.cfg.SubmitWindow / time.Second)
			if ttl, err := m.client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				retryAfter = int(ttl / time.Second)
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many booking submissions, try again later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m *RateLimitMiddleware) submitKey(c *gin.Context) string {
	if userID, ok := GetUserID(c); ok {
		return fmt.Sprintf("rl:submit:user:%s", userID)
	}
	return fmt.Sprintf("rl:submit:ip:%s", c.ClientIP())
}
