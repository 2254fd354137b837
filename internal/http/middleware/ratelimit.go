package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter applies a fixed-window per-client limit backed by Redis.
// Auth endpoints sit behind it to blunt credential stuffing.
type RateLimiter struct {
	client    *redis.Client
	perMinute int
	logger    *zap.Logger
}

// NewRateLimiter creates a Redis-backed rate limiter
func NewRateLimiter(client *redis.Client, perMinute int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{client: client, perMinute: perMinute, logger: logger}
}

// Limit rejects requests over the window budget with 429. Redis being
// unreachable fails open: availability beats throttling here.
func (r *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.client == nil || r.perMinute <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rl:%s:%s", c.ClientIP(), time.Now().Format("200601021504"))
		count, err := r.client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			r.logger.Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			r.client.Expire(c.Request.Context(), key, time.Minute)
		}

		if count > int64(r.perMinute) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
