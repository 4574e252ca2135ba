package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter counts requests per user in fixed windows. Counters live in
// Redis when a client is given and in process memory otherwise.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time

	mu     sync.Mutex
	counts map[string]int
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
		counts: make(map[string]int),
	}
}

// NewGenerationRateLimiter limits plan generation to limit requests per user per hour
func NewGenerationRateLimiter(redisClient *redis.Client, limit int) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     limit,
		KeyPrefix: "rate_limit:generation",
	})
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting.
// It must run after RequireAuth.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		userIDStr := fmt.Sprintf("%v", userID)
		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), userIDStr)
		if err != nil {
			log.Printf("[RateLimit] Check failed for %s: %v", userIDStr, err)
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":                "rate limit exceeded",
				"message":              fmt.Sprintf("You have exceeded the limit of %d generated plans per %v", rl.config.Limit, rl.config.Window),
				"rate_limit_remaining": remaining,
				"rate_limit_reset":     resetTime.Unix(),
				"retry_after":          int(time.Until(resetTime).Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// IsAllowed checks if a request from the given user is allowed
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, userID string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	key := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, userID, windowStart.Unix())

	count, err := rl.increment(ctx, key, windowStart)
	if err != nil {
		return false, 0, time.Time{}, err
	}

	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	resetTime := windowStart.Add(rl.config.Window)
	allowed := count <= rl.config.Limit

	return allowed, remaining, resetTime, nil
}

func (rl *RateLimiter) increment(ctx context.Context, key string, windowStart time.Time) (int, error) {
	if rl.redis != nil {
		// Use Redis pipeline for atomic operations
		pipe := rl.redis.Pipeline()
		incrCmd := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rl.config.Window)
		if _, err := pipe.Exec(ctx); err != nil {
			return 0, err
		}
		return int(incrCmd.Val()), nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	suffix := ":" + strconv.FormatInt(windowStart.Unix(), 10)
	for k := range rl.counts {
		if len(k) < len(suffix) || k[len(k)-len(suffix):] != suffix {
			delete(rl.counts, k)
		}
	}
	rl.counts[key]++
	return rl.counts[key], nil
}
