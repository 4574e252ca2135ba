package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nutrifit/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterInMemory(t *testing.T) {
	rl := NewGenerationRateLimiter(nil, 2)
	now := time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	allowed, remaining, reset, err := rl.IsAllowed(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), reset)

	allowed, _, _, _ = rl.IsAllowed(ctx, "u1")
	assert.True(t, allowed)
	allowed, remaining, _, _ = rl.IsAllowed(ctx, "u1")
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)

	// Other users have their own counters
	allowed, _, _, _ = rl.IsAllowed(ctx, "u2")
	assert.True(t, allowed)

	// A new window starts over
	now = now.Add(time.Hour)
	allowed, _, _, _ = rl.IsAllowed(ctx, "u1")
	assert.True(t, allowed)
}

func TestRateLimiterRedis(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := NewGenerationRateLimiter(client, 1)
	ctx := context.Background()

	allowed, _, _, err := rl.IsAllowed(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, _, err = rl.IsAllowed(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewGenerationRateLimiter(nil, 1)
	userID := uuid.New()

	router := gin.New()
	router.GET("/generate", func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}, rl.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/generate", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/generate", nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}
