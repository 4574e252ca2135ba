package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nutrifit/backend/internal/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports the state of the database and Redis
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler creates a new HealthHandler. redis may be nil.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// HealthCheck returns the health status of the service
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	store := "ok"
	if err := database.HealthCheck(ctx, h.db); err != nil {
		store = err.Error()
		status = http.StatusServiceUnavailable
	}

	cache := "disabled"
	if h.redis != nil {
		cache = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			cache = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":   overall,
		"database": store,
		"redis":    cache,
	})
}
