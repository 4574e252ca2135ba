package api

import (
	"github.com/gin-gonic/gin"
	"github.com/nutrifit/backend/internal/middleware"
	"github.com/nutrifit/backend/internal/service"
)

// Services bundles what the handlers depend on
type Services struct {
	Users       service.IUserService
	Catalog     service.ICatalogService
	Preferences service.IPreferenceService
	Plans       service.IPlanService
	Tracking    service.ITrackingService
	Favorites   service.IFavoriteService
}

// RegisterRoutes registers all routes on router. The session middleware must
// already be installed. limiter may be nil to disable generation limits.
func RegisterRoutes(router *gin.Engine, svc *Services, sessions *middleware.SessionManager, limiter *middleware.RateLimiter, health *HealthHandler, snake []byte) {
	router.GET("/health", health.HealthCheck)

	limit := func(c *gin.Context) { c.Next() }
	if limiter != nil {
		limit = limiter.RateLimitMiddleware()
	}

	public := router.Group("")
	protected := router.Group("")
	protected.Use(middleware.RequireAuth())

	NewUserHandler(svc.Users).RegisterRoutes(public)
	NewPageHandler(svc.Users, svc.Favorites, sessions, snake).RegisterRoutes(public, protected)
	NewMealHandler(svc).RegisterRoutes(protected, limit)
	NewWorkoutHandler(svc).RegisterRoutes(protected, limit)
	NewTrackingHandler(svc.Tracking, svc.Favorites).RegisterRoutes(protected)

	router.NoRoute(func(c *gin.Context) {
		render(c, 404, "pages/notFound", nil)
	})
}
