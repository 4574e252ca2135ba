package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutrifit/backend/internal/api"
	"github.com/nutrifit/backend/internal/middleware"
	"github.com/nutrifit/backend/web"
)

// SetupRouter configures the application routes
func SetupRouter(
	svc *api.Services,
	sessions *middleware.SessionManager,
	limiter *middleware.RateLimiter,
	health *api.HealthHandler,
	allowedOrigins []string,
) (*gin.Engine, error) {
	router := gin.Default()

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(templates)

	// Assets are served without a session
	router.StaticFS("/static", http.FS(web.Static()))

	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(sessions.Sessions())

	api.RegisterRoutes(router, svc, sessions, limiter, health, web.SnakePage())

	return router, nil
}
