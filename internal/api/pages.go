package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nutrifit/backend/internal/middleware"
	"github.com/nutrifit/backend/internal/models"
	"github.com/nutrifit/backend/internal/service"
)

// PageHandler serves the top level pages, favorites listings and logout
type PageHandler struct {
	users     service.IUserService
	favorites service.IFavoriteService
	sessions  *middleware.SessionManager
	snake     []byte
}

// NewPageHandler creates a new PageHandler. snake is the minigame page served at /snake.
func NewPageHandler(users service.IUserService, favorites service.IFavoriteService, sessions *middleware.SessionManager, snake []byte) *PageHandler {
	return &PageHandler{users: users, favorites: favorites, sessions: sessions, snake: snake}
}

// RegisterRoutes registers the public pages on router and the member pages on protected
func (h *PageHandler) RegisterRoutes(router, protected *gin.RouterGroup) {
	router.GET("/", h.Landing)
	router.POST("/logOut", h.Logout)
	router.GET("/authFail", h.AuthFail)
	router.GET("/badApiResponse", h.simple("pages/badApiResponse", http.StatusOK))
	router.GET("/alreadyExists", h.AlreadyExists)
	router.GET("/snake", h.Snake)

	protected.GET("/members", h.member("pages/members"))
	protected.GET("/userProfile", h.member("pages/userProfile"))
	protected.GET("/logs", h.simple("pages/logs", http.StatusOK))
	protected.GET("/exerciseLogs", h.simple("pages/exerciseLogs", http.StatusOK))
	protected.GET("/favorites", h.simple("pages/favorites", http.StatusOK))
	protected.GET("/favoriteMeals", h.FavoriteMeals)
	protected.GET("/favoriteWorkouts", h.FavoriteWorkouts)
	protected.GET("/waitingApi", h.WaitingAPI)
}

func (h *PageHandler) simple(name string, status int) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, status, name, nil)
	}
}

func (h *PageHandler) member(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, h.users)
		if !ok {
			return
		}
		render(c, http.StatusOK, name, gin.H{"user": user})
	}
}

// Landing sends members to /members and renders the landing page for everyone else
func (h *PageHandler) Landing(c *gin.Context) {
	if middleware.GetSession(c).Authenticated {
		redirect(c, "/members")
		return
	}
	render(c, http.StatusOK, "pages/landing", nil)
}

// Logout destroys the session
func (h *PageHandler) Logout(c *gin.Context) {
	if err := h.sessions.Destroy(c); err != nil {
		log.Printf("[Session] Failed to destroy session: %v", err)
	}
	redirect(c, "/")
}

// AuthFail tells an anonymous visitor to log in
func (h *PageHandler) AuthFail(c *gin.Context) {
	render(c, http.StatusOK, "pages/authFail", gin.H{"referer": c.Request.Referer()})
}

// AlreadyExists names the signup field that collided with an existing account
func (h *PageHandler) AlreadyExists(c *gin.Context) {
	render(c, http.StatusOK, "pages/alreadyExists", gin.H{"match": middleware.GetSession(c).Match})
}

// Snake serves the minigame
func (h *PageHandler) Snake(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.snake)
}

// FavoriteMeals lists the user's saved meals
func (h *PageHandler) FavoriteMeals(c *gin.Context) {
	meals, err := h.favorites.ListMeals(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "pages/favoriteMeals", gin.H{"meals": meals})
}

// FavoriteWorkouts lists the user's saved workouts
func (h *PageHandler) FavoriteWorkouts(c *gin.Context) {
	workouts, err := h.favorites.ListWorkouts(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "pages/favoriteWorkouts", gin.H{"workouts": workouts})
}

// WaitingAPI records the requested plan target and renders the page that
// forwards to the generator
func (h *PageHandler) WaitingAPI(c *gin.Context) {
	user, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	kind := c.Query("type")
	switch kind {
	case "meal":
		calories, ok := queryTarget(c, "calories", user.CalorieTarget, models.DefaultCalorieTarget)
		if !ok {
			return
		}
		if err := h.users.SetCalorieTarget(ctx, user.ID, calories); err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "pages/waitingApi", gin.H{
			"type":     kind,
			"next":     "/generatedMeals?calories=" + strconv.Itoa(calories),
			"calories": calories,
		})
	case "workout":
		duration, ok := queryTarget(c, "duration", user.DurationTarget, models.DefaultDurationTarget)
		if !ok {
			return
		}
		if err := h.users.SetDurationTarget(ctx, user.ID, duration); err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "pages/waitingApi", gin.H{
			"type":     kind,
			"next":     "/generatedWorkouts?duration=" + strconv.Itoa(duration),
			"duration": duration,
		})
	default:
		invalid(c, "unknown plan type %q", kind)
	}
}

// queryTarget reads a positive integer query value. Without one it keeps
// current, or def when current is unset.
func queryTarget(c *gin.Context, key string, current, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		if current > 0 {
			return current, true
		}
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		invalid(c, "%s must be a positive number", key)
		return 0, false
	}
	return n, true
}
