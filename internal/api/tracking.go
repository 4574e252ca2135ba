package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nutrifit/backend/internal/middleware"
	"github.com/nutrifit/backend/internal/models"
	"github.com/nutrifit/backend/internal/service"
)

// TrackingHandler serves logged meals and workouts under /mealTracking and /workoutTracking
type TrackingHandler struct {
	tracking  service.ITrackingService
	favorites service.IFavoriteService
}

// NewTrackingHandler creates a new TrackingHandler
func NewTrackingHandler(tracking service.ITrackingService, favorites service.IFavoriteService) *TrackingHandler {
	return &TrackingHandler{tracking: tracking, favorites: favorites}
}

// RegisterRoutes registers the tracking routes
func (h *TrackingHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/mealTracking")
	{
		meals.GET("/mealLogs", h.MealLogs)
		meals.POST("/mealLogs", h.LogMeal)
		meals.GET("/filterMeals", h.FilterMeals)
		meals.POST("/deleteFromLogMeals", h.DeleteMeal)
	}

	workouts := router.Group("/workoutTracking")
	{
		workouts.GET("/workoutLogs", h.WorkoutLogs)
		workouts.POST("/workoutLogs", h.LogWorkout)
		workouts.GET("/filterWorkouts", h.FilterWorkouts)
		workouts.POST("/deleteFromLogWorkouts", h.DeleteWorkout)
	}
}

// takeFilter consumes a stored filter. An empty filter means no window.
func takeFilter(filter *string) (time.Duration, string) {
	name := *filter
	*filter = ""
	if name == "" {
		return 0, ""
	}
	window, err := service.ParseFilter(name)
	if err != nil {
		return 0, ""
	}
	return window, name
}

// MealLogs renders the unexpired meal logs
func (h *TrackingHandler) MealLogs(c *gin.Context) {
	window, filter := takeFilter(&middleware.GetSession(c).MealFilter)

	meals, err := h.tracking.ListMeals(c.Request.Context(), middleware.GetUserID(c), window)
	if err != nil {
		fail(c, err)
		return
	}
	total := 0
	for _, m := range meals {
		total += m.TotalCalories
	}
	render(c, http.StatusOK, "tracking/mealLogs", gin.H{
		"meals":         meals,
		"totalCalories": total,
		"filter":        filter,
	})
}

// FilterMeals sets the window applied by the next meal listing
func (h *TrackingHandler) FilterMeals(c *gin.Context) {
	filterType := c.Query("filterType")
	if _, err := service.ParseFilter(filterType); err != nil {
		fail(c, err)
		return
	}
	middleware.GetSession(c).MealFilter = filterType
	redirect(c, "/mealTracking/mealLogs")
}

// LogMeal logs a favorite, a posted meal, or the pending generated meal
func (h *TrackingHandler) LogMeal(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	sess := middleware.GetSession(c)

	var items models.MealItems
	if c.PostForm("favoriteMealId") != "" {
		id, ok := parseID(c, "favoriteMealId")
		if !ok {
			return
		}
		fav, err := h.favorites.GetMeal(ctx, userID, id)
		if err != nil {
			fail(c, err)
			return
		}
		items = fav.Items
	} else {
		posted, ok := mealFromForm(c)
		if !ok {
			return
		}
		items = posted
		if items == nil {
			items = sess.PendingMeal
		}
	}

	if _, err := h.tracking.LogMeal(ctx, userID, items); err != nil {
		fail(c, err)
		return
	}
	sess.PendingMeal = nil
	redirect(c, "/mealTracking/mealLogs")
}

// DeleteMeal removes one of the user's meal logs
func (h *TrackingHandler) DeleteMeal(c *gin.Context) {
	id, ok := parseID(c, "deleteLogMealId")
	if !ok {
		return
	}
	if err := h.tracking.DeleteMeal(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/mealTracking/mealLogs")
}

// WorkoutLogs renders the unexpired workout logs with the body parts worked
func (h *TrackingHandler) WorkoutLogs(c *gin.Context) {
	window, filter := takeFilter(&middleware.GetSession(c).WorkoutFilter)

	workouts, err := h.tracking.ListWorkouts(c.Request.Context(), middleware.GetUserID(c), window)
	if err != nil {
		fail(c, err)
		return
	}
	total := 0
	var all models.WorkoutExercises
	for _, w := range workouts {
		total += w.TotalDuration
		all = append(all, w.Exercises...)
	}
	render(c, http.StatusOK, "tracking/workoutLogs", gin.H{
		"workouts":      workouts,
		"totalDuration": total,
		"bodyParts":     all.BodyParts(),
		"filter":        filter,
	})
}

// FilterWorkouts sets the window applied by the next workout listing
func (h *TrackingHandler) FilterWorkouts(c *gin.Context) {
	filterType := c.Query("filterType")
	if _, err := service.ParseFilter(filterType); err != nil {
		fail(c, err)
		return
	}
	middleware.GetSession(c).WorkoutFilter = filterType
	redirect(c, "/workoutTracking/workoutLogs")
}

// LogWorkout logs a favorite, a posted workout, or the pending generated workout
func (h *TrackingHandler) LogWorkout(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)
	sess := middleware.GetSession(c)

	var exercises models.WorkoutExercises
	if c.PostForm("favoriteWorkoutId") != "" {
		id, ok := parseID(c, "favoriteWorkoutId")
		if !ok {
			return
		}
		fav, err := h.favorites.GetWorkout(ctx, userID, id)
		if err != nil {
			fail(c, err)
			return
		}
		exercises = fav.Exercises
	} else {
		posted, ok := workoutFromForm(c)
		if !ok {
			return
		}
		exercises = posted
		if exercises == nil {
			exercises = sess.PendingWorkout
		}
	}

	if _, err := h.tracking.LogWorkout(ctx, userID, exercises); err != nil {
		fail(c, err)
		return
	}
	sess.PendingWorkout = nil
	redirect(c, "/workoutTracking/workoutLogs")
}

// DeleteWorkout removes one of the user's workout logs
func (h *TrackingHandler) DeleteWorkout(c *gin.Context) {
	id, ok := parseID(c, "deleteLogWorkoutId")
	if !ok {
		return
	}
	if err := h.tracking.DeleteWorkout(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/workoutTracking/workoutLogs")
}
