package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nutrifit/backend/internal/middleware"
	"github.com/nutrifit/backend/internal/models"
	"github.com/nutrifit/backend/internal/service"
)

// WorkoutHandler serves workout generation and the workout filters under /generatedWorkouts
type WorkoutHandler struct {
	users       service.IUserService
	catalog     service.ICatalogService
	preferences service.IPreferenceService
	plans       service.IPlanService
	tracking    service.ITrackingService
	favorites   service.IFavoriteService
}

// NewWorkoutHandler creates a new WorkoutHandler
func NewWorkoutHandler(svc *Services) *WorkoutHandler {
	return &WorkoutHandler{
		users:       svc.Users,
		catalog:     svc.Catalog,
		preferences: svc.Preferences,
		plans:       svc.Plans,
		tracking:    svc.Tracking,
		favorites:   svc.Favorites,
	}
}

// RegisterRoutes registers the workout routes. limit guards generation.
func (h *WorkoutHandler) RegisterRoutes(router *gin.RouterGroup, limit gin.HandlerFunc) {
	workouts := router.Group("/generatedWorkouts")
	{
		workouts.GET("", limit, h.Generate)
		workouts.GET("/workoutFilters", h.Filters)
		workouts.GET("/exerciseCatalog", h.Catalog)
		workouts.GET("/quickAddWorkout", h.QuickAddPage)
		workouts.POST("/quickAddWorkout", h.QuickAdd)
		workouts.GET("/searchExercise", h.Search)
		workouts.POST("/selectExercise", h.SelectExercise)
		workouts.POST("/modifyExerciseTag", h.ModifyTag)
		workouts.POST("/deleteExercise", h.DeleteExercise)
		workouts.POST("/favoriteWorkouts", h.SaveFavorite)
		workouts.POST("/deleteFromFavoriteWorkouts", h.DeleteFavorite)
	}
}

// Generate asks the completion API for a workout and keeps it as the pending workout
func (h *WorkoutHandler) Generate(c *gin.Context) {
	duration := 0
	if raw := c.Query("duration"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			invalid(c, "duration must be a positive number")
			return
		}
		duration = n
	}

	user, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if duration == 0 {
		duration = user.Minutes()
	}

	exercises, err := h.plans.GenerateWorkout(c.Request.Context(), user, duration)
	if service.IsGenerationError(err) {
		log.Printf("[WorkoutPlan] Generation failed for user %s: %v", user.ID, err)
		redirect(c, "/badApiResponse")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	middleware.GetSession(c).PendingWorkout = exercises
	render(c, http.StatusOK, "workouts/generated", gin.H{
		"exercises":     exercises,
		"totalDuration": exercises.TotalDuration(),
		"duration":      duration,
		"includeTags":   user.ExerciseTagInclude,
	})
}

// Filters renders the body part and exercise filters applied to generated workouts
func (h *WorkoutHandler) Filters(c *gin.Context) {
	user, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	render(c, http.StatusOK, "workouts/filters", gin.H{
		"user":             user,
		"categories":       models.ExerciseCategories,
		"includeExercises": user.Exercises(models.Include),
		"excludeExercises": user.Exercises(models.Exclude),
		"includeTags":      user.ExerciseTagInclude,
		"excludeTags":      user.ExerciseTagExclude,
	})
}

// Catalog renders the exercise search page for one filter list
func (h *WorkoutHandler) Catalog(c *gin.Context) {
	mode, err := preferenceMode(c)
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "workouts/catalog", gin.H{"type": mode})
}

// QuickAddPage renders the quick-add search page
func (h *WorkoutHandler) QuickAddPage(c *gin.Context) {
	render(c, http.StatusOK, "workouts/quickAdd", nil)
}

// QuickAdd logs a workout of a single catalog exercise
func (h *WorkoutHandler) QuickAdd(c *gin.Context) {
	exerciseID, ok := parseID(c, "item")
	if !ok {
		return
	}
	minutes := 0
	if raw := c.PostForm("duration"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			invalid(c, "duration must be a positive number")
			return
		}
		minutes = n
	}
	if _, err := h.tracking.QuickAddWorkout(c.Request.Context(), middleware.GetUserID(c), exerciseID, minutes); err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/workoutTracking/workoutLogs")
}

// ExerciseResult is one row of /searchExercise
type ExerciseResult struct {
	Name     string `json:"name"`
	BodyPart string `json:"bodyPart"`
	ID       string `json:"id"`
}

// Search returns catalog exercises whose name contains q
func (h *WorkoutHandler) Search(c *gin.Context) {
	exercises, err := h.catalog.SearchExercises(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	results := make([]ExerciseResult, 0, len(exercises))
	for _, e := range exercises {
		results = append(results, ExerciseResult{Name: e.Name, BodyPart: e.BodyPart, ID: e.ID.String()})
	}
	c.JSON(http.StatusOK, results)
}

// SelectExercise adds a catalog exercise to the include or exclude list
func (h *WorkoutHandler) SelectExercise(c *gin.Context) {
	mode, err := preferenceMode(c)
	if err != nil {
		fail(c, err)
		return
	}
	exerciseID, ok := parseID(c, "item")
	if !ok {
		return
	}
	if err := h.preferences.AddExercise(c.Request.Context(), middleware.GetUserID(c), mode, exerciseID); err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/generatedWorkouts/workoutFilters")
}

// ModifyTag toggles a body part in the include or exclude tags
func (h *WorkoutHandler) ModifyTag(c *gin.Context) {
	mode, err := preferenceMode(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.preferences.ToggleExerciseTag(c.Request.Context(), middleware.GetUserID(c), mode, c.PostForm("exerciseTag")); err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/generatedWorkouts/workoutFilters")
}

// DeleteExercise removes an exercise, by name, from the include or exclude list
func (h *WorkoutHandler) DeleteExercise(c *gin.Context) {
	mode, err := preferenceMode(c)
	if err != nil {
		fail(c, err)
		return
	}
	name := c.PostForm("item")
	if name == "" {
		invalid(c, "item is required")
		return
	}
	if err := h.preferences.RemoveExercise(c.Request.Context(), middleware.GetUserID(c), mode, name); err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/generatedWorkouts/workoutFilters")
}

// SaveFavorite stores the pending workout as a favorite
func (h *WorkoutHandler) SaveFavorite(c *gin.Context) {
	sess := middleware.GetSession(c)
	if len(sess.PendingWorkout) == 0 {
		redirect(c, "/generatedWorkouts")
		return
	}
	if _, err := h.favorites.SaveWorkout(c.Request.Context(), middleware.GetUserID(c), sess.PendingWorkout); err != nil {
		fail(c, err)
		return
	}
	sess.PendingWorkout = nil
	redirect(c, "/favoriteWorkouts")
}

// DeleteFavorite removes one of the user's favorite workouts
func (h *WorkoutHandler) DeleteFavorite(c *gin.Context) {
	id, ok := parseID(c, "WORKOUT")
	if !ok {
		return
	}
	if err := h.favorites.DeleteWorkout(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/favoriteWorkouts")
}

// workoutFromForm decodes the "workout" field, a JSON array of exercises
func workoutFromForm(c *gin.Context) (models.WorkoutExercises, bool) {
	raw := c.PostForm("workout")
	if raw == "" {
		return nil, true
	}
	var exercises models.WorkoutExercises
	if err := json.Unmarshal([]byte(raw), &exercises); err != nil {
		invalid(c, "workout must be a JSON array of exercises")
		return nil, false
	}
	return exercises, true
}
