package api

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutrifit/backend/internal/models"
	"github.com/nutrifit/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mealLogsBody struct {
	Meals         []models.Meal `json:"meals"`
	TotalCalories int           `json:"totalCalories"`
	Filter        string        `json:"filter"`
}

func TestLogPostedMeal(t *testing.T) {
	app := newTestApp(t)
	user := app.login()
	require.NoError(t, app.db.Model(&models.User{}).Where("id = ?", user.ID).Update("calorie_target", 1200).Error)

	w := app.post("/mealTracking/mealLogs", url.Values{
		"meal": {`[{"Food":"Toast","Calories":120,"Grams":40},{"Food":"Jam","Calories":50,"Grams":20}]`},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/mealTracking/mealLogs", w.Header().Get("Location"))

	var body mealLogsBody
	decode(t, app.get("/mealTracking/mealLogs"), &body)
	require.Len(t, body.Meals, 1)
	assert.Equal(t, "Toast", body.Meals[0].Name)
	assert.Equal(t, 170, body.TotalCalories)

	var reloaded models.User
	require.NoError(t, app.db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, models.DefaultCalorieTarget, reloaded.CalorieTarget)

	app.publisher.AssertCalled(t, "Publish", mock.Anything, mock.AnythingOfType("*service.MealLoggedEvent"))

	w = app.post("/mealTracking/deleteFromLogMeals", url.Values{"deleteLogMealId": {body.Meals[0].ID.String()}})
	assert.Equal(t, "/mealTracking/mealLogs", w.Header().Get("Location"))
	decode(t, app.get("/mealTracking/mealLogs"), &body)
	assert.Empty(t, body.Meals)
}

func TestLogMealRejectsEmpty(t *testing.T) {
	app := newTestApp(t)
	app.login()

	// Nothing posted and nothing pending
	assert.Equal(t, http.StatusBadRequest, app.post("/mealTracking/mealLogs", nil).Code)
	assert.Equal(t, http.StatusBadRequest, app.post("/mealTracking/mealLogs", url.Values{"meal": {"[]"}}).Code)
	assert.Equal(t, http.StatusBadRequest, app.post("/mealTracking/mealLogs", url.Values{"meal": {"{oops"}}).Code)
}

func TestLogPendingAndFavoriteMeal(t *testing.T) {
	app := newTestApp(t)
	user := app.login()

	app.completer.On("Complete", mock.Anything, mock.Anything).Return(mealReply, nil)
	require.Equal(t, http.StatusOK, app.get("/generatedMeals").Code)

	w := app.post("/mealTracking/mealLogs", nil)
	assert.Equal(t, "/mealTracking/mealLogs", w.Header().Get("Location"))

	// The pending meal is consumed by logging it
	assert.Equal(t, http.StatusBadRequest, app.post("/mealTracking/mealLogs", nil).Code)

	fav, err := service.NewFavoriteService(app.db).SaveMeal(context.Background(), user.ID, models.MealItems{{Food: "Rice", Calories: 200, Grams: 150}})
	require.NoError(t, err)
	w = app.post("/mealTracking/mealLogs", url.Values{"favoriteMealId": {fav.ID.String()}})
	assert.Equal(t, "/mealTracking/mealLogs", w.Header().Get("Location"))

	w = app.post("/mealTracking/mealLogs", url.Values{"favoriteMealId": {uuid.NewString()}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body mealLogsBody
	decode(t, app.get("/mealTracking/mealLogs"), &body)
	require.Len(t, body.Meals, 2)
	assert.Equal(t, 605, body.TotalCalories)
}

func TestFilterMeals(t *testing.T) {
	app := newTestApp(t)
	user := app.login()

	now := time.Now()
	old := &models.Meal{UserID: user.ID, Name: "Old", Items: models.MealItems{{Food: "Old", Calories: 100}},
		CreatedAt: now.Add(-3 * 24 * time.Hour), ExpiresAt: now.Add(24 * time.Hour)}
	recent := &models.Meal{UserID: user.ID, Name: "Recent", Items: models.MealItems{{Food: "Recent", Calories: 50}},
		CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(24 * time.Hour)}
	require.NoError(t, app.db.Create(old).Error)
	require.NoError(t, app.db.Create(recent).Error)

	w := app.get("/mealTracking/filterMeals?filterType=day")
	assert.Equal(t, "/mealTracking/mealLogs", w.Header().Get("Location"))

	var body mealLogsBody
	decode(t, app.get("/mealTracking/mealLogs"), &body)
	require.Len(t, body.Meals, 1)
	assert.Equal(t, "day", body.Filter)

	// The filter applies to a single listing
	decode(t, app.get("/mealTracking/mealLogs"), &body)
	assert.Len(t, body.Meals, 2)
	assert.Empty(t, body.Filter)

	assert.Equal(t, http.StatusBadRequest, app.get("/mealTracking/filterMeals?filterType=year").Code)
}

func TestLogWorkout(t *testing.T) {
	app := newTestApp(t)
	app.login()

	w := app.post("/workoutTracking/workoutLogs", url.Values{
		"workout": {`[{"name":"Run","duration":20,"bodyPart":"cardio"},{"name":"Plank","duration":5,"bodyPart":"waist"},{"name":"Sprint","duration":5,"bodyPart":"cardio"}]`},
	})
	assert.Equal(t, "/workoutTracking/workoutLogs", w.Header().Get("Location"))

	var body struct {
		Workouts      []models.Workout `json:"workouts"`
		TotalDuration int              `json:"totalDuration"`
		BodyParts     []string         `json:"bodyParts"`
	}
	decode(t, app.get("/workoutTracking/workoutLogs"), &body)
	require.Len(t, body.Workouts, 1)
	assert.Equal(t, "Run Workout", body.Workouts[0].Name)
	assert.Equal(t, 30, body.TotalDuration)
	assert.Equal(t, []string{"cardio", "waist"}, body.BodyParts)
	app.publisher.AssertCalled(t, "Publish", mock.Anything, mock.AnythingOfType("*service.WorkoutLoggedEvent"))

	w = app.get("/workoutTracking/filterWorkouts?filterType=week")
	assert.Equal(t, "/workoutTracking/workoutLogs", w.Header().Get("Location"))
	decode(t, app.get("/workoutTracking/workoutLogs"), &body)
	assert.Len(t, body.Workouts, 1)

	w = app.post("/workoutTracking/deleteFromLogWorkouts", url.Values{"deleteLogWorkoutId": {body.Workouts[0].ID.String()}})
	assert.Equal(t, "/workoutTracking/workoutLogs", w.Header().Get("Location"))
	w = app.post("/workoutTracking/deleteFromLogWorkouts", url.Values{"deleteLogWorkoutId": {body.Workouts[0].ID.String()}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
