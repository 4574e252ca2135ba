package api

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/nutrifit/backend/internal/models"
	"github.com/nutrifit/backend/internal/service"
	"github.com/nutrifit/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const workoutReply = `Sure! [{"name":"Jumping jacks","duration":"5","bodyPart":"cardio"},{"name":"Push up","duration":10,"bodyPart":"chest"}]`

func TestGenerateWorkout(t *testing.T) {
	app := newTestApp(t)
	app.login()

	// Without a duration the default target is used
	app.completer.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "10 minute workout")
	})).Return(workoutReply, nil).Once()

	w := app.get("/generatedWorkouts")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Exercises     models.WorkoutExercises `json:"exercises"`
		TotalDuration int                     `json:"totalDuration"`
	}
	decode(t, w, &body)
	require.Len(t, body.Exercises, 2)
	assert.Equal(t, 5, body.Exercises[0].Duration)
	assert.Equal(t, 15, body.TotalDuration)

	w = app.post("/generatedWorkouts/favoriteWorkouts", nil)
	assert.Equal(t, "/favoriteWorkouts", w.Header().Get("Location"))

	var favs struct {
		Workouts []service.WorkoutSummary `json:"workouts"`
	}
	decode(t, app.get("/favoriteWorkouts"), &favs)
	require.Len(t, favs.Workouts, 1)
	assert.Equal(t, "Jumping jacks Workout", favs.Workouts[0].Name)
	assert.Equal(t, 15, favs.Workouts[0].TotalDuration)

	w = app.post("/generatedWorkouts/deleteFromFavoriteWorkouts", url.Values{"WORKOUT": {favs.Workouts[0].ID.String()}})
	assert.Equal(t, "/favoriteWorkouts", w.Header().Get("Location"))
	w = app.post("/generatedWorkouts/deleteFromFavoriteWorkouts", url.Values{"WORKOUT": {favs.Workouts[0].ID.String()}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkoutFilters(t *testing.T) {
	app := newTestApp(t)
	app.login()
	squat := testhelpers.CreateTestExercise(t, app.db, 1, "barbell squat", "upper legs")

	w := app.post("/generatedWorkouts/selectExercise", url.Values{"item": {squat.ID.String()}, "type": {"exclude"}})
	assert.Equal(t, "/generatedWorkouts/workoutFilters", w.Header().Get("Location"))
	app.post("/generatedWorkouts/modifyExerciseTag", url.Values{"exerciseTag": {"neck"}, "type": {"exclude"}})

	var body struct {
		Categories       []string                    `json:"categories"`
		ExcludeExercises []models.ExercisePreference `json:"excludeExercises"`
		ExcludeTags      []string                    `json:"excludeTags"`
	}
	decode(t, app.get("/generatedWorkouts/workoutFilters"), &body)
	assert.Len(t, body.Categories, 10)
	require.Len(t, body.ExcludeExercises, 1)
	assert.Equal(t, "barbell squat", body.ExcludeExercises[0].Name)
	assert.Equal(t, []string{"neck"}, body.ExcludeTags)

	// Toggling again removes the tag
	app.post("/generatedWorkouts/modifyExerciseTag", url.Values{"exerciseTag": {"neck"}, "type": {"exclude"}})
	app.post("/generatedWorkouts/deleteExercise", url.Values{"item": {"barbell squat"}, "type": {"exclude"}})
	decode(t, app.get("/generatedWorkouts/workoutFilters"), &body)
	assert.Empty(t, body.ExcludeExercises)
	assert.Empty(t, body.ExcludeTags)
}

func TestSearchExercise(t *testing.T) {
	app := newTestApp(t)
	app.login()
	testhelpers.CreateTestExercise(t, app.db, 1, "barbell squat", "upper legs")
	testhelpers.CreateTestExercise(t, app.db, 2, "air bike", "waist")

	var results []ExerciseResult
	decode(t, app.get("/generatedWorkouts/searchExercise?q=Squat"), &results)
	require.Len(t, results, 1)
	assert.Equal(t, "barbell squat", results[0].Name)
	assert.Equal(t, "upper legs", results[0].BodyPart)
}

func TestQuickAddWorkout(t *testing.T) {
	app := newTestApp(t)
	app.login()
	bike := testhelpers.CreateTestExercise(t, app.db, 2, "air bike", "waist")

	w := app.post("/generatedWorkouts/quickAddWorkout", url.Values{"item": {bike.ID.String()}, "duration": {"25"}})
	assert.Equal(t, "/workoutTracking/workoutLogs", w.Header().Get("Location"))
	app.post("/generatedWorkouts/quickAddWorkout", url.Values{"item": {bike.ID.String()}})

	var body struct {
		Workouts      []models.Workout `json:"workouts"`
		TotalDuration int              `json:"totalDuration"`
		BodyParts     []string         `json:"bodyParts"`
	}
	decode(t, app.get("/workoutTracking/workoutLogs"), &body)
	require.Len(t, body.Workouts, 2)
	assert.Equal(t, "air bike Workout", body.Workouts[0].Name)
	assert.Equal(t, 35, body.TotalDuration)
	assert.Equal(t, []string{"waist"}, body.BodyParts)

	w = app.post("/generatedWorkouts/quickAddWorkout", url.Values{"item": {bike.ID.String()}, "duration": {"abc"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
