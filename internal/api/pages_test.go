package api

import (
	"net/http"
	"testing"

	"github.com/nutrifit/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanding(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, http.StatusOK, app.get("/").Code)

	app.login()
	w := app.get("/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/members", w.Header().Get("Location"))
}

func TestProtectedPages(t *testing.T) {
	app := newTestApp(t)
	paths := []string{"/members", "/userProfile", "/logs", "/exerciseLogs", "/favorites", "/favoriteMeals", "/favoriteWorkouts", "/waitingApi?type=meal"}

	for _, p := range paths {
		w := app.get(p)
		assert.Equal(t, http.StatusFound, w.Code, p)
		assert.Equal(t, "/authFail", w.Header().Get("Location"), p)
	}

	app.login()
	for _, p := range paths {
		assert.Equal(t, http.StatusOK, app.get(p).Code, p)
	}
}

func TestAuthFailShowsReferer(t *testing.T) {
	app := newTestApp(t)
	var body map[string]string
	decode(t, app.get("/authFail", "Referer", "http://localhost/members"), &body)
	assert.Equal(t, "http://localhost/members", body["referer"])
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	app.login()

	w := app.post("/logOut", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Empty(t, app.cookies)

	assert.Equal(t, "/authFail", app.get("/members").Header().Get("Location"))
}

func TestWaitingAPI(t *testing.T) {
	app := newTestApp(t)
	user := app.login()

	var body map[string]interface{}
	decode(t, app.get("/waitingApi?type=meal&calories=750"), &body)
	assert.Equal(t, "meal", body["type"])
	assert.Equal(t, "/generatedMeals?calories=750", body["next"])

	decode(t, app.get("/waitingApi?type=workout"), &body)
	assert.Equal(t, "/generatedWorkouts?duration=10", body["next"])

	var reloaded models.User
	require.NoError(t, app.db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 750, reloaded.CalorieTarget)
	assert.Equal(t, models.DefaultDurationTarget, reloaded.DurationTarget)

	// A stored target is kept when none is requested
	decode(t, app.get("/waitingApi?type=meal"), &body)
	assert.Equal(t, "/generatedMeals?calories=750", body["next"])

	assert.Equal(t, http.StatusBadRequest, app.get("/waitingApi?type=dance").Code)
	assert.Equal(t, http.StatusBadRequest, app.get("/waitingApi?type=meal&calories=-5").Code)
}

func TestSnakeAndNotFound(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/snake")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "<html>snake</html>", w.Body.String())

	assert.Equal(t, http.StatusNotFound, app.get("/no/such/page").Code)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w := app.get("/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "ok", body["database"])
	assert.Equal(t, "disabled", body["redis"])
}
