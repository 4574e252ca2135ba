package api

import (
	"fmt"
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

const mealReply = "Here is your meal:\n```javascript\n" +
	`[{"Food": "Oatmeal", "Calories": 300, "Grams": 80}, {"Food": "Banana", "Calories": 105, "Grams": 118}]` +
	"\n```\nEnjoy!"

func TestGenerateMeal(t *testing.T) {
	app := newTestApp(t)
	app.login()

	app.completer.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "600 calorie meal")
	})).Return(mealReply, nil).Once()

	w := app.get("/generatedMeals?calories=600")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Items         models.MealItems `json:"items"`
		TotalCalories int              `json:"totalCalories"`
		Calories      int              `json:"calories"`
	}
	decode(t, w, &body)
	assert.Len(t, body.Items, 2)
	assert.Equal(t, 405, body.TotalCalories)
	assert.Equal(t, 600, body.Calories)
	app.completer.AssertExpectations(t)

	// The generated meal is pending until it is favorited
	w = app.post("/generatedMeals/favoriteMeals", nil)
	assert.Equal(t, "/favoriteMeals", w.Header().Get("Location"))

	var favs struct {
		Meals []service.MealSummary `json:"meals"`
	}
	decode(t, app.get("/favoriteMeals"), &favs)
	require.Len(t, favs.Meals, 1)
	assert.Equal(t, "Oatmeal Meal", favs.Meals[0].Name)
	assert.Equal(t, 405, favs.Meals[0].TotalCalories)

	w = app.post("/generatedMeals/favoriteMeals", nil)
	assert.Equal(t, "/generatedMeals", w.Header().Get("Location"))

	w = app.post("/generatedMeals/deleteFromFavoriteMeals", url.Values{"MEAL": {favs.Meals[0].ID.String()}})
	assert.Equal(t, "/favoriteMeals", w.Header().Get("Location"))
	decode(t, app.get("/favoriteMeals"), &favs)
	assert.Empty(t, favs.Meals)
}

func TestGenerateMealBadReply(t *testing.T) {
	app := newTestApp(t)
	app.login()

	app.completer.On("Complete", mock.Anything, mock.Anything).Return("I cannot help with that.", nil).Once()
	w := app.get("/generatedMeals")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/badApiResponse", w.Header().Get("Location"))

	app.completer.On("Complete", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("%w: status 500", service.ErrCompletionFailed)).Once()
	w = app.get("/generatedMeals")
	assert.Equal(t, "/badApiResponse", w.Header().Get("Location"))

	w = app.get("/generatedMeals?calories=lots")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateMealRequiresAuth(t *testing.T) {
	app := newTestApp(t)
	w := app.get("/generatedMeals")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/authFail", w.Header().Get("Location"))
	app.completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestMealFilters(t *testing.T) {
	app := newTestApp(t)
	user := app.login()
	apple := testhelpers.CreateTestFood(t, app.db, "Apple", 72, 138, "Fruits A-F")

	w := app.post("/generatedMeals/selectFood", url.Values{"item": {apple.ID.String()}, "type": {"include"}})
	assert.Equal(t, "/generatedMeals/mealFilters", w.Header().Get("Location"))
	app.post("/generatedMeals/selectFood", url.Values{"item": {apple.ID.String()}, "type": {"include"}})

	// The mode can come from the catalog page that submitted the form
	w = app.do(http.MethodPost, "/generatedMeals/selectFood", url.Values{"item": {apple.ID.String()}},
		"Referer", "http://localhost/generatedMeals/foodCatalog?type=exclude")
	assert.Equal(t, "/generatedMeals/mealFilters", w.Header().Get("Location"))

	app.post("/generatedMeals/modifyFoodTag", url.Values{"foodTag": {"Soups"}, "type": {"include"}})

	w = app.get("/generatedMeals/mealFilters")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Categories   []string                `json:"categories"`
		IncludeFoods []models.FoodPreference `json:"includeFoods"`
		ExcludeFoods []models.FoodPreference `json:"excludeFoods"`
		IncludeTags  []string                `json:"includeTags"`
	}
	decode(t, w, &body)
	assert.Len(t, body.Categories, 16)
	require.Len(t, body.IncludeFoods, 1)
	assert.Equal(t, "Apple", body.IncludeFoods[0].Food)
	assert.Len(t, body.ExcludeFoods, 1)
	assert.Equal(t, []string{"Soups"}, body.IncludeTags)

	w = app.post("/generatedMeals/modifyFoodTag", url.Values{"foodTag": {"Rocks"}, "type": {"include"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = app.post("/generatedMeals/selectFood", url.Values{"item": {apple.ID.String()}, "type": {"maybe"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = app.post("/generatedMeals/selectFood", url.Values{"item": {"not-an-id"}, "type": {"include"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	app.post("/generatedMeals/deleteFood", url.Values{"item": {"Apple"}, "type": {"include"}})
	var count int64
	app.db.Model(&models.FoodPreference{}).Where("user_id = ? AND mode = ?", user.ID, models.Include).Count(&count)
	assert.Zero(t, count)
}

func TestSearchFood(t *testing.T) {
	app := newTestApp(t)
	app.login()
	testhelpers.CreateTestFood(t, app.db, "Apple pie", 296, 135, "Desserts, sweets")
	testhelpers.CreateTestFood(t, app.db, "Pineapple", 82, 165, "Fruits G-P")
	testhelpers.CreateTestFood(t, app.db, "Bread", 66, 25, "Breads, cereals, fastfood, grains")

	var results []FoodResult
	decode(t, app.get("/generatedMeals/searchFood?q=APPLE"), &results)
	require.Len(t, results, 2)
	assert.Equal(t, "Apple pie", results[0].Name)
	assert.Equal(t, "1 cup", results[0].Measure)
	assert.NotEmpty(t, results[0].ID)

	decode(t, app.get("/generatedMeals/searchFood?q="+url.QueryEscape(".*")), &results)
	assert.Empty(t, results)
}

func TestQuickAddMeal(t *testing.T) {
	app := newTestApp(t)
	app.login()
	apple := testhelpers.CreateTestFood(t, app.db, "Apple", 72, 138, "Fruits A-F")

	assert.Equal(t, http.StatusOK, app.get("/generatedMeals/quickAddMeal").Code)

	w := app.post("/generatedMeals/quickAddMeal", url.Values{"item": {apple.ID.String()}})
	assert.Equal(t, "/generatedMeals/quickAddMeal", w.Header().Get("Location"))

	var body struct {
		Meals []models.Meal `json:"meals"`
	}
	decode(t, app.get("/mealTracking/mealLogs"), &body)
	require.Len(t, body.Meals, 1)
	assert.Equal(t, "Apple", body.Meals[0].Name)

	w = app.post("/generatedMeals/quickAddMeal", url.Values{"item": {"7b0c6f5e-0000-4000-8000-000000000000"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFoodCatalogMode(t *testing.T) {
	app := newTestApp(t)
	app.login()

	var body map[string]string
	decode(t, app.get("/generatedMeals/foodCatalog?type=exclude"), &body)
	assert.Equal(t, "exclude", body["type"])

	assert.Equal(t, http.StatusBadRequest, app.get("/generatedMeals/foodCatalog").Code)
}
