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

// MealHandler serves meal generation and the meal filters under /generatedMeals
type MealHandler struct {
	users       service.IUserService
	catalog     service.ICatalogService
	preferences service.IPreferenceService
	plans       service.IPlanService
	tracking    service.ITrackingService
	favorites   service.IFavoriteService
}

// NewMealHandler creates a new MealHandler
func NewMealHandler(svc *Services) *MealHandler {
	return &MealHandler{
		users:       svc.Users,
		catalog:     svc.Catalog,
		preferences: svc.Preferences,
		plans:       svc.Plans,
		tracking:    svc.Tracking,
		favorites:   svc.Favorites,
	}
}

// RegisterRoutes registers the meal routes. limit guards generation.
func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup, limit gin.HandlerFunc) {
	meals := router.Group("/generatedMeals")
	{
		meals.GET("", limit, h.Generate)
		meals.GET("/mealFilters", h.Filters)
		meals.GET("/foodCatalog", h.Catalog)
		meals.GET("/quickAddMeal", h.QuickAddPage)
		meals.POST("/quickAddMeal", h.QuickAdd)
		meals.GET("/searchFood", h.Search)
		meals.POST("/selectFood", h.SelectFood)
		meals.POST("/modifyFoodTag", h.ModifyTag)
		meals.POST("/deleteFood", h.DeleteFood)
		meals.POST("/favoriteMeals", h.SaveFavorite)
		meals.POST("/deleteFromFavoriteMeals", h.DeleteFavorite)
	}
}

// Generate asks the completion API for a meal and keeps it as the pending meal
func (h *MealHandler) Generate(c *gin.Context) {
	calories := 0
	if raw := c.Query("calories"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			invalid(c, "calories must be a positive number")
			return
		}
		calories = n
	}

	user, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if calories == 0 {
		calories = user.Calories()
	}

	items, err := h.plans.GenerateMeal(c.Request.Context(), user, calories)
	if service.IsGenerationError(err) {
		log.Printf("[MealPlan] Generation failed for user %s: %v", user.ID, err)
		redirect(c, "/badApiResponse")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	middleware.GetSession(c).PendingMeal = items
	render(c, http.StatusOK, "meals/generated", gin.H{
		"items":         items,
		"totalCalories": items.TotalCalories(),
		"calories":      calories,
		"includeTags":   user.FoodTagInclude,
	})
}

// Filters renders the tag and food filters applied to generated meals
func (h *MealHandler) Filters(c *gin.Context) {
	user, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	render(c, http.StatusOK, "meals/filters", gin.H{
		"user":         user,
		"categories":   models.FoodCategories,
		"includeFoods": user.Foods(models.Include),
		"excludeFoods": user.Foods(models.Exclude),
		"includeTags":  user.FoodTagInclude,
		"excludeTags":  user.FoodTagExclude,
	})
}

// Catalog renders the food search page for one filter list
func (h *MealHandler) Catalog(c *gin.Context) {
	mode, err := preferenceMode(c)
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "meals/catalog", gin.H{"type": mode})
}

// QuickAddPage renders the quick-add search page
func (h *MealHandler) QuickAddPage(c *gin.Context) {
	render(c, http.StatusOK, "meals/quickAdd", nil)
}

// QuickAdd logs a meal of a single catalog food
func (h *MealHandler) QuickAdd(c *gin.Context) {
	foodID, ok := parseID(c, "item")
	if !ok {
		return
	}
	if _, err := h.tracking.QuickAddMeal(c.Request.Context(), middleware.GetUserID(c), foodID); err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/generatedMeals/quickAddMeal")
}

// FoodResult is one row of /searchFood
type FoodResult struct {
	Name     string  `json:"name"`
	Measure  string  `json:"measure"`
	Calories float64 `json:"calories"`
	ID       string  `json:"id"`
}

// Search returns catalog foods whose name contains q
func (h *MealHandler) Search(c *gin.Context) {
	foods, err := h.catalog.SearchFoods(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	results := make([]FoodResult, 0, len(foods))
	for _, f := range foods {
		results = append(results, FoodResult{Name: f.Name, Measure: f.Measure, Calories: f.Calories, ID: f.ID.String()})
	}
	c.JSON(http.StatusOK, results)
}

// SelectFood adds a catalog food to the include or exclude list
func (h *MealHandler) SelectFood(c *gin.Context) {
	mode, err := preferenceMode(c)
	if err != nil {
		fail(c, err)
		return
	}
	foodID, ok := parseID(c, "item")
	if !ok {
		return
	}
	if err := h.preferences.AddFood(c.Request.Context(), middleware.GetUserID(c), mode, foodID); err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/generatedMeals/mealFilters")
}

// ModifyTag toggles a food category in the include or exclude tags
func (h *MealHandler) ModifyTag(c *gin.Context) {
	mode, err := preferenceMode(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.preferences.ToggleFoodTag(c.Request.Context(), middleware.GetUserID(c), mode, c.PostForm("foodTag")); err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/generatedMeals/mealFilters")
}

// DeleteFood removes a food, by name, from the include or exclude list
func (h *MealHandler) DeleteFood(c *gin.Context) {
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
	if err := h.preferences.RemoveFood(c.Request.Context(), middleware.GetUserID(c), mode, name); err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/generatedMeals/mealFilters")
}

// SaveFavorite stores the pending meal as a favorite
func (h *MealHandler) SaveFavorite(c *gin.Context) {
	sess := middleware.GetSession(c)
	if len(sess.PendingMeal) == 0 {
		redirect(c, "/generatedMeals")
		return
	}
	if _, err := h.favorites.SaveMeal(c.Request.Context(), middleware.GetUserID(c), sess.PendingMeal); err != nil {
		fail(c, err)
		return
	}
	sess.PendingMeal = nil
	redirect(c, "/favoriteMeals")
}

// DeleteFavorite removes one of the user's favorite meals
func (h *MealHandler) DeleteFavorite(c *gin.Context) {
	id, ok := parseID(c, "MEAL")
	if !ok {
		return
	}
	if err := h.favorites.DeleteMeal(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/favoriteMeals")
}

// mealFromForm decodes the "meal" field, a JSON array of items
func mealFromForm(c *gin.Context) (models.MealItems, bool) {
	raw := c.PostForm("meal")
	if raw == "" {
		return nil, true
	}
	var items models.MealItems
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		invalid(c, "meal must be a JSON array of items")
		return nil, false
	}
	return items, true
}
