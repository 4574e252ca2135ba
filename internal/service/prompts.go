package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nutrifit/backend/internal/models"
)

const (
	mealFormat    = "```javascript[{ \"Food\": String, \"Calories\": int, \"Grams\": int}, ...]```"
	workoutFormat = "```javascript[{ \"name\": String, \"duration\": int, \"bodyPart\": String}, ...]```"
)

// BuildMealPrompt asks for a meal near calories that honours the user's food preferences
func BuildMealPrompt(calories int, user *models.User) string {
	included := foodsJSON(user.Foods(models.Include))
	excluded := foodsJSON(user.Foods(models.Exclude))

	var b strings.Builder
	fmt.Fprintf(&b, "Respond to me in this format: %s. ", mealFormat)
	fmt.Fprintf(&b, "Make me a sample %d calorie meal. It must be within 100 calories of %d. ", calories, calories)
	fmt.Fprintf(&b, "Do not provide any extra text outside of %s. ", mealFormat)
	fmt.Fprintf(&b, "These json objects must be included: %s. ", included)
	fmt.Fprintf(&b, "These are the themes of the meal: %s. ", tagList(user.FoodTagInclude))
	fmt.Fprintf(&b, "These json objects must not be included: %s. ", excluded)
	fmt.Fprintf(&b, "Do not provide meals related to: %s. ", tagList(user.FoodTagExclude))
	b.WriteString("Remove all white space.")
	return b.String()
}

// BuildWorkoutPrompt asks for a workout of the given minutes that honours the user's exercise preferences
func BuildWorkoutPrompt(duration int, user *models.User) string {
	included := exercisesJSON(user.Exercises(models.Include))
	excluded := exercisesJSON(user.Exercises(models.Exclude))

	var b strings.Builder
	fmt.Fprintf(&b, "Respond to me in this format: %s. ", workoutFormat)
	fmt.Fprintf(&b, "Make me a sample %d minute workout. The unit of the duration field is in minutes. ", duration)
	fmt.Fprintf(&b, "Do not provide any extra text outside of %s. ", workoutFormat)
	fmt.Fprintf(&b, "These json objects must be included: %s. Give them a duration. ", included)
	fmt.Fprintf(&b, "Include these categories: %s. ", tagList(user.ExerciseTagInclude))
	fmt.Fprintf(&b, "Exclude these exercises: %s. ", excluded)
	fmt.Fprintf(&b, "Exclude these categories: %s. ", tagList(user.ExerciseTagExclude))
	b.WriteString("Remove all white space. Do not go over the duration of the workout.")
	return b.String()
}

func foodsJSON(prefs []models.FoodPreference) string {
	items := make([]map[string]interface{}, 0, len(prefs))
	for _, p := range prefs {
		items = append(items, map[string]interface{}{
			"Food":     p.Food,
			"Calories": p.Calories,
			"Grams":    p.Grams,
		})
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func exercisesJSON(prefs []models.ExercisePreference) string {
	items := make([]map[string]interface{}, 0, len(prefs))
	for _, p := range prefs {
		items = append(items, map[string]interface{}{
			"name":     p.Name,
			"bodyPart": p.BodyPart,
		})
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func tagList(tags models.StringList) string {
	return strings.Join(tags, ", ")
}
