package service

import (
	"testing"

	"github.com/nutrifit/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlanJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{
			name:    "javascript fence",
			content: "Here you go:\n```javascript\n[{\"Food\":\"Egg\",\"Calories\":70,\"Grams\":50}]\n```\nEnjoy!",
			want:    `[{"Food":"Egg","Calories":70,"Grams":50}]`,
		},
		{
			name:    "json fence",
			content: "```json[{\"name\":\"Plank\"}]```",
			want:    `[{"name":"Plank"}]`,
		},
		{
			name:    "bare fence",
			content: "```\n[1,2]\n```",
			want:    `[1,2]`,
		},
		{
			name:    "first fence wins",
			content: "```javascript[{\"a\":1}]``` and ```javascript[{\"b\":2}]```",
			want:    `[{"a":1}]`,
		},
		{
			name:    "array inside code in fence",
			content: "```javascript\nconst meal = [{\"Food\":\"Rice\"}];\n```",
			want:    `[{"Food":"Rice"}]`,
		},
		{
			name:    "bracket fallback without fence",
			content: `Sure! [{"Food":"Toast","Calories":80,"Grams":30}] is a good start.`,
			want:    `[{"Food":"Toast","Calories":80,"Grams":30}]`,
		},
		{
			name:    "nested brackets skip outer run",
			content: `[[{"Food":"Oats"}]]`,
			want:    `[{"Food":"Oats"}]`,
		},
		{
			name:    "nothing to extract",
			content: "I cannot help with that.",
			wantErr: ErrNoPlanFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPlanJSON(tt.content)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMealPlan(t *testing.T) {
	content := "```javascript[{\"Food\":\"Chicken Breast\",\"Calories\":165,\"Grams\":100}," +
		"{\"food\":\"Rice\",\"calories\":\"205\",\"grams\":\"158 g\"}," +
		"{\"name\":\"Broccoli\",\"Calories\":55.4,\"Grams\":91}]```"

	items, err := ParseMealPlan(content)
	require.NoError(t, err)
	assert.Equal(t, models.MealItems{
		{Food: "Chicken Breast", Calories: 165, Grams: 100},
		{Food: "Rice", Calories: 205, Grams: 158},
		{Food: "Broccoli", Calories: 55, Grams: 91},
	}, items)
	assert.Equal(t, 425, items.TotalCalories())
}

func TestParseMealPlanThousandsSeparator(t *testing.T) {
	content := "```json[{\"food\":\"Lasagna\",\"calories\":\"1,200 kcal\",\"grams\":\"1,050\"}]```"

	items, err := ParseMealPlan(content)
	require.NoError(t, err)
	assert.Equal(t, models.MealItems{{Food: "Lasagna", Calories: 1200, Grams: 1050}}, items)
}

func TestParseMealPlanErrors(t *testing.T) {
	_, err := ParseMealPlan("```javascript[{\"Food\": \"Egg\",]```")
	assert.ErrorIs(t, err, ErrMalformedPlan)

	_, err = ParseMealPlan("```javascript[]```")
	assert.ErrorIs(t, err, ErrEmptyPlan)

	_, err = ParseMealPlan(`[{"Calories": 100}]`)
	assert.ErrorIs(t, err, ErrEmptyPlan)

	_, err = ParseMealPlan("no plan here")
	assert.ErrorIs(t, err, ErrNoPlanFound)
}

func TestParseWorkoutPlan(t *testing.T) {
	content := "```javascript[{\"name\":\"Push Up\",\"duration\":5,\"bodyPart\":\"chest\"}," +
		"{\"Name\":\"Squat\",\"Duration\":\"10\",\"body_part\":\"upper legs\"}]```"

	exercises, err := ParseWorkoutPlan(content)
	require.NoError(t, err)
	assert.Equal(t, models.WorkoutExercises{
		{Name: "Push Up", Duration: 5, BodyPart: "chest"},
		{Name: "Squat", Duration: 10, BodyPart: "upper legs"},
	}, exercises)
	assert.Equal(t, 15, exercises.TotalDuration())
}

func TestBuildMealPrompt(t *testing.T) {
	user := &models.User{
		FoodTagInclude: models.StringList{"Fruits A-F", "Breads, cereals, fastfood,grains"},
		FoodTagExclude: models.StringList{"Meat, Poultry"},
		FoodPreferences: []models.FoodPreference{
			{Mode: models.Include, Food: "Apple", Calories: 70, Grams: 130},
			{Mode: models.Exclude, Food: "Bacon", Calories: 90, Grams: 20},
		},
	}

	prompt := BuildMealPrompt(600, user)
	assert.Contains(t, prompt, "Make me a sample 600 calorie meal. It must be within 100 calories of 600.")
	assert.Contains(t, prompt, `These json objects must be included: [{"Calories":70,"Food":"Apple","Grams":130}]`)
	assert.Contains(t, prompt, `These json objects must not be included: [{"Calories":90,"Food":"Bacon","Grams":20}]`)
	assert.Contains(t, prompt, "These are the themes of the meal: Fruits A-F, Breads, cereals, fastfood,grains.")
	assert.Contains(t, prompt, "Do not provide meals related to: Meat, Poultry.")
}

func TestBuildWorkoutPrompt(t *testing.T) {
	user := &models.User{
		ExerciseTagInclude: models.StringList{"chest"},
		ExercisePreferences: []models.ExercisePreference{
			{Mode: models.Include, Name: "push up", BodyPart: "chest"},
		},
	}

	prompt := BuildWorkoutPrompt(20, user)
	assert.Contains(t, prompt, "Make me a sample 20 minute workout.")
	assert.Contains(t, prompt, `These json objects must be included: [{"bodyPart":"chest","name":"push up"}]`)
	assert.Contains(t, prompt, "Include these categories: chest.")
	assert.Contains(t, prompt, "Exclude these exercises: [].")
}
