package service

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/nutrifit/backend/internal/models"
)

var (
	fencedBlockRe = regexp.MustCompile("(?s)```(?:javascript|json|js)?(.+?)```")
	flatArrayRe   = regexp.MustCompile(`\[[^\[\]]*\]`)
)

// ExtractPlanJSON finds the JSON array embedded in a completion. The first
// fenced code block wins; without one, the first bracketed run that contains
// no nested brackets is used.
func ExtractPlanJSON(content string) (string, error) {
	if m := fencedBlockRe.FindStringSubmatch(content); m != nil {
		block := strings.TrimSpace(m[1])
		if json.Valid([]byte(block)) {
			return block, nil
		}
		// The block may wrap the array in code, e.g. `const meal = [...]`.
		if arr := flatArrayRe.FindString(block); arr != "" {
			return arr, nil
		}
		return block, nil
	}

	if arr := flatArrayRe.FindString(content); arr != "" {
		return arr, nil
	}
	return "", ErrNoPlanFound
}

// ParseMealPlan extracts meal items from a completion
func ParseMealPlan(content string) (models.MealItems, error) {
	raw, err := decodePlan(content)
	if err != nil {
		return nil, err
	}

	items := models.MealItems{}
	for _, obj := range raw {
		name := firstString(obj, "food", "name", "item")
		if name == "" {
			continue
		}
		items = append(items, models.MealItem{
			Food:     name,
			Calories: firstInt(obj, "calories", "kcal"),
			Grams:    firstInt(obj, "grams", "weight"),
		})
	}
	if len(items) == 0 {
		return nil, ErrEmptyPlan
	}
	return items, nil
}

// ParseWorkoutPlan extracts workout exercises from a completion
func ParseWorkoutPlan(content string) (models.WorkoutExercises, error) {
	raw, err := decodePlan(content)
	if err != nil {
		return nil, err
	}

	exercises := models.WorkoutExercises{}
	for _, obj := range raw {
		name := firstString(obj, "name", "exercise")
		if name == "" {
			continue
		}
		exercises = append(exercises, models.WorkoutExercise{
			Name:     name,
			Duration: firstInt(obj, "duration", "minutes"),
			BodyPart: firstString(obj, "bodypart", "body_part", "category"),
		})
	}
	if len(exercises) == 0 {
		return nil, ErrEmptyPlan
	}
	return exercises, nil
}

// decodePlan returns the plan objects with lower-cased keys
func decodePlan(content string) ([]map[string]json.RawMessage, error) {
	planJSON, err := ExtractPlanJSON(content)
	if err != nil {
		return nil, err
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(planJSON), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyPlan
	}

	out := make([]map[string]json.RawMessage, 0, len(raw))
	for _, obj := range raw {
		lowered := make(map[string]json.RawMessage, len(obj))
		for k, v := range obj {
			lowered[strings.ToLower(k)] = v
		}
		out = append(out, lowered)
	}
	return out, nil
}

func firstString(obj map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

var leadingNumberRe = regexp.MustCompile(`^-?\d+(?:\.\d+)?`)

// firstInt accepts JSON numbers as well as numeric strings such as "120",
// "120 kcal" or "1,200"
func firstInt(obj map[string]json.RawMessage, keys ...string) int {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			return int(math.Round(f))
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
			if num := leadingNumberRe.FindString(s); num != "" {
				if f, err := strconv.ParseFloat(num, 64); err == nil {
					return int(math.Round(f))
				}
			}
		}
	}
	return 0
}
