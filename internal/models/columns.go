package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores a list of strings as a JSON column
type StringList []string

// Value implements the driver.Valuer interface
func (a StringList) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringList) Scan(value interface{}) error {
	return scanJSON(value, a, func() { *a = StringList{} })
}

// Contains reports whether s is in the list
func (a StringList) Contains(s string) bool {
	for _, v := range a {
		if v == s {
			return true
		}
	}
	return false
}

// MealItem is one food in a meal or a generated meal plan
type MealItem struct {
	Food     string `json:"food"`
	Calories int    `json:"calories"`
	Grams    int    `json:"grams"`
}

// MealItems stores meal items as a JSON column
type MealItems []MealItem

// Value implements the driver.Valuer interface
func (m MealItems) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (m *MealItems) Scan(value interface{}) error {
	return scanJSON(value, m, func() { *m = MealItems{} })
}

// TotalCalories sums the calories of all items
func (m MealItems) TotalCalories() int {
	total := 0
	for _, item := range m {
		total += item.Calories
	}
	return total
}

// WorkoutExercise is one exercise in a workout or a generated workout plan
type WorkoutExercise struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	BodyPart string `json:"bodyPart"`
}

// WorkoutExercises stores workout exercises as a JSON column
type WorkoutExercises []WorkoutExercise

// Value implements the driver.Valuer interface
func (w WorkoutExercises) Value() (driver.Value, error) {
	if len(w) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (w *WorkoutExercises) Scan(value interface{}) error {
	return scanJSON(value, w, func() { *w = WorkoutExercises{} })
}

// TotalDuration sums the minutes of all exercises
func (w WorkoutExercises) TotalDuration() int {
	total := 0
	for _, e := range w {
		total += e.Duration
	}
	return total
}

// BodyParts returns the distinct body parts in first-seen order
func (w WorkoutExercises) BodyParts() []string {
	seen := make(map[string]bool)
	parts := []string{}
	for _, e := range w {
		if e.BodyPart == "" || seen[e.BodyPart] {
			continue
		}
		seen[e.BodyPart] = true
		parts = append(parts, e.BodyPart)
	}
	return parts
}

func scanJSON(value interface{}, dest interface{}, empty func()) error {
	if value == nil {
		empty()
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
	if len(bytes) == 0 {
		empty()
		return nil
	}
	return json.Unmarshal(bytes, dest)
}
