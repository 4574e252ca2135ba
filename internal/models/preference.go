package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PreferenceMode says whether a preference includes or excludes its subject
type PreferenceMode string

const (
	Include PreferenceMode = "include"
	Exclude PreferenceMode = "exclude"
)

// Valid reports whether m is a known mode
func (m PreferenceMode) Valid() bool {
	return m == Include || m == Exclude
}

// FoodPreference is a catalog food the user wants in, or out of, generated meals.
// The unique index makes the include and exclude lists sets.
type FoodPreference struct {
	ID        uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UserID    uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex:idx_food_pref" json:"user_id"`
	Mode      PreferenceMode `gorm:"size:10;not null;uniqueIndex:idx_food_pref" json:"mode"`
	Food      string         `gorm:"size:255;not null;uniqueIndex:idx_food_pref" json:"food"`
	Calories  int            `gorm:"not null;uniqueIndex:idx_food_pref" json:"calories"`
	Grams     int            `gorm:"not null;uniqueIndex:idx_food_pref" json:"grams"`
}

func (FoodPreference) TableName() string {
	return "food_preferences"
}

func (p *FoodPreference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ExercisePreference is a catalog exercise the user wants in, or out of, generated workouts.
type ExercisePreference struct {
	ID        uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UserID    uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex:idx_exercise_pref" json:"user_id"`
	Mode      PreferenceMode `gorm:"size:10;not null;uniqueIndex:idx_exercise_pref" json:"mode"`
	Name      string         `gorm:"size:255;not null;uniqueIndex:idx_exercise_pref" json:"name"`
	BodyPart  string         `gorm:"size:100;not null;uniqueIndex:idx_exercise_pref" json:"bodyPart"`
}

func (ExercisePreference) TableName() string {
	return "exercise_preferences"
}

func (p *ExercisePreference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
