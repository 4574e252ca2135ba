package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Defaults applied to plan targets when the user has not chosen one
const (
	DefaultCalorieTarget  = 500
	DefaultDurationTarget = 10
)

// User is an account together with its plan targets and tag filters.
// Username is the handle chosen at signup ("id" in the forms).
type User struct {
	ID                 uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	Username           string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email              string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash       string     `gorm:"not null" json:"-"`
	AnswerHash         string     `gorm:"not null" json:"-"`
	FoodTagInclude     StringList `gorm:"type:text;not null;default:'[]'" json:"food_tag_include"`
	FoodTagExclude     StringList `gorm:"type:text;not null;default:'[]'" json:"food_tag_exclude"`
	ExerciseTagInclude StringList `gorm:"type:text;not null;default:'[]'" json:"exercise_tag_include"`
	ExerciseTagExclude StringList `gorm:"type:text;not null;default:'[]'" json:"exercise_tag_exclude"`
	CalorieTarget      int        `gorm:"not null;default:0" json:"calorie_target"`
	DurationTarget     int        `gorm:"not null;default:0" json:"duration_target"`

	FoodPreferences     []FoodPreference     `gorm:"constraint:OnDelete:CASCADE" json:"food_preferences,omitempty"`
	ExercisePreferences []ExercisePreference `gorm:"constraint:OnDelete:CASCADE" json:"exercise_preferences,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Calories returns the calorie target, or the default when unset
func (u *User) Calories() int {
	if u.CalorieTarget > 0 {
		return u.CalorieTarget
	}
	return DefaultCalorieTarget
}

// Minutes returns the workout duration target, or the default when unset
func (u *User) Minutes() int {
	if u.DurationTarget > 0 {
		return u.DurationTarget
	}
	return DefaultDurationTarget
}

// Foods returns the food preferences with the given mode
func (u *User) Foods(mode PreferenceMode) []FoodPreference {
	out := []FoodPreference{}
	for _, p := range u.FoodPreferences {
		if p.Mode == mode {
			out = append(out, p)
		}
	}
	return out
}

// Exercises returns the exercise preferences with the given mode
func (u *User) Exercises(mode PreferenceMode) []ExercisePreference {
	out := []ExercisePreference{}
	for _, p := range u.ExercisePreferences {
		if p.Mode == mode {
			out = append(out, p)
		}
	}
	return out
}
