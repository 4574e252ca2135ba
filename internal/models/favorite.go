package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FavoriteMeal is a generated meal the user saved
type FavoriteMeal struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name      string    `gorm:"size:255" json:"name"`
	Items     MealItems `gorm:"type:text;not null" json:"items"`
}

func (FavoriteMeal) TableName() string {
	return "favorite_meals"
}

func (f *FavoriteMeal) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// FavoriteWorkout is a generated workout the user saved
type FavoriteWorkout struct {
	ID        uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	UserID    uuid.UUID        `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name      string           `gorm:"size:255" json:"name"`
	Exercises WorkoutExercises `gorm:"type:text;not null" json:"exercises"`
}

func (FavoriteWorkout) TableName() string {
	return "favorite_workouts"
}

func (f *FavoriteWorkout) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// All lists every model for auto-migration
func All() []interface{} {
	return []interface{}{
		&User{},
		&FoodPreference{},
		&ExercisePreference{},
		&Food{},
		&Exercise{},
		&Meal{},
		&Workout{},
		&FavoriteMeal{},
		&FavoriteWorkout{},
	}
}
