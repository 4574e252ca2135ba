package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meal is a logged meal. Rows past ExpiresAt are hidden and later swept.
type Meal struct {
	ID            uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	ExpiresAt     time.Time `gorm:"index;not null" json:"expires_at"`
	UserID        uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name          string    `gorm:"size:255" json:"name"`
	Items         MealItems `gorm:"type:text;not null" json:"items"`
	TotalCalories int       `gorm:"not null;default:0" json:"total_calories"`
}

func (Meal) TableName() string {
	return "meals"
}

func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.TotalCalories = m.Items.TotalCalories()
	return nil
}

// Workout is a logged workout. Rows past ExpiresAt are hidden and later swept.
type Workout struct {
	ID            uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt     time.Time        `gorm:"index" json:"created_at"`
	ExpiresAt     time.Time        `gorm:"index;not null" json:"expires_at"`
	UserID        uuid.UUID        `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name          string           `gorm:"size:255" json:"name"`
	Exercises     WorkoutExercises `gorm:"type:text;not null" json:"exercises"`
	TotalDuration int              `gorm:"not null;default:0" json:"total_duration"`
}

func (Workout) TableName() string {
	return "workouts"
}

func (w *Workout) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	w.TotalDuration = w.Exercises.TotalDuration()
	return nil
}
