package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nutrifit/backend/internal/models"
	"gorm.io/gorm"
)

// MealSummary is how a favorite meal is listed
type MealSummary struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Items         models.MealItems `json:"items"`
	TotalCalories int              `json:"total_calories"`
}

// WorkoutSummary is how a favorite workout is listed
type WorkoutSummary struct {
	ID            uuid.UUID               `json:"id"`
	Name          string                  `json:"name"`
	Exercises     models.WorkoutExercises `json:"exercises"`
	TotalDuration int                     `json:"total_duration"`
}

// FavoriteService stores the generated plans users choose to keep
type FavoriteService struct {
	db *gorm.DB
}

// NewFavoriteService creates a new FavoriteService
func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// SaveMeal stores items as a favorite meal
func (s *FavoriteService) SaveMeal(ctx context.Context, userID uuid.UUID, items models.MealItems) (*models.FavoriteMeal, error) {
	if len(items) == 0 {
		return nil, ErrEmptyPlan
	}
	fav := &models.FavoriteMeal{UserID: userID, Name: items[0].Food + " Meal", Items: items}
	if err := s.db.WithContext(ctx).Create(fav).Error; err != nil {
		return nil, fmt.Errorf("failed to save favorite meal: %w", err)
	}
	return fav, nil
}

// ListMeals returns summaries of the user's favorite meals, oldest first
func (s *FavoriteService) ListMeals(ctx context.Context, userID uuid.UUID) ([]MealSummary, error) {
	var favs []models.FavoriteMeal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&favs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite meals: %w", err)
	}

	out := make([]MealSummary, 0, len(favs))
	for _, f := range favs {
		if len(f.Items) == 0 {
			continue
		}
		out = append(out, MealSummary{
			ID:            f.ID,
			Name:          f.Items[0].Food + " Meal",
			Items:         f.Items,
			TotalCalories: f.Items.TotalCalories(),
		})
	}
	return out, nil
}

// GetMeal loads one of the user's favorite meals
func (s *FavoriteService) GetMeal(ctx context.Context, userID, id uuid.UUID) (*models.FavoriteMeal, error) {
	var fav models.FavoriteMeal
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&fav).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get favorite meal: %w", err)
	}
	return &fav, nil
}

// DeleteMeal removes one of the user's favorite meals
func (s *FavoriteService) DeleteMeal(ctx context.Context, userID, id uuid.UUID) error {
	return s.deleteOwned(ctx, &models.FavoriteMeal{}, userID, id)
}

// SaveWorkout stores exercises as a favorite workout
func (s *FavoriteService) SaveWorkout(ctx context.Context, userID uuid.UUID, exercises models.WorkoutExercises) (*models.FavoriteWorkout, error) {
	if len(exercises) == 0 {
		return nil, ErrEmptyPlan
	}
	fav := &models.FavoriteWorkout{UserID: userID, Name: exercises[0].Name + " Workout", Exercises: exercises}
	if err := s.db.WithContext(ctx).Create(fav).Error; err != nil {
		return nil, fmt.Errorf("failed to save favorite workout: %w", err)
	}
	return fav, nil
}

// ListWorkouts returns summaries of the user's favorite workouts, oldest first
func (s *FavoriteService) ListWorkouts(ctx context.Context, userID uuid.UUID) ([]WorkoutSummary, error) {
	var favs []models.FavoriteWorkout
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&favs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite workouts: %w", err)
	}

	out := make([]WorkoutSummary, 0, len(favs))
	for _, f := range favs {
		if len(f.Exercises) == 0 {
			continue
		}
		out = append(out, WorkoutSummary{
			ID:            f.ID,
			Name:          f.Exercises[0].Name + " Workout",
			Exercises:     f.Exercises,
			TotalDuration: f.Exercises.TotalDuration(),
		})
	}
	return out, nil
}

// GetWorkout loads one of the user's favorite workouts
func (s *FavoriteService) GetWorkout(ctx context.Context, userID, id uuid.UUID) (*models.FavoriteWorkout, error) {
	var fav models.FavoriteWorkout
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&fav).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get favorite workout: %w", err)
	}
	return &fav, nil
}

// DeleteWorkout removes one of the user's favorite workouts
func (s *FavoriteService) DeleteWorkout(ctx context.Context, userID, id uuid.UUID) error {
	return s.deleteOwned(ctx, &models.FavoriteWorkout{}, userID, id)
}

func (s *FavoriteService) deleteOwned(ctx context.Context, model interface{}, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(model)
	if result.Error != nil {
		return fmt.Errorf("failed to delete favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
