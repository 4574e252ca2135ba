package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/nutrifit/backend/internal/models"
	"gorm.io/gorm"
)

// PreferenceService edits the include and exclude lists that shape generated plans
type PreferenceService struct {
	db      *gorm.DB
	catalog *CatalogService
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(db *gorm.DB, catalog *CatalogService) *PreferenceService {
	return &PreferenceService{db: db, catalog: catalog}
}

// AddFood puts a catalog food into the user's include or exclude set. Adding
// a food that is already present leaves a single entry.
func (s *PreferenceService) AddFood(ctx context.Context, userID uuid.UUID, mode models.PreferenceMode, foodID uuid.UUID) error {
	if !mode.Valid() {
		return ErrInvalidMode
	}
	food, err := s.catalog.GetFood(ctx, foodID)
	if err != nil {
		return err
	}

	item := food.Item()
	pref := models.FoodPreference{
		UserID:   userID,
		Mode:     mode,
		Food:     item.Food,
		Calories: item.Calories,
		Grams:    item.Grams,
	}
	err = s.db.WithContext(ctx).
		Where(models.FoodPreference{UserID: userID, Mode: mode, Food: item.Food, Calories: item.Calories, Grams: item.Grams}).
		FirstOrCreate(&pref).Error
	if err != nil {
		return fmt.Errorf("failed to add food preference: %w", err)
	}
	return nil
}

// RemoveFood drops the named catalog food from the user's include or exclude set
func (s *PreferenceService) RemoveFood(ctx context.Context, userID uuid.UUID, mode models.PreferenceMode, foodName string) error {
	if !mode.Valid() {
		return ErrInvalidMode
	}
	food, err := s.catalog.FindFoodByName(ctx, foodName)
	if errors.Is(err, ErrNotFound) {
		// The catalog entry may have changed since it was added; fall back to the stored name.
		return s.deleteWhere(ctx, &models.FoodPreference{}, "user_id = ? AND mode = ? AND food = ?", userID, mode, foodName)
	}
	if err != nil {
		return err
	}
	item := food.Item()
	return s.deleteWhere(ctx, &models.FoodPreference{},
		"user_id = ? AND mode = ? AND food = ? AND calories = ? AND grams = ?",
		userID, mode, item.Food, item.Calories, item.Grams)
}

// AddExercise puts a catalog exercise into the user's include or exclude set
func (s *PreferenceService) AddExercise(ctx context.Context, userID uuid.UUID, mode models.PreferenceMode, exerciseID uuid.UUID) error {
	if !mode.Valid() {
		return ErrInvalidMode
	}
	exercise, err := s.catalog.GetExercise(ctx, exerciseID)
	if err != nil {
		return err
	}

	pref := models.ExercisePreference{
		UserID:   userID,
		Mode:     mode,
		Name:     exercise.Name,
		BodyPart: exercise.BodyPart,
	}
	err = s.db.WithContext(ctx).
		Where(models.ExercisePreference{UserID: userID, Mode: mode, Name: exercise.Name, BodyPart: exercise.BodyPart}).
		FirstOrCreate(&pref).Error
	if err != nil {
		return fmt.Errorf("failed to add exercise preference: %w", err)
	}
	return nil
}

// RemoveExercise drops the named exercise from the user's include or exclude set
func (s *PreferenceService) RemoveExercise(ctx context.Context, userID uuid.UUID, mode models.PreferenceMode, name string) error {
	if !mode.Valid() {
		return ErrInvalidMode
	}
	return s.deleteWhere(ctx, &models.ExercisePreference{}, "user_id = ? AND mode = ? AND name = ?", userID, mode, name)
}

// ToggleFoodTag adds the category to the chosen list, or removes it if already present
func (s *PreferenceService) ToggleFoodTag(ctx context.Context, userID uuid.UUID, mode models.PreferenceMode, tag string) error {
	if !contains(models.FoodCategories, tag) {
		return fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	column := "food_tag_include"
	if mode == models.Exclude {
		column = "food_tag_exclude"
	}
	return s.toggleTag(ctx, userID, mode, column, tag)
}

// ToggleExerciseTag adds the body part to the chosen list, or removes it if already present
func (s *PreferenceService) ToggleExerciseTag(ctx context.Context, userID uuid.UUID, mode models.PreferenceMode, tag string) error {
	if !contains(models.ExerciseCategories, tag) {
		return fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	column := "exercise_tag_include"
	if mode == models.Exclude {
		column = "exercise_tag_exclude"
	}
	return s.toggleTag(ctx, userID, mode, column, tag)
}

func (s *PreferenceService) toggleTag(ctx context.Context, userID uuid.UUID, mode models.PreferenceMode, column, tag string) error {
	if !mode.Valid() {
		return ErrInvalidMode
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Select("id", column).First(&user, "id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load tags: %w", err)
		}

		current := tagsFor(&user, column)
		next := models.StringList{}
		removed := false
		for _, t := range current {
			if t == tag {
				removed = true
				continue
			}
			next = append(next, t)
		}
		if !removed {
			next = append(next, tag)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", userID).Update(column, next).Error; err != nil {
			return fmt.Errorf("failed to update tags: %w", err)
		}
		log.Printf("[Preferences] %s %s tag %q for user %s", map[bool]string{true: "removed", false: "added"}[removed], mode, tag, userID)
		return nil
	})
}

func tagsFor(u *models.User, column string) models.StringList {
	switch column {
	case "food_tag_include":
		return u.FoodTagInclude
	case "food_tag_exclude":
		return u.FoodTagExclude
	case "exercise_tag_include":
		return u.ExerciseTagInclude
	default:
		return u.ExerciseTagExclude
	}
}

func (s *PreferenceService) deleteWhere(ctx context.Context, model interface{}, query string, args ...interface{}) error {
	if err := s.db.WithContext(ctx).Where(query, args...).Delete(model).Error; err != nil {
		return fmt.Errorf("failed to remove preference: %w", err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
