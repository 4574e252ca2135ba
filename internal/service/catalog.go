package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nutrifit/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const searchLimit = 50

// CatalogService reads and imports the food and exercise catalogs
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// likePattern turns user input into a literal, case-insensitive substring pattern
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}

// SearchFoods finds catalog foods whose name contains q
func (s *CatalogService) SearchFoods(ctx context.Context, q string) ([]models.Food, error) {
	var foods []models.Food
	err := s.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(q)).
		Order("name").
		Limit(searchLimit).
		Find(&foods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}
	return foods, nil
}

// GetFood loads a catalog food by id
func (s *CatalogService) GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	var food models.Food
	err := s.db.WithContext(ctx).First(&food, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get food: %w", err)
	}
	return &food, nil
}

// FindFoodByName loads a catalog food by its exact name
func (s *CatalogService) FindFoodByName(ctx context.Context, name string) (*models.Food, error) {
	var food models.Food
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find food: %w", err)
	}
	return &food, nil
}

// SearchExercises finds catalog exercises whose name contains q
func (s *CatalogService) SearchExercises(ctx context.Context, q string) ([]models.Exercise, error) {
	var exercises []models.Exercise
	err := s.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(q)).
		Order("name").
		Limit(searchLimit).
		Find(&exercises).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search exercises: %w", err)
	}
	return exercises, nil
}

// GetExercise loads a catalog exercise by id
func (s *CatalogService) GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error) {
	var exercise models.Exercise
	err := s.db.WithContext(ctx).First(&exercise, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}
	return &exercise, nil
}

// FindExerciseByName loads the first catalog exercise with the exact name
func (s *CatalogService) FindExerciseByName(ctx context.Context, name string) (*models.Exercise, error) {
	var exercise models.Exercise
	err := s.db.WithContext(ctx).Where("name = ?", name).Order("external_id").First(&exercise).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find exercise: %w", err)
	}
	return &exercise, nil
}

// ImportFoods upserts foods keyed on name and returns how many rows were written
func (s *CatalogService) ImportFoods(ctx context.Context, foods []models.Food) (int, error) {
	// A batch may not touch the same conflict key twice; the last row wins.
	index := make(map[string]int, len(foods))
	unique := make([]models.Food, 0, len(foods))
	for _, f := range foods {
		if i, ok := index[f.Name]; ok {
			unique[i] = f
			continue
		}
		index[f.Name] = len(unique)
		unique = append(unique, f)
	}
	foods = unique

	if len(foods) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"measure", "grams", "calories", "protein", "fat", "sat_fat", "fiber", "carbs", "category", "updated_at",
		}),
	}).CreateInBatches(foods, 200)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to import foods: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

// ImportExercises upserts exercises keyed on their external id, or on name when it is zero
func (s *CatalogService) ImportExercises(ctx context.Context, exercises []models.Exercise) (int, error) {
	written := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range exercises {
			ex := exercises[i]

			var existing models.Exercise
			q := tx.Model(&models.Exercise{})
			if ex.ExternalID != 0 {
				q = q.Where("external_id = ?", ex.ExternalID)
			} else {
				q = q.Where("name = ?", ex.Name)
			}
			err := q.First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&ex).Error; err != nil {
					return fmt.Errorf("failed to create exercise %q: %w", ex.Name, err)
				}
			case err != nil:
				return fmt.Errorf("failed to look up exercise %q: %w", ex.Name, err)
			default:
				if err := tx.Model(&existing).Updates(map[string]interface{}{
					"name":      ex.Name,
					"body_part": ex.BodyPart,
					"equipment": ex.Equipment,
					"gif_url":   ex.GifURL,
					"target":    ex.Target,
				}).Error; err != nil {
					return fmt.Errorf("failed to update exercise %q: %w", ex.Name, err)
				}
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}
