package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nutrifit/backend/internal/models"
	"gorm.io/gorm"
)

// ParseFilter maps a filter type to how far back a log listing reaches
func ParseFilter(filterType string) (time.Duration, error) {
	switch filterType {
	case "day":
		return 24 * time.Hour, nil
	case "week":
		return 7 * 24 * time.Hour, nil
	case "month":
		return 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidFilter, filterType)
	}
}

// Retention controls how long logged entries live
type Retention struct {
	Log      time.Duration
	QuickAdd time.Duration
}

// TrackingService records logged meals and workouts
type TrackingService struct {
	db        *gorm.DB
	catalog   *CatalogService
	publisher EventPublisher
	retention Retention
	now       func() time.Time
}

// NewTrackingService creates a new TrackingService
func NewTrackingService(db *gorm.DB, catalog *CatalogService, publisher EventPublisher, retention Retention) *TrackingService {
	if publisher == nil {
		publisher = LogPublisher{}
	}
	return &TrackingService{
		db:        db,
		catalog:   catalog,
		publisher: publisher,
		retention: retention,
		now:       time.Now,
	}
}

// LogMeal stores a meal and resets the user's calorie target to the default
func (s *TrackingService) LogMeal(ctx context.Context, userID uuid.UUID, items models.MealItems) (*models.Meal, error) {
	meal, err := s.createMeal(ctx, userID, items, s.retention.Log)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("calorie_target", models.DefaultCalorieTarget).Error
	if err != nil {
		return nil, fmt.Errorf("failed to reset calorie target: %w", err)
	}
	return meal, nil
}

// QuickAddMeal logs a meal made of a single catalog food
func (s *TrackingService) QuickAddMeal(ctx context.Context, userID, foodID uuid.UUID) (*models.Meal, error) {
	food, err := s.catalog.GetFood(ctx, foodID)
	if err != nil {
		return nil, err
	}
	return s.createMeal(ctx, userID, models.MealItems{food.Item()}, s.retention.QuickAdd)
}

func (s *TrackingService) createMeal(ctx context.Context, userID uuid.UUID, items models.MealItems, ttl time.Duration) (*models.Meal, error) {
	if len(items) == 0 {
		return nil, ErrEmptyPlan
	}
	now := s.now()
	meal := &models.Meal{
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		UserID:    userID,
		Name:      items[0].Food,
		Items:     items,
	}
	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, fmt.Errorf("failed to log meal: %w", err)
	}
	log.Printf("[Tracking] Logged meal %s (%d calories) for user %s", meal.ID, meal.TotalCalories, userID)

	s.publish(ctx, &MealLoggedEvent{
		Type:          EventMealLogged,
		UserID:        userID,
		MealID:        meal.ID,
		Name:          meal.Name,
		TotalCalories: meal.TotalCalories,
		LoggedAt:      now,
	})
	return meal, nil
}

// ListMeals returns the user's unexpired meals, newest first. A positive
// window limits the result to meals logged within it.
func (s *TrackingService) ListMeals(ctx context.Context, userID uuid.UUID, window time.Duration) ([]models.Meal, error) {
	var meals []models.Meal
	if err := s.logQuery(ctx, userID, window).Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

// DeleteMeal removes one of the user's logged meals
func (s *TrackingService) DeleteMeal(ctx context.Context, userID, mealID uuid.UUID) error {
	return s.deleteOwned(ctx, &models.Meal{}, userID, mealID)
}

// LogWorkout stores a workout
func (s *TrackingService) LogWorkout(ctx context.Context, userID uuid.UUID, exercises models.WorkoutExercises) (*models.Workout, error) {
	return s.createWorkout(ctx, userID, exercises, s.retention.Log)
}

// QuickAddWorkout logs a workout of one catalog exercise for minutes
func (s *TrackingService) QuickAddWorkout(ctx context.Context, userID, exerciseID uuid.UUID, minutes int) (*models.Workout, error) {
	exercise, err := s.catalog.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if minutes <= 0 {
		minutes = models.DefaultDurationTarget
	}
	exercises := models.WorkoutExercises{{Name: exercise.Name, Duration: minutes, BodyPart: exercise.BodyPart}}
	return s.createWorkout(ctx, userID, exercises, s.retention.QuickAdd)
}

func (s *TrackingService) createWorkout(ctx context.Context, userID uuid.UUID, exercises models.WorkoutExercises, ttl time.Duration) (*models.Workout, error) {
	if len(exercises) == 0 {
		return nil, ErrEmptyPlan
	}
	now := s.now()
	workout := &models.Workout{
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		UserID:    userID,
		Name:      exercises[0].Name + " Workout",
		Exercises: exercises,
	}
	if err := s.db.WithContext(ctx).Create(workout).Error; err != nil {
		return nil, fmt.Errorf("failed to log workout: %w", err)
	}
	log.Printf("[Tracking] Logged workout %s (%d minutes) for user %s", workout.ID, workout.TotalDuration, userID)

	s.publish(ctx, &WorkoutLoggedEvent{
		Type:          EventWorkoutLogged,
		UserID:        userID,
		WorkoutID:     workout.ID,
		Name:          workout.Name,
		TotalDuration: workout.TotalDuration,
		BodyParts:     exercises.BodyParts(),
		LoggedAt:      now,
	})
	return workout, nil
}

// ListWorkouts returns the user's unexpired workouts, newest first
func (s *TrackingService) ListWorkouts(ctx context.Context, userID uuid.UUID, window time.Duration) ([]models.Workout, error) {
	var workouts []models.Workout
	if err := s.logQuery(ctx, userID, window).Find(&workouts).Error; err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	return workouts, nil
}

// DeleteWorkout removes one of the user's logged workouts
func (s *TrackingService) DeleteWorkout(ctx context.Context, userID, workoutID uuid.UUID) error {
	return s.deleteOwned(ctx, &models.Workout{}, userID, workoutID)
}

func (s *TrackingService) logQuery(ctx context.Context, userID uuid.UUID, window time.Duration) *gorm.DB {
	now := s.now()
	q := s.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, now)
	if window > 0 {
		q = q.Where("created_at >= ?", now.Add(-window))
	}
	return q.Order("created_at DESC")
}

func (s *TrackingService) deleteOwned(ctx context.Context, model interface{}, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(model)
	if result.Error != nil {
		return fmt.Errorf("failed to delete log: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TrackingService) publish(ctx context.Context, event interface{}) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("[Tracking] Failed to publish %s: %v", eventType(event), err)
	}
}

// PurgeExpired deletes every log past its expiry and returns how many rows went
func (s *TrackingService) PurgeExpired(ctx context.Context) (int64, error) {
	now := s.now()
	var total int64
	for _, model := range []interface{}{&models.Meal{}, &models.Workout{}} {
		result := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(model)
		if result.Error != nil {
			return total, fmt.Errorf("failed to purge expired logs: %w", result.Error)
		}
		total += result.RowsAffected
	}
	return total, nil
}

// StartSweeper purges expired logs every interval until ctx is cancelled
func (s *TrackingService) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.PurgeExpired(ctx)
				if err != nil {
					log.Printf("[Tracking] Sweep failed: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("[Tracking] Swept %d expired logs", n)
				}
			}
		}
	}()
}
