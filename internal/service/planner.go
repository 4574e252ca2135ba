package service

import (
	"context"
	"log"

	"github.com/nutrifit/backend/internal/models"
)

// Completer returns the completion API's reply to a prompt
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PlanService turns a user's targets and filters into generated plans
type PlanService struct {
	completer Completer
}

// NewPlanService creates a new PlanService
func NewPlanService(completer Completer) *PlanService {
	return &PlanService{completer: completer}
}

// GenerateMeal asks for a meal near calories that respects the user's filters
func (s *PlanService) GenerateMeal(ctx context.Context, user *models.User, calories int) (models.MealItems, error) {
	if calories <= 0 {
		calories = user.Calories()
	}
	prompt := BuildMealPrompt(calories, user)

	log.Printf("[MealPlan] Requesting %d calorie meal for user %s", calories, user.ID)
	content, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		log.Printf("[MealPlan] Completion failed: %v", err)
		return nil, err
	}

	items, err := ParseMealPlan(content)
	if err != nil {
		log.Printf("[MealPlan] Could not parse reply: %v", err)
		return nil, err
	}
	log.Printf("[MealPlan] Generated %d items totalling %d calories", len(items), items.TotalCalories())
	return items, nil
}

// GenerateWorkout asks for a workout of roughly duration minutes
func (s *PlanService) GenerateWorkout(ctx context.Context, user *models.User, duration int) (models.WorkoutExercises, error) {
	if duration <= 0 {
		duration = user.Minutes()
	}
	prompt := BuildWorkoutPrompt(duration, user)

	log.Printf("[WorkoutPlan] Requesting %d minute workout for user %s", duration, user.ID)
	content, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		log.Printf("[WorkoutPlan] Completion failed: %v", err)
		return nil, err
	}

	exercises, err := ParseWorkoutPlan(content)
	if err != nil {
		log.Printf("[WorkoutPlan] Could not parse reply: %v", err)
		return nil, err
	}
	log.Printf("[WorkoutPlan] Generated %d exercises totalling %d minutes", len(exercises), exercises.TotalDuration())
	return exercises, nil
}
