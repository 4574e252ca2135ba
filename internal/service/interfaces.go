package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nutrifit/backend/internal/models"
)

// IUserService defines the interface for account operations
type IUserService interface {
	Signup(ctx context.Context, username, email, password, answer string) (*models.User, error)
	Authenticate(ctx context.Context, handle, password string) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyAnswer(ctx context.Context, userID uuid.UUID, answer string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, password string) error
	SetCalorieTarget(ctx context.Context, userID uuid.UUID, calories int) error
	SetDurationTarget(ctx context.Context, userID uuid.UUID, minutes int) error
}

// ICatalogService defines the interface for catalog lookups
type ICatalogService interface {
	SearchFoods(ctx context.Context, q string) ([]models.Food, error)
	GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error)
	SearchExercises(ctx context.Context, q string) ([]models.Exercise, error)
	GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error)
}

// IPreferenceService defines the interface for plan filter edits
type IPreferenceService interface {
	AddFood(ctx context.Context, userID uuid.UUID, mode models.PreferenceMode, foodID uuid.UUID) error
	RemoveFood(ctx context.Context, userID uuid.UUID, mode models.PreferenceMode, foodName string) error
	AddExercise(ctx context.Context, userID uuid.UUID, mode models.PreferenceMode, exerciseID uuid.UUID) error
	RemoveExercise(ctx context.Context, userID uuid.UUID, mode models.PreferenceMode, name string) error
	ToggleFoodTag(ctx context.Context, userID uuid.UUID, mode models.PreferenceMode, tag string) error
	ToggleExerciseTag(ctx context.Context, userID uuid.UUID, mode models.PreferenceMode, tag string) error
}

// IPlanService defines the interface for plan generation
type IPlanService interface {
	GenerateMeal(ctx context.Context, user *models.User, calories int) (models.MealItems, error)
	GenerateWorkout(ctx context.Context, user *models.User, duration int) (models.WorkoutExercises, error)
}

// ITrackingService defines the interface for logged meals and workouts
type ITrackingService interface {
	LogMeal(ctx context.Context, userID uuid.UUID, items models.MealItems) (*models.Meal, error)
	QuickAddMeal(ctx context.Context, userID, foodID uuid.UUID) (*models.Meal, error)
	ListMeals(ctx context.Context, userID uuid.UUID, window time.Duration) ([]models.Meal, error)
	DeleteMeal(ctx context.Context, userID, mealID uuid.UUID) error
	LogWorkout(ctx context.Context, userID uuid.UUID, exercises models.WorkoutExercises) (*models.Workout, error)
	QuickAddWorkout(ctx context.Context, userID, exerciseID uuid.UUID, minutes int) (*models.Workout, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID, window time.Duration) ([]models.Workout, error)
	DeleteWorkout(ctx context.Context, userID, workoutID uuid.UUID) error
}

// IFavoriteService defines the interface for saved plans
type IFavoriteService interface {
	SaveMeal(ctx context.Context, userID uuid.UUID, items models.MealItems) (*models.FavoriteMeal, error)
	ListMeals(ctx context.Context, userID uuid.UUID) ([]MealSummary, error)
	GetMeal(ctx context.Context, userID, id uuid.UUID) (*models.FavoriteMeal, error)
	DeleteMeal(ctx context.Context, userID, id uuid.UUID) error
	SaveWorkout(ctx context.Context, userID uuid.UUID, exercises models.WorkoutExercises) (*models.FavoriteWorkout, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID) ([]WorkoutSummary, error)
	GetWorkout(ctx context.Context, userID, id uuid.UUID) (*models.FavoriteWorkout, error)
	DeleteWorkout(ctx context.Context, userID, id uuid.UUID) error
}

var (
	_ IUserService       = (*UserService)(nil)
	_ ICatalogService    = (*CatalogService)(nil)
	_ IPreferenceService = (*PreferenceService)(nil)
	_ IPlanService       = (*PlanService)(nil)
	_ ITrackingService   = (*TrackingService)(nil)
	_ IFavoriteService   = (*FavoriteService)(nil)
	_ Completer          = (*CompletionClient)(nil)
	_ EventPublisher     = (*AMQPPublisher)(nil)
	_ EventPublisher     = LogPublisher{}
)
