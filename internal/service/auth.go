package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/nutrifit/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService manages accounts, credentials and plan targets
type UserService struct {
	db   *gorm.DB
	cost int
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost, which keeps tests fast
func (s *UserService) WithCost(cost int) *UserService {
	s.cost = cost
	return s
}

// Signup creates an account. A taken username is reported before a taken
// email. Usernames and emails share one namespace.
func (s *UserService) Signup(ctx context.Context, username, email, password, answer string) (*models.User, error) {
	db := s.db.WithContext(ctx)

	if err := s.checkAvailable(db, username, email); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	answerHash, err := bcrypt.GenerateFromPassword([]byte(answer), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash answer: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		AnswerHash:   string(answerHash),
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent signup for the same handle
			if taken := s.checkAvailable(db, username, email); taken != nil {
				return nil, taken
			}
			return nil, &UserExistsError{Field: "id"}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[Auth] Created user %s", user.ID)
	return user, nil
}

// checkAvailable returns a UserExistsError when username or email is already
// in use as either an account's username or its email.
func (s *UserService) checkAvailable(db *gorm.DB, username, email string) error {
	checks := []struct {
		field string
		query string
		value string
	}{
		{"id", "username = ? OR email = ?", username},
		{"email", "email = ? OR username = ?", email},
	}
	for _, c := range checks {
		var count int64
		if err := db.Model(&models.User{}).Where(c.query, c.value, c.value).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check %s: %w", c.field, err)
		}
		if count > 0 {
			return &UserExistsError{Field: c.field}
		}
	}
	return nil
}

// Authenticate checks a password against the account identified by email,
// falling back to username when no account has that email.
func (s *UserService) Authenticate(ctx context.Context, handle, password string) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	err := db.Where("email = ?", handle).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Where("username = ?", handle).First(&user).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetUser loads a user with its food and exercise preferences
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("FoodPreferences", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("ExercisePreferences", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// FindByEmail looks up the account used for a password reset
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// VerifyAnswer compares a security answer with the stored hash
func (s *UserService) VerifyAnswer(ctx context.Context, userID uuid.UUID, answer string) error {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "answer_hash").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.AnswerHash), []byte(answer)); err != nil {
		return ErrIncorrectAnswer
	}
	return nil
}

// ChangePassword replaces the password hash
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.updateColumn(ctx, userID, "password_hash", string(hash))
}

// SetCalorieTarget stores the calories requested for the next generated meal
func (s *UserService) SetCalorieTarget(ctx context.Context, userID uuid.UUID, calories int) error {
	return s.updateColumn(ctx, userID, "calorie_target", calories)
}

// SetDurationTarget stores the minutes requested for the next generated workout
func (s *UserService) SetDurationTarget(ctx context.Context, userID uuid.UUID, minutes int) error {
	return s.updateColumn(ctx, userID, "duration_target", minutes)
}

func (s *UserService) updateColumn(ctx context.Context, userID uuid.UUID, column string, value interface{}) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("failed to update %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
