package testhelpers

import (
	"testing"

	"github.com/nutrifit/backend/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestAnswer is the security answer given to every fixture user
const TestAnswer = "blue"

// CreateTestUser creates a user whose password and security answer are hashed at minimum cost
func CreateTestUser(t *testing.T, db *gorm.DB, username, email, password string) *models.User {
	t.Helper()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	answerHash, err := bcrypt.GenerateFromPassword([]byte(TestAnswer), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		AnswerHash:   string(answerHash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestFood adds a catalog food
func CreateTestFood(t *testing.T, db *gorm.DB, name string, calories, grams float64, category string) *models.Food {
	t.Helper()

	food := &models.Food{
		Name:     name,
		Measure:  "1 cup",
		Grams:    grams,
		Calories: calories,
		Category: category,
	}
	require.NoError(t, db.Create(food).Error)
	return food
}

// CreateTestExercise adds a catalog exercise
func CreateTestExercise(t *testing.T, db *gorm.DB, externalID int, name, bodyPart string) *models.Exercise {
	t.Helper()

	exercise := &models.Exercise{
		ExternalID: externalID,
		Name:       name,
		BodyPart:   bodyPart,
		Equipment:  "body weight",
		Target:     "abs",
	}
	require.NoError(t, db.Create(exercise).Error)
	return exercise
}
