package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nutrifit/backend/internal/models"
	"github.com/nutrifit/backend/internal/service"
	"github.com/nutrifit/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupUserService(t *testing.T) (*service.UserService, *gorm.DB) {
	db := testhelpers.SetupTestDB(t)
	return service.NewUserService(db).WithCost(bcrypt.MinCost), db
}

func TestSignup(t *testing.T) {
	svc, db := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "jdoe", "jdoe@example.com", "hunter2!", "blue")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "hunter2!", user.PasswordHash)
	assert.NotEqual(t, "blue", user.AnswerHash)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "jdoe", stored.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.AnswerHash), []byte("blue")))
}

func TestSignupReportsTakenUsernameFirst(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "jdoe", "jdoe@example.com", "hunter2!", "blue")
	require.NoError(t, err)

	t.Run("username and email both taken", func(t *testing.T) {
		_, err := svc.Signup(ctx, "jdoe", "jdoe@example.com", "other", "red")
		var exists *service.UserExistsError
		require.True(t, errors.As(err, &exists))
		assert.Equal(t, "id", exists.Field)
		assert.ErrorIs(t, err, service.ErrUserExists)
	})

	t.Run("email taken", func(t *testing.T) {
		_, err := svc.Signup(ctx, "someone", "jdoe@example.com", "other", "red")
		var exists *service.UserExistsError
		require.True(t, errors.As(err, &exists))
		assert.Equal(t, "email", exists.Field)
	})
}

func TestSignupKeepsUsernamesAndEmailsApart(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@example.com", "alice-pw1", "blue")
	require.NoError(t, err)

	t.Run("username is an existing email", func(t *testing.T) {
		_, err := svc.Signup(ctx, "alice@example.com", "mallory@example.com", "mallory1", "red")
		var exists *service.UserExistsError
		require.True(t, errors.As(err, &exists))
		assert.Equal(t, "id", exists.Field)
	})

	t.Run("email is an existing username", func(t *testing.T) {
		_, err := svc.Signup(ctx, "mallory", "alice", "mallory1", "red")
		var exists *service.UserExistsError
		require.True(t, errors.As(err, &exists))
		assert.Equal(t, "email", exists.Field)
	})
}

func TestSignupLosesRaceForUsername(t *testing.T) {
	svc, db := setupUserService(t)
	ctx := context.Background()

	// Another signup commits the same username after the availability check
	raced := false
	require.NoError(t, db.Callback().Create().Before("gorm:begin_transaction").Register("test:concurrent_signup", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "users" {
			return
		}
		raced = true
		testhelpers.CreateTestUser(t, db, "racer", "first@example.com", "hunter2!")
	}))

	_, err := svc.Signup(ctx, "racer", "second@example.com", "hunter2!", "blue")
	require.True(t, raced)
	var exists *service.UserExistsError
	require.True(t, errors.As(err, &exists), "got %v", err)
	assert.Equal(t, "id", exists.Field)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "racer").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthenticatePrefersEmailMatch(t *testing.T) {
	svc, db := setupUserService(t)
	ctx := context.Background()

	alice := testhelpers.CreateTestUser(t, db, "alice", "alice@example.com", "alice-pw1")
	// Inserted directly; Signup rejects this username
	mallory := testhelpers.CreateTestUser(t, db, "alice@example.com", "mallory@example.com", "mallory1")

	for i := 0; i < 10; i++ {
		user, err := svc.Authenticate(ctx, "alice@example.com", "alice-pw1")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)
	}

	_, err := svc.Authenticate(ctx, "alice@example.com", "mallory1")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	user, err := svc.Authenticate(ctx, "mallory@example.com", "mallory1")
	require.NoError(t, err)
	assert.Equal(t, mallory.ID, user.ID)
}

func TestAuthenticate(t *testing.T) {
	svc, db := setupUserService(t)
	ctx := context.Background()
	testUser := testhelpers.CreateTestUser(t, db, "jdoe", "jdoe@example.com", "hunter2!")

	t.Run("by email", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "jdoe@example.com", "hunter2!")
		require.NoError(t, err)
		assert.Equal(t, testUser.ID, user.ID)
	})

	t.Run("by username", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "jdoe", "hunter2!")
		require.NoError(t, err)
		assert.Equal(t, testUser.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "jdoe", "nope")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ghost@example.com", "hunter2!")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestPasswordReset(t *testing.T) {
	svc, db := setupUserService(t)
	ctx := context.Background()
	testUser := testhelpers.CreateTestUser(t, db, "jdoe", "jdoe@example.com", "hunter2!")

	found, err := svc.FindByEmail(ctx, "jdoe@example.com")
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, found.ID)

	_, err = svc.FindByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, service.ErrNotFound)

	assert.ErrorIs(t, svc.VerifyAnswer(ctx, testUser.ID, "green"), service.ErrIncorrectAnswer)
	require.NoError(t, svc.VerifyAnswer(ctx, testUser.ID, testhelpers.TestAnswer))

	require.NoError(t, svc.ChangePassword(ctx, testUser.ID, "newpass1"))
	_, err = svc.Authenticate(ctx, "jdoe", "hunter2!")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "jdoe", "newpass1")
	assert.NoError(t, err)
}

func TestTargets(t *testing.T) {
	svc, db := setupUserService(t)
	ctx := context.Background()
	testUser := testhelpers.CreateTestUser(t, db, "jdoe", "jdoe@example.com", "hunter2!")

	require.NoError(t, svc.SetCalorieTarget(ctx, testUser.ID, 800))
	require.NoError(t, svc.SetDurationTarget(ctx, testUser.ID, 25))

	user, err := svc.GetUser(ctx, testUser.ID)
	require.NoError(t, err)
	assert.Equal(t, 800, user.Calories())
	assert.Equal(t, 25, user.Minutes())

	assert.ErrorIs(t, svc.SetCalorieTarget(ctx, uuid.New(), 800), service.ErrNotFound)
	_, err = svc.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}
