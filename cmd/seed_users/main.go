package main

import (
	"context"
	"errors"
	"log"

	"github.com/nutrifit/backend/config"
	"github.com/nutrifit/backend/internal/database"
	"github.com/nutrifit/backend/internal/models"
	"github.com/nutrifit/backend/internal/service"
)

// Test accounts share one password and security answer
const (
	password = "testpassword123"
	answer   = "blue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	testUsers := []struct {
		username string
		email    string
		calories int
		duration int
		include  []string
		exclude  []string
	}{
		{username: "johndoe", email: "john.doe@example.com"},
		{username: "janesmith", email: "jane.smith@example.com", calories: 800, duration: 30, include: []string{"Fruits A-F"}},
		{username: "bobwilson", email: "bob.wilson@example.com", exclude: []string{"Meat, Poultry", "Fish, Seafood"}},
		{username: "alicecooper", email: "alice.cooper@example.com", duration: 45},
	}

	ctx := context.Background()
	users := service.NewUserService(db)
	prefs := service.NewPreferenceService(db, service.NewCatalogService(db))

	log.Println("Creating test users...")

	for _, u := range testUsers {
		user, err := users.Signup(ctx, u.username, u.email, password, answer)
		if errors.Is(err, service.ErrUserExists) {
			log.Printf("User %s already exists, skipping...", u.email)
			continue
		}
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", u.email, err)
		}

		if u.calories > 0 {
			if err := users.SetCalorieTarget(ctx, user.ID, u.calories); err != nil {
				log.Fatalf("Failed to set calorie target for %s: %v", u.email, err)
			}
		}
		if u.duration > 0 {
			if err := users.SetDurationTarget(ctx, user.ID, u.duration); err != nil {
				log.Fatalf("Failed to set duration target for %s: %v", u.email, err)
			}
		}
		if err := toggleTags(ctx, prefs, user, models.Include, u.include); err != nil {
			log.Fatalf("Failed to set tags for %s: %v", u.email, err)
		}
		if err := toggleTags(ctx, prefs, user, models.Exclude, u.exclude); err != nil {
			log.Fatalf("Failed to set tags for %s: %v", u.email, err)
		}

		log.Printf("Created user %s (%s)", u.username, u.email)
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		log.Fatalf("Failed to count users: %v", err)
	}
	log.Printf("Done. %d users in database. Password for all test users: %s", count, password)
}

func toggleTags(ctx context.Context, prefs *service.PreferenceService, user *models.User, mode models.PreferenceMode, tags []string) error {
	for _, tag := range tags {
		if err := prefs.ToggleFoodTag(ctx, user.ID, mode, tag); err != nil {
			return err
		}
	}
	return nil
}
