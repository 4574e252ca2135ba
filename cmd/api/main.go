package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nutrifit/backend/config"
	"github.com/nutrifit/backend/internal/api"
	"github.com/nutrifit/backend/internal/database"
	"github.com/nutrifit/backend/internal/middleware"
	"github.com/nutrifit/backend/internal/router"
	"github.com/nutrifit/backend/internal/server"
	"github.com/nutrifit/backend/internal/service"
)

const sweepInterval = time.Hour

func main() {
	// Initialize configuration
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

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, falling back to in-memory sessions: %v", err)
		redisClient = nil
	}

	var store service.SessionStore
	if redisClient != nil {
		store = service.NewRedisSessionStore(redisClient, cfg.SessionTTL)
	} else {
		store = service.NewMemorySessionStore(cfg.SessionTTL)
	}
	tokens := service.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL)
	sessions := middleware.NewSessionManager(store, tokens, cfg.SessionCookie, cfg.SecureCookies)

	var publisher service.EventPublisher = service.LogPublisher{}
	if cfg.AMQPURL != "" {
		publisher = service.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue)
	}

	catalog := service.NewCatalogService(db)
	tracking := service.NewTrackingService(db, catalog, publisher, service.Retention{
		Log:      cfg.LogRetention,
		QuickAdd: cfg.QuickAddRetention,
	})
	svc := &api.Services{
		Users:       service.NewUserService(db),
		Catalog:     catalog,
		Preferences: service.NewPreferenceService(db, catalog),
		Plans:       service.NewPlanService(service.NewCompletionClient(cfg)),
		Tracking:    tracking,
		Favorites:   service.NewFavoriteService(db),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tracking.StartSweeper(ctx, sweepInterval)

	limiter := middleware.NewGenerationRateLimiter(redisClient, cfg.GenerationLimit)
	engine, err := router.SetupRouter(svc, sessions, limiter, api.NewHealthHandler(db, redisClient), cfg.AllowedOrigins)
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	srv := server.New(cfg, engine)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", srv.Addr())
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}
	log.Println("Server stopped")
}
