package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/nutrifit/backend/config"
	"github.com/nutrifit/backend/internal/database"
	"github.com/nutrifit/backend/internal/models"
	"github.com/nutrifit/backend/internal/service"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	kind := flag.String("kind", "food", "Catalog to import: food or exercise")
	source := flag.String("source", "", "CSV path or s3://bucket/key")
	fromMongo := flag.Bool("mongo", false, "Import from the legacy MongoDB collections instead of a CSV")
	flag.Parse()

	if *kind != "food" && *kind != "exercise" {
		log.Fatalf("unknown -kind %q: expected food or exercise", *kind)
	}
	if !*fromMongo && *source == "" {
		log.Fatal("either -source or -mongo is required")
	}

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
	catalog := service.NewCatalogService(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var foods []models.Food
	var exercises []models.Exercise
	if *fromMongo {
		foods, exercises, err = loadMongo(ctx, cfg, *kind)
	} else {
		foods, exercises, err = loadCSV(ctx, cfg, *source, *kind)
	}
	if err != nil {
		log.Fatal(err)
	}

	var written int
	if *kind == "food" {
		written, err = catalog.ImportFoods(ctx, foods)
	} else {
		written, err = catalog.ImportExercises(ctx, exercises)
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Imported %d %s rows", written, *kind)
}

func openSource(ctx context.Context, cfg *config.Config, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "s3://") {
		return os.Open(source)
	}
	bucket, key, err := config.ParseS3URI(source)
	if err != nil {
		return nil, err
	}
	s3cfg, err := config.NewS3Config(ctx, cfg.S3Region, bucket)
	if err != nil {
		return nil, err
	}
	return s3cfg.OpenObject(ctx, key)
}

func loadCSV(ctx context.Context, cfg *config.Config, source, kind string) ([]models.Food, []models.Exercise, error) {
	r, err := openSource(ctx, cfg, source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer r.Close()

	if kind == "food" {
		foods, err := readFoods(r)
		return foods, nil, err
	}
	exercises, err := readExercises(r)
	return nil, exercises, err
}

func loadMongo(ctx context.Context, cfg *config.Config, kind string) ([]models.Food, []models.Exercise, error) {
	if cfg.MongoURI == "" {
		return nil, nil, errors.New("ATLAS_URI is not set")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer client.Disconnect(context.Background())

	cursor, err := client.Database(cfg.MongoDatabase).Collection(kind).Find(ctx, bson.M{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query %s collection: %w", kind, err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, nil, fmt.Errorf("failed to read %s collection: %w", kind, err)
	}
	log.Printf("Read %d documents from %s.%s", len(docs), cfg.MongoDatabase, kind)

	var foods []models.Food
	var exercises []models.Exercise
	for i, doc := range docs {
		if kind == "food" {
			f, err := foodFromDoc(doc)
			if err != nil {
				return nil, nil, fmt.Errorf("document %d: %w", i, err)
			}
			if f.Name != "" {
				foods = append(foods, f)
			}
			continue
		}
		ex, err := exerciseFromDoc(doc)
		if err != nil {
			return nil, nil, fmt.Errorf("document %d: %w", i, err)
		}
		if ex.Name != "" {
			exercises = append(exercises, ex)
		}
	}
	return foods, exercises, nil
}
