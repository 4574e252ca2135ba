package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	"github.com/nutrifit/backend/internal/database"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", envOr("MIGRATIONS_DIR", "migrations"), "Directory holding the *.sql migrations")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		log.Fatalf("failed to create migrations table: %v", err)
	}

	if *rollback {
		if err := rollbackLast(db, *dir); err != nil {
			log.Fatal(err)
		}
		return
	}

	files, err := database.MigrationFiles(*dir)
	if err != nil {
		log.Fatal(err)
	}

	applied := 0
	for _, name := range files {
		var exists bool
		if err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations WHERE name = $1)", name).Scan(&exists); err != nil {
			log.Fatalf("failed to check migration status: %v", err)
		}
		if exists {
			log.Printf("Skipping migration %s (already applied)", name)
			continue
		}

		content, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			log.Fatalf("failed to read migration file %s: %v", name, err)
		}

		if err := inTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(string(content)); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			if _, err := tx.Exec("INSERT INTO migrations (name) VALUES ($1)", name); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", name, err)
			}
			return nil
		}); err != nil {
			log.Fatal(err)
		}

		log.Printf("Applied migration %s", name)
		applied++
	}
	log.Printf("Migrations complete (%d applied)", applied)
}

func rollbackLast(db *sql.DB, dir string) error {
	var name string
	err := db.QueryRow("SELECT name FROM migrations ORDER BY applied_at DESC, id DESC LIMIT 1").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("no migrations to rollback")
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	rollbackPath := filepath.Join(dir, strings.TrimSuffix(name, ".sql")+"_rollback.sql")
	content, err := os.ReadFile(rollbackPath)
	if err != nil {
		return fmt.Errorf("failed to read rollback file: %w", err)
	}

	if err := inTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute rollback %s: %w", rollbackPath, err)
		}
		if _, err := tx.Exec("DELETE FROM migrations WHERE name = $1", name); err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}

	log.Printf("Rolled back migration %s", name)
	return nil
}

func inTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
