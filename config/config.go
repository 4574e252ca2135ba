package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver      string
	DBDSN         string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	MigrationsDir string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Session configuration
	SessionSecret string
	SessionTTL    time.Duration
	SessionCookie string
	SecureCookies bool

	// Completion API configuration
	CompletionAPIKey      string
	CompletionAPIURL      string
	CompletionModel       string
	CompletionOrg         string
	CompletionTemperature float64
	CompletionTimeout     time.Duration

	// HTTP policy
	AllowedOrigins  []string
	GenerationLimit int

	// Retention of logged meals and workouts
	LogRetention      time.Duration
	QuickAddRetention time.Duration

	// Event publishing
	AMQPURL   string
	AMQPQueue string

	// Catalog import sources
	S3Region      string
	S3Bucket      string
	MongoURI      string
	MongoDatabase string
}

// Default values shared by every environment
const (
	DefaultCompletionURL   = "https://api.openai.com/v1/chat/completions"
	DefaultCompletionModel = "gpt-3.5-turbo"
	DefaultSessionCookie   = "nutrifit_session"
	DefaultAMQPQueue       = "nutrifit.logs"
	DefaultMongoDatabase   = "NutriFit"
)

// DefaultCompletionTemperature applies only when GPT_TEMPERATURE is unset, so 0 stays 0
const DefaultCompletionTemperature = 0.7

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	// Load configuration based on environment
	switch env {
	case CI:
		loadFrom(cfg, os.Getenv)
	case Development, Test:
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		loadFrom(cfg, os.Getenv)
	case Production:
		loadFrom(cfg, secretOrEnv)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	applyDefaults(cfg, env)

	// Validate the configuration
	if err := ValidateConfig(cfg, env); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFrom fills cfg using lookup, which receives the environment variable name
func loadFrom(cfg *Config, lookup func(string) string) {
	cfg.ServerPort = lookup("SERVER_PORT")
	cfg.ServerHost = lookup("SERVER_HOST")

	cfg.DBDriver = lookup("DB_DRIVER")
	cfg.DBDSN = lookup("DATABASE_URL")
	cfg.DBHost = lookup("DB_HOST")
	cfg.DBPort = lookup("DB_PORT")
	cfg.DBUser = lookup("DB_USER")
	cfg.DBPassword = lookup("DB_PASSWORD")
	cfg.DBName = lookup("DB_NAME")
	cfg.DBSSLMode = lookup("DB_SSL_MODE")
	cfg.MigrationsDir = lookup("MIGRATIONS_DIR")

	cfg.RedisHost = lookup("REDIS_HOST")
	cfg.RedisPort = lookup("REDIS_PORT")
	cfg.RedisPassword = lookup("REDIS_PASSWORD")
	cfg.RedisDB = atoi(lookup("REDIS_DB"), 0)
	cfg.RedisURL = lookup("REDIS_URL")

	cfg.SessionSecret = lookup("SESSION_KEY")
	cfg.SessionTTL = duration(lookup("SESSION_TTL"), 0)
	cfg.SessionCookie = lookup("SESSION_COOKIE")
	cfg.SecureCookies = lookup("SECURE_COOKIES") == "true"

	cfg.CompletionAPIKey = lookup("GPT_API_KEY")
	cfg.CompletionAPIURL = lookup("GPT_API_URL")
	cfg.CompletionModel = lookup("GPT_MODEL")
	cfg.CompletionOrg = lookup("GPT_ORG_ID")
	cfg.CompletionTemperature = atof(lookup("GPT_TEMPERATURE"), DefaultCompletionTemperature)
	cfg.CompletionTimeout = duration(lookup("GPT_TIMEOUT"), 0)

	if origins := lookup("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	cfg.GenerationLimit = atoi(lookup("GENERATION_LIMIT"), 0)

	cfg.LogRetention = duration(lookup("LOG_RETENTION"), 0)
	cfg.QuickAddRetention = duration(lookup("QUICK_ADD_RETENTION"), 0)

	cfg.AMQPURL = lookup("RABBITMQ_URL")
	cfg.AMQPQueue = lookup("RABBITMQ_QUEUE")

	cfg.S3Region = lookup("AWS_REGION")
	cfg.S3Bucket = lookup("S3_BUCKET_NAME")
	cfg.MongoURI = lookup("ATLAS_URI")
	cfg.MongoDatabase = lookup("MONGO_DATABASE")
}

func applyDefaults(cfg *Config, env Environment) {
	cfg.ServerPort = orDefault(cfg.ServerPort, "3000")
	cfg.ServerHost = orDefault(cfg.ServerHost, "0.0.0.0")

	if cfg.DBDriver == "" {
		if env == Production || cfg.DBDSN != "" || cfg.DBHost != "" {
			cfg.DBDriver = "postgres"
		} else {
			cfg.DBDriver = "sqlite"
		}
	}
	if cfg.DBDriver == "sqlite" && cfg.DBDSN == "" {
		cfg.DBDSN = "nutrifit.db"
	}
	cfg.DBPort = orDefault(cfg.DBPort, "5432")
	cfg.DBSSLMode = orDefault(cfg.DBSSLMode, "disable")
	cfg.MigrationsDir = orDefault(cfg.MigrationsDir, "migrations")

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	cfg.SessionCookie = orDefault(cfg.SessionCookie, DefaultSessionCookie)
	if env == Development || env == Test {
		cfg.SessionSecret = orDefault(cfg.SessionSecret, "nutrifit-dev-session-key")
	}

	cfg.CompletionAPIURL = orDefault(cfg.CompletionAPIURL, DefaultCompletionURL)
	cfg.CompletionModel = orDefault(cfg.CompletionModel, DefaultCompletionModel)
	if cfg.CompletionTimeout <= 0 {
		cfg.CompletionTimeout = 60 * time.Second
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.GenerationLimit <= 0 {
		cfg.GenerationLimit = 30
	}

	if cfg.LogRetention <= 0 {
		cfg.LogRetention = 30 * 24 * time.Hour
	}
	if cfg.QuickAddRetention <= 0 {
		cfg.QuickAddRetention = 30 * 24 * time.Hour
	}

	cfg.AMQPQueue = orDefault(cfg.AMQPQueue, DefaultAMQPQueue)
	cfg.MongoDatabase = orDefault(cfg.MongoDatabase, DefaultMongoDatabase)
}

// PostgresDSN returns the connection string for the postgres driver
func (c *Config) PostgresDSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// secretOrEnv maps SOME_VAR to the some_var Docker secret and falls back to the environment
func secretOrEnv(name string) string {
	if v := readSecret(strings.ToLower(name)); v != "" {
		return v
	}
	return os.Getenv(name)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func atoi(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[Config] ignoring invalid integer %q", v)
		return def
	}
	return n
}

func atof(v string, def float64) float64 {
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[Config] ignoring invalid number %q", v)
		return def
	}
	return f
}

func duration(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[Config] ignoring invalid duration %q", v)
		return def
	}
	return d
}
