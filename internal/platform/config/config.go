package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends selectable with STORE_BACKEND.
const (
	StoreMemory    = "memory"
	StorePostgres  = "postgres"
	StoreFirestore = "firestore"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	StoreBackend string
	StoreTimeout time.Duration

	DatabaseURL   string
	RunMigrations bool

	FirestoreProjectID       string
	FirestoreCredentialsFile string

	Port         string
	IsProduction bool
	LogLevel     string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	BcryptCost    int
	AuthRateLimit string

	PosthogAPIKey   string
	PosthogEndpoint string

	FrontendBaseURL string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("STORE_BACKEND", StoreMemory)
	viper.SetDefault("STORE_TIMEOUT", "5s")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("FIRESTORE_PROJECT_ID", "")
	viper.SetDefault("FIRESTORE_CREDENTIALS_FILE", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "bank-app")
	viper.SetDefault("BCRYPT_COST", 0)
	viper.SetDefault("AUTH_RATE_LIMIT", "5-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{
		StoreBackend:             strings.ToLower(viper.GetString("STORE_BACKEND")),
		DatabaseURL:              viper.GetString("PGSQL_URL"),
		RunMigrations:            viper.GetBool("RUN_MIGRATIONS"),
		FirestoreProjectID:       viper.GetString("FIRESTORE_PROJECT_ID"),
		FirestoreCredentialsFile: viper.GetString("FIRESTORE_CREDENTIALS_FILE"),
		Port:                     viper.GetString("PORT"),
		IsProduction:             viper.GetBool("IS_PRODUCTION"),
		LogLevel:                 viper.GetString("LOG_LEVEL"),
		JWTSecret:                viper.GetString("JWT_SECRET"),
		JWTIssuer:                viper.GetString("JWT_ISSUER"),
		BcryptCost:               viper.GetInt("BCRYPT_COST"),
		AuthRateLimit:            viper.GetString("AUTH_RATE_LIMIT"),
		PosthogAPIKey:            viper.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:          viper.GetString("POSTHOG_ENDPOINT"),
		FrontendBaseURL:          viper.GetString("FRONTEND_BASE_URL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.StoreTimeout = parseDurationOr("STORE_TIMEOUT", 5*time.Second)
	cfg.JWTExpiryDuration = parseDurationOr("JWT_EXPIRY_DURATION", time.Hour)

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret
	}
	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	switch cfg.StoreBackend {
	case StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_BACKEND=%s", StorePostgres)
		}
	case StoreFirestore:
		if cfg.FirestoreProjectID == "" {
			return nil, fmt.Errorf("FIRESTORE_PROJECT_ID is required when STORE_BACKEND=%s", StoreFirestore)
		}
		if cfg.FirestoreCredentialsFile == "" && os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
			log.Println("Warning: FIRESTORE_CREDENTIALS_FILE not set. Falling back to application default credentials.")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q (want %s, %s or %s)", cfg.StoreBackend, StoreMemory, StorePostgres, StoreFirestore)
	}

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}
