package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration
	GoogleClientID   string

	DatabaseURL string
	RedisURL    string

	FirebaseCredentials string
	GCPCredentials      string
	GCPProjectID        string
	SyncTopic           string
	SyncSubscription    string

	LogLevel string
	LogFile  string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	refreshExpiry := 168 * time.Hour // 7 days
	if exp := os.Getenv("JWT_REFRESH_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			refreshExpiry = parsed
		}
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:  accessExpiry,
		JWTRefreshExpiry: refreshExpiry,
		GoogleClientID:   getEnv("GOOGLE_CLIENT_ID", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		GCPCredentials:      getEnv("GCP_CREDENTIALS", ""),
		GCPProjectID:        getEnv("GCP_PROJECT_ID", ""),
		SyncTopic:           getEnv("SYNC_TOPIC", "planora-sync"),
		SyncSubscription:    getEnv("SYNC_SUBSCRIPTION", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
