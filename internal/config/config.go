package config

import (
	"os"
	"time"
)

type Config struct {
	DatabaseURL   string
	Port          string
	Environment   string
	SourcePostURL string
	// FetchInterval is how often the daemon attempts an ingestion. The
	// store is idempotent per day, so a short interval only costs
	// fetches.
	FetchInterval time.Duration
}

func Load() *Config {
	defaultDSN := "root:kotd@tcp(127.0.0.1:3306)/kotd_tracker?charset=utf8mb4&parseTime=True&loc=UTC"

	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", defaultDSN),
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		SourcePostURL: getEnv("SOURCE_POST_URL", ""),
		FetchInterval: getDuration("FETCH_INTERVAL", 24*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
