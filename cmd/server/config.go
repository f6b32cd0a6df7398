package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	// Server configuration
	ServerPort  string
	Environment string

	// Game configuration
	CatalogPath          string
	TurnTimeLimitSeconds int

	// Matchmaking configuration
	AIEnabled          bool
	AIDelayMs          int
	HumanOnlyMaxWaitMs int

	// Match history (optional; empty DSN disables it)
	DBDriver string
	DBDSN    string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() Config {
	// Load .env file if it exists
	godotenv.Load()

	return Config{
		ServerPort:           getEnv("PORT", "8080"),
		Environment:          getEnv("ENV", "development"),
		CatalogPath:          getEnv("CATALOG_PATH", "catalog/testdata/cards.json"),
		TurnTimeLimitSeconds: getEnvInt("TURN_TIME_LIMIT_SECONDS", 60),
		AIEnabled:            getEnvBool("AI_ENABLED", true),
		AIDelayMs:            getEnvInt("AI_DELAY_MS", 4000),
		HumanOnlyMaxWaitMs:   getEnvInt("HUMAN_ONLY_MAX_WAIT_MS", 30000),
		DBDriver:             getEnv("DB_DRIVER", "sqlite"),
		DBDSN:                getEnv("DB_DSN", ""),
	}
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
