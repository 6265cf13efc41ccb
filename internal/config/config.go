// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries need to run.
type Config struct {
	DBPath         string
	RetentionHours int
	LogDir         string
}

// Load reads configuration from the environment. A missing .env file is fine.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		DBPath:         getEnv("MINUTES_DB_PATH", "meeting_minutes.db"),
		RetentionHours: getEnvInt("MINUTES_RETENTION_HOURS", 24),
		LogDir:         getEnv("MINUTES_LOG_DIR", "./logs"),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
