package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the application reads from its environment.
type Config struct {
	DataFile   string
	ExportFile string
	LogLevel   slog.Level
}

// LoadConfig reads an optional .env file and then the process
// environment, falling back to defaults suitable for local use.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return &Config{
		DataFile:   getEnv("DATA_FILE", "grades.json"),
		ExportFile: getEnv("EXPORT_FILE", "grades.xlsx"),
		LogLevel:   parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
