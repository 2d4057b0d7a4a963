// Package config provides configuration for the dialogue service.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/kohara42/supportdesk/domain"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Classifier settings
	ClassifierURL     string
	ClassifierTimeout time.Duration

	// Dialogue settings
	ConfidenceThreshold float64
	HistoryLimit        int
	RoutingPolicy       domain.RoutingPolicy

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:            getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:         getEnv("DATABASE_URL", "file:supportdesk.db?cache=shared&mode=rwc"),
		ClassifierURL:       getEnv("CLASSIFIER_URL", "http://localhost:8091"),
		ClassifierTimeout:   time.Duration(getEnvInt("CLASSIFIER_TIMEOUT_MS", 10000)) * time.Millisecond,
		ConfidenceThreshold: getEnvFloat("CONFIDENCE_THRESHOLD", 0.5),
		HistoryLimit:        getEnvInt("HISTORY_LIMIT", 200),
		RoutingPolicy:       domain.RoutingPolicy(getEnv("ROUTING_POLICY", string(domain.RoutingKeyword))),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}
