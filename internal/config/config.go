package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the full runtime configuration, loaded from the environment
// with an optional .env file for local development.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DatabaseURL string
	// DocumentDatabaseURL points at the document store. Empty means the
	// relational database also holds the document tables.
	DocumentDatabaseURL string

	RedisURL string

	LessonServiceURL     string
	EnrollmentServiceURL string
	ProgressServiceURL   string

	KafkaBrokers []string
	EventsTopic  string
}

// LoadConfig reads configuration from the environment. A .env file is
// loaded when present; missing required values fail fast.
func LoadConfig() (*Config, error) {
	// Ignore a missing .env; production injects real environment
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DocumentDatabaseURL: os.Getenv("DOCUMENT_DATABASE_URL"),

		RedisURL: os.Getenv("REDIS_URL"),

		LessonServiceURL:     os.Getenv("LESSON_SERVICE_URL"),
		EnrollmentServiceURL: os.Getenv("ENROLLMENT_SERVICE_URL"),
		ProgressServiceURL:   os.Getenv("PROGRESS_SERVICE_URL"),

		EventsTopic: getEnv("EVENTS_TOPIC", "quiz-events"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.LessonServiceURL == "" {
		return nil, fmt.Errorf("LESSON_SERVICE_URL is required")
	}
	if cfg.EnrollmentServiceURL == "" {
		return nil, fmt.Errorf("ENROLLMENT_SERVICE_URL is required")
	}
	if cfg.ProgressServiceURL == "" {
		return nil, fmt.Errorf("PROGRESS_SERVICE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
