package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	ServerPort  string
	Environment string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis configuration
	RedisAddress string

	// JWT configuration
	JWTSecret string

	// internal secret used for communication between services
	InternalSecret string

	// Document types that carry two upload slots (D1/D2); everything else
	// gets the single implicit slot. Owned by land-metadata, injected here.
	TwoSlotDocTypes []string

	CacheTTL    time.Duration
	WorkerCount int

	FrontendAddress string
}

// Global application configuration
var AppConfig Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Find .env file
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Try to find .env in parent directories
		envPath = filepath.Join("..", ".env")
		if _, err := os.Stat(envPath); os.IsNotExist(err) {
			envPath = filepath.Join("..", "..", ".env")
		}
	}

	// Load .env file if it exists
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	AppConfig = Config{
		ServerPort:      getEnv("PORT", "8080"),
		Environment:     getEnv("ENV", "development"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "land_documents"),
		RedisAddress:    getEnv("REDIS_ADDRESS", "localhost:6379"),
		JWTSecret:       getEnv("JWT_SECRET", "land-docs-jwt-secret"),
		InternalSecret:  getEnv("INTERNAL_SECRET", "land-docs-internal-secret"),
		TwoSlotDocTypes: splitCSV(getEnv("TWO_SLOT_DOC_TYPES", "ownership-documents")),
		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_MINUTES", 60)) * time.Minute,
		WorkerCount:     getEnvInt("WORKER_COUNT", 4),
		FrontendAddress: getEnv("FRONTEND_ADDRESS", "https://app.example.com"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return parsed
}

func splitCSV(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
