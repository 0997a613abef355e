/**
 * Configuration for the PII redaction service
 *
 * Loads configuration from environment variables, with optional .env support
 * in the entry points via godotenv.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds service configuration shared by the API server and the worker
type Config struct {
	// HTTP server configuration
	ServerAddr string

	// Redis configuration (queue transport and job events)
	RedisURL string

	// PostgreSQL configuration (job metadata, never PII values)
	DatabaseURL string

	// Worker configuration
	WorkerConcurrency int
	MaxFileSize       int64
	ProcessingTimeout int // milliseconds

	// Tesseract configuration
	TesseractPath      string
	TesseractLanguages string // "+"-joined, e.g. "eng+hin"

	// Extraction tunables
	MaskPadding      int
	FuzzyMaxDistance int

	// Heuristic photo region, pixels
	PhotoRegionLeft   int
	PhotoRegionTop    int
	PhotoRegionWidth  int
	PhotoRegionHeight int

	// Directory for redacted output images
	OutputDir string

	// Node environment
	NodeEnv string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddr:         getEnvOrDefault("SERVER_ADDR", ":8080"),
		RedisURL:           getEnvOrDefault("REDIS_URL", "redis://localhost:6379"),
		DatabaseURL:        getEnvOrThrow("DATABASE_URL"),
		WorkerConcurrency:  getEnvAsIntOrDefault("WORKER_CONCURRENCY", 10),
		MaxFileSize:        getEnvAsInt64OrDefault("MAX_FILE_SIZE", 10485760), // 10MB
		ProcessingTimeout:  getEnvAsIntOrDefault("PROCESSING_TIMEOUT", 120000), // 2 minutes
		TesseractPath:      getEnvOrDefault("TESSERACT_PATH", "/usr/bin/tesseract"),
		TesseractLanguages: getEnvOrDefault("TESSERACT_LANGUAGES", "eng+hin"),
		MaskPadding:        getEnvAsIntOrDefault("MASK_PADDING", 10),
		FuzzyMaxDistance:   getEnvAsIntOrDefault("FUZZY_MAX_DISTANCE", 2),
		PhotoRegionLeft:    getEnvAsIntOrDefault("PHOTO_REGION_LEFT", 20),
		PhotoRegionTop:     getEnvAsIntOrDefault("PHOTO_REGION_TOP", 60),
		PhotoRegionWidth:   getEnvAsIntOrDefault("PHOTO_REGION_WIDTH", 140),
		PhotoRegionHeight:  getEnvAsIntOrDefault("PHOTO_REGION_HEIGHT", 170),
		OutputDir:          getEnvOrDefault("OUTPUT_DIR", "/tmp/redacted"),
		NodeEnv:            getEnvOrDefault("NODE_ENV", "development"),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.WorkerConcurrency < 1 || c.WorkerConcurrency > 100 {
		return fmt.Errorf("WORKER_CONCURRENCY must be between 1 and 100, got %d", c.WorkerConcurrency)
	}

	if c.MaxFileSize < 1024 || c.MaxFileSize > 104857600 { // 1KB to 100MB
		return fmt.Errorf("MAX_FILE_SIZE must be between 1KB and 100MB, got %d", c.MaxFileSize)
	}

	if c.ProcessingTimeout < 1000 {
		return fmt.Errorf("PROCESSING_TIMEOUT must be at least 1000ms, got %d", c.ProcessingTimeout)
	}

	if c.MaskPadding < 0 || c.MaskPadding > 100 {
		return fmt.Errorf("MASK_PADDING must be between 0 and 100, got %d", c.MaskPadding)
	}

	if c.FuzzyMaxDistance < 0 || c.FuzzyMaxDistance > 5 {
		return fmt.Errorf("FUZZY_MAX_DISTANCE must be between 0 and 5, got %d", c.FuzzyMaxDistance)
	}

	if c.PhotoRegionWidth < 1 || c.PhotoRegionHeight < 1 {
		return fmt.Errorf("photo region dimensions must be positive, got %dx%d", c.PhotoRegionWidth, c.PhotoRegionHeight)
	}

	return nil
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrThrow gets environment variable or returns error
func getEnvOrThrow(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("Required environment variable %s is not set", key))
	}
	return value
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsInt64OrDefault gets environment variable as int64 or returns default
func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
