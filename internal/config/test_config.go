package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration from the .env file or environment variables for integration tests
// If .env file doesn't exist or environment variables are not set, returns a Config with empty values
// which allows tests to skip when no test database is available
func LoadTestConfig() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist - it's optional)
	// Try both possible paths
	_ = godotenv.Load("./../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost == "" {
		return cfg, nil
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("TEST_DB_PORT")
	if dbPortStr == "" {
		return cfg, nil
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("TEST_DB_USER")
	if dbUser == "" {
		return cfg, nil
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("TEST_DB_PASSWORD")
	if dbPassword == "" {
		return cfg, nil
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("TEST_DB_NAME")
	if dbName == "" {
		return cfg, nil
	}
	cfg.Database.DBName = dbName

	// Session token configuration for integration tests
	cfg.JWT.Secret = os.Getenv("TEST_JWT_SECRET")
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "test-secret-key"
	}

	tokenExpiryStr := os.Getenv("TEST_TOKEN_EXPIRY")
	if tokenExpiryStr == "" {
		tokenExpiryStr = "24h"
	}
	tokenExpiry, err := time.ParseDuration(tokenExpiryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_TOKEN_EXPIRY: %w", err)
	}
	cfg.JWT.TokenExpiry = tokenExpiry

	return cfg, nil
}
