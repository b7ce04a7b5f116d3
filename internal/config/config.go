package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server      ServerConfig
	Auth        AuthConfig
	Store       StoreConfig
	Seed        SeedConfig
	Orders      OrderConfig
	Environment string
	LogLevel    string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	APIKeys []string // Valid API keys for the admin menu builder routes
}

// StoreConfig selects the menu store backend.
type StoreConfig struct {
	Driver      string // memory, sqlite or postgres
	DatabaseURL string
	SQLitePath  string
}

// SeedConfig lists menu documents loaded at startup, in order.
// The S3 fields apply only to s3://bucket/key sources.
type SeedConfig struct {
	Sources     []string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

type OrderConfig struct {
	DefaultCurrency     string
	IdempotencyCapacity int
}

var validDrivers = map[string]bool{"memory": true, "sqlite": true, "postgres": true}

// Load reads configuration from environment variables.
// Outside production a local .env file is read first when present.
func Load() (*Config, error) {
	env := getEnv("APP_ENV", "development")
	if env != "production" {
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", []string{"apitest"}),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(getEnv("STORE_DRIVER", "memory")),
			DatabaseURL: getEnv("DATABASE_URL", ""),
			SQLitePath:  getEnv("SQLITE_PATH", "menu.db"),
		},
		Seed: SeedConfig{
			Sources:     getEnvAsSlice("MENU_SEED_SOURCES", nil),
			S3Region:    getEnv("MENU_SEED_S3_REGION", "us-east-1"),
			S3Endpoint:  getEnv("MENU_SEED_S3_ENDPOINT", ""),
			S3PathStyle: getEnvAsBool("MENU_SEED_S3_PATH_STYLE", false),
		},
		Orders: OrderConfig{
			DefaultCurrency:     strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),
			IdempotencyCapacity: getEnvAsInt("IDEMPOTENCY_CAPACITY", 100000),
		},
		Environment: env,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if !validDrivers[c.Store.Driver] {
		return fmt.Errorf("invalid store driver: %s (must be memory, sqlite, or postgres)", c.Store.Driver)
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres store")
	}
	if c.Store.Driver == "sqlite" && c.Store.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
	}

	if len(c.Orders.DefaultCurrency) != 3 {
		return fmt.Errorf("invalid currency code: %s", c.Orders.DefaultCurrency)
	}
	if c.Orders.IdempotencyCapacity <= 0 {
		return fmt.Errorf("IDEMPOTENCY_CAPACITY must be positive")
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
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

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
