package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"auction-bidding/utils"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	DBPath          string
	JWTSecret       string
	JWTIssuer       string
	JWTTTL          time.Duration
	SweepInterval   time.Duration
	OutboxSize      int
	SeedSampleItems bool
}

// Load reads .env when present, then the environment, falling back to defaults
func Load() Config {
	if err := godotenv.Load(); err != nil {
		utils.Debug(".env file not found, using environment", map[string]any{"error": err.Error()})
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only
func FromEnv() Config {
	return Config{
		Port:            ":" + getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "release"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBPath:          getEnv("DB_PATH", ""),
		JWTSecret:       getEnv("JWT_SECRET", "change-me-in-production"),
		JWTIssuer:       getEnv("JWT_ISSUER", "auction-bidding"),
		JWTTTL:          time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		SweepInterval:   getEnvDuration("SWEEP_INTERVAL", 30*time.Second),
		OutboxSize:      getEnvInt("OUTBOX_SIZE", 256),
		SeedSampleItems: getEnvBool("SEED_SAMPLE_ITEMS", true),
	}
}

// Validate rejects settings the server cannot start with
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET must not be empty")
	}
	if c.OutboxSize <= 0 {
		return fmt.Errorf("config: OUTBOX_SIZE must be positive, got %d", c.OutboxSize)
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("config: SWEEP_INTERVAL must not be negative, got %s", c.SweepInterval)
	}
	return nil
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
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		utils.Warn("invalid integer setting, using default", map[string]any{"key": key, "value": raw})
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		utils.Warn("invalid boolean setting, using default", map[string]any{"key": key, "value": raw})
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		utils.Warn("invalid duration setting, using default", map[string]any{"key": key, "value": raw})
		return defaultValue
	}
	return v
}
