package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"carestats/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
	Metrics bool
}

// AnalysisConfig holds engine settings
type AnalysisConfig struct {
	Workers  int    // 0 means GOMAXPROCS
	PlanFile string // empty means the default discharge plan
}

// Load reads an optional .env file, then configuration from environment
// variables, and validates it.
func Load() (*Config, error) {
	// a missing .env is fine; the environment alone is enough
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds configuration from the current environment only
func FromEnv() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
			Metrics: getEnvBoolOrDefault("METRICS_ENABLED", true),
		},
		Analysis: AnalysisConfig{
			Workers:  getEnvIntOrDefault("CARESTATS_WORKERS", 0),
			PlanFile: getEnvOrDefault("CARESTATS_PLAN", ""),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric, got " + config.Server.Port)
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if config.Analysis.Workers < 0 {
		return errors.ConfigInvalid("CARESTATS_WORKERS must not be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
