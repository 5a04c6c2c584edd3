package config

import (
	"os"
	"strconv"

	"playcall/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Models     ModelConfig
	Simulation SimulationConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// ModelConfig holds trained-artifact settings
type ModelConfig struct {
	Dir           string
	DefaultSeason int
}

// SimulationConfig holds Monte Carlo settings
type SimulationConfig struct {
	Workers       int
	DefaultTrials int
	MaxTrials     int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Models: ModelConfig{
			Dir:           getEnvOrDefault("MODEL_DIR", "data/models"),
			DefaultSeason: getEnvIntOrDefault("DEFAULT_SEASON", 2025),
		},
		Simulation: SimulationConfig{
			Workers:       getEnvIntOrDefault("SIM_WORKERS", 4),
			DefaultTrials: getEnvIntOrDefault("SIM_DEFAULT_TRIALS", 5000),
			MaxTrials:     getEnvIntOrDefault("SIM_MAX_TRIALS", 50000),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if cfg.Models.Dir == "" {
		return errors.ConfigInvalid("MODEL_DIR is required")
	}
	if cfg.Simulation.Workers < 1 {
		return errors.ConfigInvalid("SIM_WORKERS must be at least 1")
	}
	if cfg.Simulation.MaxTrials < cfg.Simulation.DefaultTrials {
		return errors.ConfigInvalid("SIM_MAX_TRIALS must be >= SIM_DEFAULT_TRIALS")
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
