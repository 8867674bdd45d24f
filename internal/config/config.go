package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the points & routes server
type Config struct {
	// HTTP server
	Port           int      `yaml:"port" validate:"gt=0"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	// CSV sources
	PointsCSV   string `yaml:"points_csv" validate:"required"`
	DatabaseCSV string `yaml:"database_csv"`

	// Frontend assets
	IndexFile string `yaml:"index_file"`
	StaticDir string `yaml:"static_dir"`

	// External routing provider
	RouterBaseURL        string `yaml:"router_base_url" validate:"required,url"`
	RouterProfile        string `yaml:"router_profile" validate:"required"`
	RouterTimeoutSeconds int    `yaml:"router_timeout_seconds" validate:"gte=1"`
}

// RouterTimeout returns the provider call timeout as a duration
func (c *Config) RouterTimeout() time.Duration {
	return time.Duration(c.RouterTimeoutSeconds) * time.Second
}

// Load builds configuration from an optional config.yml overlaid with
// environment variables (environment wins), then validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 8000,
		AllowedOrigins:       []string{"*"},
		PointsCSV:            "data/lokalzacja.csv",
		DatabaseCSV:          "data/database.csv",
		IndexFile:            "web/index.html",
		RouterBaseURL:        "https://router.project-osrm.org",
		RouterProfile:        "walking",
		RouterTimeoutSeconds: 20,
	}

	path := getEnv("CONFIG_FILE", "config.yml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.PointsCSV = getEnv("POINTS_CSV", cfg.PointsCSV)
	cfg.DatabaseCSV = getEnv("DATABASE_CSV", cfg.DatabaseCSV)
	cfg.IndexFile = getEnv("INDEX_FILE", cfg.IndexFile)
	cfg.StaticDir = getEnv("STATIC_DIR", cfg.StaticDir)
	cfg.RouterBaseURL = getEnv("ROUTER_BASE_URL", cfg.RouterBaseURL)
	cfg.RouterProfile = getEnv("ROUTER_PROFILE", cfg.RouterProfile)
	cfg.RouterTimeoutSeconds = getEnvInt("ROUTER_TIMEOUT_SECONDS", cfg.RouterTimeoutSeconds)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
