package config

import (
	"os"
	"strconv"
	"strings"

	"goabtest/internal/errors"
)

// DefaultDataFiles are tried in order when DATA_FILE is unset or missing
var DefaultDataFiles = []string{"marketing_AB.csv", "data/marketing_AB.csv"}

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Data     DataConfig
	Pipeline PipelineConfig
	LogLevel string
}

// DatabaseConfig holds database connection settings. An empty URL keeps
// reports in memory.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether Postgres persistence is configured
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	UIPort  string
	GinMode string
}

// DataConfig holds the dataset location candidates, tried in order
type DataConfig struct {
	Files []string
}

// PipelineConfig holds hypothesis pipeline settings
type PipelineConfig struct {
	Workers     int
	PreviewRows int
	TopTotalAds int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Server:   loadServerConfig(),
		Data:     loadDataConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	pipeline, err := loadPipelineConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load pipeline configuration")
	}
	config.Pipeline = *pipeline

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		UIPort:  getEnvOrDefault("UI_PORT", "8081"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() DataConfig {
	files := make([]string, 0, len(DefaultDataFiles)+1)
	if f := strings.TrimSpace(os.Getenv("DATA_FILE")); f != "" {
		files = append(files, f)
	}
	files = append(files, DefaultDataFiles...)
	return DataConfig{Files: files}
}

func loadPipelineConfig() (*PipelineConfig, error) {
	workers, err := getEnvIntOrDefault("PIPELINE_WORKERS", 3)
	if err != nil {
		return nil, err
	}
	preview, err := getEnvIntOrDefault("PREVIEW_ROWS", 5)
	if err != nil {
		return nil, err
	}
	top, err := getEnvIntOrDefault("TOP_TOTAL_ADS", 20)
	if err != nil {
		return nil, err
	}
	return &PipelineConfig{Workers: workers, PreviewRows: preview, TopTotalAds: top}, nil
}

func validateConfig(config *Config) error {
	if config.Pipeline.Workers < 1 {
		return errors.ConfigInvalid("PIPELINE_WORKERS must be at least 1")
	}
	if config.Pipeline.PreviewRows < 0 || config.Pipeline.TopTotalAds < 1 {
		return errors.ConfigInvalid("PREVIEW_ROWS must be >= 0 and TOP_TOTAL_ADS >= 1")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if _, err := strconv.Atoi(config.Server.UIPort); err != nil {
		return errors.ConfigInvalid("UI_PORT must be numeric")
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

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer")
	}
	return intValue, nil
}
