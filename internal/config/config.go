// Package config loads application configuration from environment
// variables, optionally merged over a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Storage  StorageConfig  `yaml:"storage" envconfig:"STORAGE"`
	Gemini   GeminiConfig   `yaml:"gemini" envconfig:"GEMINI"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	// MaxUploadBytes bounds multipart report uploads; workbook size also
	// bounds parse time, there is no timeout inside the extractors.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
}

// SecurityConfig contains CORS and rate limiting configuration.
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DatabaseConfig contains the Postgres connection settings.
type DatabaseConfig struct {
	URL string `yaml:"url" envconfig:"URL"`
}

// StorageConfig describes the blob storage bucket holding the source
// workbooks, organized as <prefix>/<YYYYMMDD>/<file>.
type StorageConfig struct {
	BaseURL       string `yaml:"base_url" envconfig:"BASE_URL"`
	APIKey        string `yaml:"api_key" envconfig:"API_KEY"`
	Bucket        string `yaml:"bucket" envconfig:"BUCKET"`
	Prefix        string `yaml:"prefix" envconfig:"PREFIX"`
	ValuationFile string `yaml:"valuation_file" envconfig:"VALUATION_FILE"`
	TrsFile       string `yaml:"trs_file" envconfig:"TRS_FILE"`
}

// GeminiConfig contains the LLM assistant settings.
type GeminiConfig struct {
	APIKey string `yaml:"api_key" envconfig:"API_KEY"`
	Model  string `yaml:"model" envconfig:"MODEL"`
}

// Load loads configuration from environment variables, merged over a config
// file when one exists. Environment variables take precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := configFilePath(); path != "" {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		*cfg = *fileCfg
	}

	if err := envconfig.Process("FUNDPULSE", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks the configuration for values that would fail at runtime.
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}
	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage bucket must be specified")
	}
	return nil
}

// configFilePath returns the first config file found in common locations,
// or "" when env vars are the only source.
func configFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxUploadBytes:  20 << 20,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Storage: StorageConfig{
			Bucket:        "reports",
			Prefix:        "reports",
			ValuationFile: "valuation.xls",
			TrsFile:       "trs.xlsx",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash-exp",
		},
	}
}
