package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Source  SourceConfig `yaml:"source"`
	Store   StoreConfig  `yaml:"store"`
	Logging LogConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP API server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000" yaml:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" yaml:"host"`
}

// SourceConfig holds the upstream encyclopedia site configuration.
type SourceConfig struct {
	BaseURL        string  `envconfig:"SOURCE_BASE_URL" default:"https://en.wikipedia.org" yaml:"base_url"`
	UserAgent      string  `envconfig:"SOURCE_USER_AGENT" default:"StatesOfTheWorldBot/1.0" yaml:"user_agent"`
	TimeoutSeconds int     `envconfig:"SOURCE_TIMEOUT_SECONDS" default:"15" yaml:"timeout_seconds"`
	RatePerSecond  float64 `envconfig:"SOURCE_RATE_PER_SECOND" default:"2" yaml:"rate_per_second"`
	MaxRetries     int     `envconfig:"SOURCE_MAX_RETRIES" default:"3" yaml:"max_retries"`
}

// StoreConfig holds sqlite storage configuration.
type StoreConfig struct {
	Path string `envconfig:"DB_PATH" default:"states.db" yaml:"path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// Load loads configuration from SOTW_-prefixed environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("sotw", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ApplyFile overlays values from a YAML config file on top of cfg.
// File values win over environment for the keys they set.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Source: SourceConfig{
			BaseURL:        "https://en.wikipedia.org",
			UserAgent:      "StatesOfTheWorldBot/1.0",
			TimeoutSeconds: 15,
			RatePerSecond:  2,
			MaxRetries:     3,
		},
		Store: StoreConfig{
			Path: "states.db",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
