package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	API      APIConfig      `yaml:"api"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig locates the credential file written by the auth command.
type AuthConfig struct {
	Path   string `yaml:"path"`
	Domain string `yaml:"domain"` // offered as the default at the auth prompt
}

// APIConfig configures the WriteFreely API client.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"` // overrides https://<domain>/api
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

// ParseTimeout returns the request timeout as time.Duration.
func (a APIConfig) ParseTimeout() time.Duration {
	d, err := time.ParseDuration(a.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// LogConfig configures the zap logger and its optional rolling file.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./writefreely.db"},
		Auth: AuthConfig{
			Path:   "./auth.json",
			Domain: "write.as",
		},
		API: APIConfig{Timeout: "30s"},
		Log: LogConfig{
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
// A .env file in the working directory, if any, is loaded first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WRITEFREELY_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("WRITEFREELY_AUTH_PATH"); v != "" {
		cfg.Auth.Path = v
	}
	if v := os.Getenv("WRITEFREELY_DOMAIN"); v != "" {
		cfg.Auth.Domain = v
	}
	if v := os.Getenv("WRITEFREELY_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("WRITEFREELY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
