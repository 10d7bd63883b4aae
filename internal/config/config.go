// Package config loads the kandy configuration from a YAML file and KANDY_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // Asia/Colombo must resolve on images without a zoneinfo database.

	"gopkg.in/yaml.v3"
)

// Environments select logging behaviour and how strictly secrets are checked.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "kandy.yaml"

// Config represents the kandy configuration file.
type Config struct {
	Env      string         `yaml:"env"`
	Timezone string         `yaml:"timezone"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr               string        `yaml:"addr"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins        []string      `yaml:"cors_origins"`
	LoginRatePerMinute int           `yaml:"login_rate_per_minute"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig configures bearer tokens.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// LogConfig configures the process logger. Level overrides the env default.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Env:      EnvLocal,
		Timezone: "Asia/Colombo",
		Server: ServerConfig{
			Addr:               ":8080",
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       15 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			CORSOrigins:        []string{"http://localhost:3000", "http://localhost:5173"},
			LoginRatePerMinute: 10,
		},
		Database: DatabaseConfig{Path: "kandy.db"},
		Auth:     AuthConfig{TokenTTL: 24 * time.Hour},
	}
}

// Load reads the config file at path over the defaults, then applies
// environment overrides. An empty path means KANDY_CONFIG or DefaultPath;
// a missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("KANDY_CONFIG")
	}
	explicit := path != ""
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"KANDY_ENV", &c.Env},
		{"KANDY_ADDR", &c.Server.Addr},
		{"KANDY_DB_PATH", &c.Database.Path},
		{"KANDY_JWT_SECRET", &c.Auth.JWTSecret},
		{"KANDY_TIMEZONE", &c.Timezone},
		{"KANDY_LOG_LEVEL", &c.Log.Level},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(getenv(o.key)); v != "" {
			*o.dst = v
		}
	}
}

// Validate reports the first problem that would stop the server from starting.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env %q (want local, dev or prod)", c.Env)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	if c.Env != EnvLocal && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required when env is %s", c.Env)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}

// Location returns the business timezone. Callers must have validated the config.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Secret returns the JWT signing secret. Local setups without one get a
// fixed development secret.
func (c *Config) Secret() string {
	if c.Auth.JWTSecret == "" {
		return "kandy-local-development-secret"
	}
	return c.Auth.JWTSecret
}
