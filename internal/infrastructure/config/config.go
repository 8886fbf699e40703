package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the environment variable pointing at an optional config file.
const FileEnv = "CONFINE_CONFIG"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `toml:"server" yaml:"server"`
	Logging    LogConfig        `toml:"logging" yaml:"logging"`
	RateLimit  RateLimitConfig  `toml:"rate_limit" yaml:"rate_limit"`
	CORS       CORSConfig       `toml:"cors" yaml:"cors"`
	Filesystem FilesystemConfig `toml:"filesystem" yaml:"filesystem"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" toml:"port" yaml:"port"`
	Host string `envconfig:"HOST" toml:"host" yaml:"host"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" toml:"level" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" toml:"development" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" toml:"requests_per_second" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" toml:"burst" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" toml:"enabled" yaml:"enabled"`

	// GlobalRequestsPerSecond caps the whole server across clients. Zero
	// leaves only the per-client limit.
	GlobalRequestsPerSecond int `envconfig:"RATE_LIMIT_GLOBAL_RPS" toml:"global_requests_per_second" yaml:"global_requests_per_second"`
	GlobalBurst             int `envconfig:"RATE_LIMIT_GLOBAL_BURST" toml:"global_burst" yaml:"global_burst"`
}

// CORSConfig holds the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowOrigins []string `envconfig:"CORS_ORIGINS" toml:"allow_origins" yaml:"allow_origins"`
}

// FilesystemConfig restricts which roots may be opened and where mounts are
// discovered.
type FilesystemConfig struct {
	AllowedRoots []string `envconfig:"CONFINE_ALLOWED_ROOTS" toml:"allowed_roots" yaml:"allowed_roots"`
	MountBases   []string `envconfig:"CONFINE_MOUNT_BASES" toml:"mount_bases" yaml:"mount_bases"`
}

// Load builds configuration from defaults, then the file named by
// CONFINE_CONFIG if set, then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// LoadFile overlays values from a TOML or YAML file, chosen by extension.
// Keys absent from the file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "127.0.0.1",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
	}
}
