// Package config loads and validates TernDB server configuration
// from a YAML file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the full server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" validate:"required"`
	Storage StorageConfig `yaml:"storage" validate:"required"`
	Query   QueryConfig   `yaml:"query" validate:"required"`
	Logging LoggingConfig `yaml:"logging" validate:"required"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Host            string   `yaml:"host" validate:"required"`
	Port            int      `yaml:"port" validate:"required,gte=1,lte=65535"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" validate:"required,gt=0"`
}

// StorageConfig configures persistence
type StorageConfig struct {
	DataDir          string   `yaml:"data_dir" validate:"required"`
	SnapshotInterval Duration `yaml:"snapshot_interval" validate:"gte=0"`
}

// QueryConfig configures query execution
type QueryConfig struct {
	Timeout Duration `yaml:"timeout" validate:"required,gt=0"`
}

// LoggingConfig configures the JSON logger
type LoggingConfig struct {
	Level string `yaml:"level" validate:"required,oneof=debug info warn error"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            7878,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Storage: StorageConfig{
			DataDir:          "./data",
			SnapshotInterval: Duration(5 * time.Minute),
		},
		Query: QueryConfig{
			Timeout: Duration(30 * time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration file at path, applies environment
// overrides and validates the result. An empty path loads defaults
// with overrides only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ListenAddr is the host:port the HTTP server binds
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnvOverrides lets TERNDB_* variables win over file values
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TERNDB_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("TERNDB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TERNDB_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("TERNDB_SNAPSHOT_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Storage.SnapshotInterval = Duration(d)
		}
	}
	if v := os.Getenv("TERNDB_QUERY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Query.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("TERNDB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}
