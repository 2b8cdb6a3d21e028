// Package config handles loading and parsing application configuration.
// It supports two sources for the file path (in priority order):
//  1. A command-line flag:      --config=/path/to/config.yaml
//  2. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//
// With neither, values come from the environment and the env-default
// tags below, so the console app runs with no setup at all.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"prod"`

	// StorageBackend selects how records are persisted: "csv" or "sqlite".
	StorageBackend string `yaml:"storage_backend" env:"STORAGE_BACKEND" env-default:"csv"`

	// StoragePath is the records file (csv) or database file (sqlite).
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"students.csv"`

	HTTPServer `yaml:"http_server"`
}

// HTTPServer holds settings for the serve command.
type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`
}

// Load reads the config at path, or only the environment when path is
// empty and CONFIG_PATH is unset.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from env: %w", err)
		}
	} else {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case BackendCSV, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage_backend %q: want %q or %q",
			c.StorageBackend, BackendCSV, BackendSQLite)
	}
	if c.StoragePath == "" {
		return errors.New("storage_path must not be empty")
	}
	return nil
}
