package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read outside the HOOPS_ prefix mapping.
const (
	EnvConfigFile = "HOOPS_CONFIG"
	EnvDotEnvFile = "HOOPS_ENV_FILE"

	// EnvLegacyDBPath is the variable the upstream pipeline exports for
	// the analytical database; used when HOOPS_DB_PATH is not set.
	EnvLegacyDBPath = "AIRFLOW_VAR_DUCKDB_PATH"

	envPrefix      = "HOOPS_"
	defaultEnvFile = ".env"
)

// Load reads the configuration and validates it.
func Load(ctx context.Context) (*Config, error) {
	cfg, err := Read(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read builds a Config by layering defaults, an optional YAML file and
// HOOPS_* environment variables, without validating it. Callers that
// override fields afterwards (command-line flags) validate the result
// themselves. A .env file (or HOOPS_ENV_FILE) is loaded into the process
// environment first; it never overrides variables that are already set.
func Read(ctx context.Context) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	base := New(ctx)
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// HOOPS_DB_PATH -> db_path. Underscores are kept to match the koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = os.Getenv(EnvLegacyDBPath)
	}
	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	return &cfg, nil
}

// Validate checks the fields the server cannot start without.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Source != SourceCSV && c.Source != SourceDatabase:
		return fmt.Errorf("%w: unknown source %q (want %q or %q)", ErrInvalidConfig, c.Source, SourceCSV, SourceDatabase)
	case c.Source == SourceCSV && c.DatasetsDir == "":
		return fmt.Errorf("%w: datasets_dir must not be empty for the csv source", ErrInvalidConfig)
	case c.Source == SourceDatabase && c.DBPath == "":
		return fmt.Errorf("%w: db_path (or %s) must be set for the database source", ErrInvalidConfig, EnvLegacyDBPath)
	}
	return nil
}

func loadDotEnv() error {
	path := os.Getenv(EnvDotEnvFile)
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}
