// Package config defines the dashboard configuration and how it is loaded.
//
// Precedence (low -> high): defaults, optional YAML file, environment.
package config

import (
	"context"
)

// Data sources the dashboard can read from.
const (
	SourceCSV      = "csv"
	SourceDatabase = "database"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8501".
	Addr string `koanf:"addr"`

	// Source selects where tables come from: "csv" snapshots or the "database".
	Source string `koanf:"source"`

	// DatasetsDir holds the CSV snapshots, one table per file.
	DatasetsDir string `koanf:"datasets_dir"`

	// SQLDir holds the *.sql statements that define each dataset.
	SQLDir string `koanf:"sql_dir"`

	// DBPath is the analytical database file. Required for the database
	// source and for the batch export.
	DBPath string `koanf:"db_path"`

	// ExportWorkers bounds how many export queries run at once.
	ExportWorkers int `koanf:"export_workers"`

	// FeaturedPlayerID is listed first in the player dropdown.
	FeaturedPlayerID int64 `koanf:"featured_player_id"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":8501",
		Source:           SourceCSV,
		DatasetsDir:      "data/datasets",
		SQLDir:           "data/sql",
		ExportWorkers:    1,
		FeaturedPlayerID: 237,
	}
}
