// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"fmt"
	"strings"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Export  ExportConfig
	Repair  RepairConfig
	Logging LoggingConfig
}

// ExportConfig holds dump indexing and export settings.
type ExportConfig struct {
	// Encoding is the dump file's text encoding (default: utf-8).
	// Undecodable bytes are substituted rather than failing the run.
	Encoding string `env:"SQLSIFT_ENCODING" default:"utf-8"`

	// Parallel is how many tables are exported concurrently (default: 1)
	Parallel int `env:"SQLSIFT_PARALLEL" default:"1"`

	// Progress controls terminal progress bars (default: true)
	Progress bool `env:"SQLSIFT_PROGRESS" default:"true"`
}

// RepairConfig holds row-recovery settings.
type RepairConfig struct {
	// SampleRows is how many CSV data rows schema inference samples
	// (default: 50)
	SampleRows int `env:"SQLSIFT_REPAIR_SAMPLE_ROWS" default:"50"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"SQLSIFT_LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"SQLSIFT_LOG_FORMAT" default:"text"`
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Export.Parallel <= 0 {
		errs = append(errs, "SQLSIFT_PARALLEL must be positive")
	}
	if c.Repair.SampleRows <= 0 {
		errs = append(errs, "SQLSIFT_REPAIR_SAMPLE_ROWS must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("SQLSIFT_LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("SQLSIFT_LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
