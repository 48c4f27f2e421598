// Package config loads qsirecon settings from the environment.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Config holds the settings shared by every qsirecon command.
type Config struct {
	// Output layout
	OutputDir string `env:"QSIRECON_OUTPUT_DIR" envDefault:"derivatives"`
	WorkDir   string `env:"QSIRECON_WORK_DIR" envDefault:"work"`

	// Build behaviour
	OMPThreads   int  `env:"QSIRECON_OMP_NTHREADS" envDefault:"1"`
	Sloppy       bool `env:"QSIRECON_SLOPPY" envDefault:"false"`
	SkipODFPlots bool `env:"QSIRECON_SKIP_ODF_PLOTS" envDefault:"false"`

	// SpecDir is an extra directory of named spec documents.
	SpecDir string `env:"QSIRECON_SPEC_DIR"`
	// MetricsTextfile, when set, receives compile metrics in the
	// prometheus text format.
	MetricsTextfile string `env:"QSIRECON_METRICS_TEXTFILE"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.WorkDir == "" {
		return fmt.Errorf("work directory is required")
	}
	if c.OMPThreads < 1 {
		return fmt.Errorf("omp thread count must be at least 1, got %d", c.OMPThreads)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	if f := strings.ToLower(c.LogFormat); f != "json" && f != "text" {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.LogFormat)
	}

	return nil
}

// ReportletsDir returns the directory report fragments are written to.
func (c *Config) ReportletsDir() string {
	return filepath.Join(c.WorkDir, "reportlets")
}
