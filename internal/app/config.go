package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/equigrid/internal/publish"
	"github.com/specialistvlad/equigrid/internal/report"
)

// InlineSystem is the name of the system built from inline equations.
const InlineSystem = "inline"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths  []string // .hcl and .eq files or directories
	Inline []string // equation lines given on the command line

	// Systems restricts the run to the named systems. Empty means all.
	Systems []string
	// Bindings override the workspace bindings of every system. A nil value
	// unsets the variable.
	Bindings map[string]*float64

	Format          report.Format
	RequireComplete bool

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	Debounce        time.Duration

	// Publish is used when Publish.URL is set.
	Publish publish.Options
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 && len(cfg.Inline) == 0 {
		return nil, errors.New("at least one workspace path or inline equation is required")
	}

	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	if cfg.Format == "" {
		cfg.Format = report.FormatText
	}
	format, err := report.ParseFormat(string(cfg.Format))
	if err != nil {
		return nil, err
	}
	cfg.Format = format

	if cfg.HealthcheckPort < 0 {
		return nil, fmt.Errorf("invalid healthcheck-port %d: must not be negative", cfg.HealthcheckPort)
	}
	if cfg.Debounce < 0 {
		return nil, fmt.Errorf("invalid debounce %s: must not be negative", cfg.Debounce)
	}

	if cfg.Publish.URL != "" {
		if err := cfg.Publish.Validate(); err != nil {
			return nil, fmt.Errorf("invalid publish options: %w", err)
		}
	}

	return &cfg, nil
}
