// Package config provides configuration loading for glyphloop.
// Settings come from defaults, an optional YAML file, and environment
// variables, in that order, and are validated against an embedded CUE schema.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/glyphloop/internal/report"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "glyphloop.yaml"

// Config contains all glyphloop settings.
type Config struct {
	// StatsFile is where the session snapshot is written on shutdown.
	StatsFile string `json:"stats_file" yaml:"stats_file"`

	// DBPath enables the durable chain store when non-empty.
	DBPath string `json:"db" yaml:"db"`

	// Seed fixes the random source. 0 derives a seed from the clock.
	Seed uint64 `json:"seed" yaml:"seed"`

	// FrameDelay is the base sleep per frame; one millisecond per load
	// point is added on top.
	FrameDelay time.Duration `json:"frame_delay" yaml:"frame_delay"`

	// DashboardEvery redraws the dashboard on every Nth cycle.
	DashboardEvery int `json:"dashboard_every" yaml:"dashboard_every"`

	// MaxFrames stops the loop after this many frames. 0 runs until interrupted.
	MaxFrames int `json:"max_frames" yaml:"max_frames"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LoggingConfig configures log verbosity.
type LoggingConfig struct {
	// Level is "info" (default) or "debug".
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with the stock settings.
func Default() *Config {
	return &Config{
		StatsFile:      report.DefaultPath,
		FrameDelay:     50 * time.Millisecond,
		DashboardEvery: 3,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration.
// Order: defaults -> YAML file -> environment variables.
//
// If path is empty, DefaultFile is used when it exists. An explicit path that
// does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		fileCfg, err := LoadFromFile(file)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		cfg = fileCfg
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file on top of the
// defaults. Keys absent from the file keep their default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("GLYPHLOOP_STATS_FILE"); v != "" {
		cfg.StatsFile = v
	}
	if v := os.Getenv("GLYPHLOOP_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("GLYPHLOOP_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("GLYPHLOOP_SEED: %w", err)
		}
		cfg.Seed = n
	}
	if v := os.Getenv("GLYPHLOOP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")
