package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors the TOML config file. Pointer fields distinguish
// "absent" from a zero value so the file only overrides what it names.
type fileConfig struct {
	BaseURL       *string  `toml:"base_url"`
	UserAgent     *string  `toml:"user_agent"`
	Timeout       *float64 `toml:"timeout"`
	Delay         *float64 `toml:"delay"`
	OutputPath    *string  `toml:"output_path"`
	Prefix        *string  `toml:"prefix"`
	Head          *int     `toml:"head"`
	MetricsAddr   *string  `toml:"metrics_addr"`
	Verbose       *bool    `toml:"verbose"`
	RespectRobots *bool    `toml:"respect_robots"`
}

// ApplyFile overlays values from a TOML file onto cfg. The timeout and
// delay keys are given in seconds.
func ApplyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.BaseURL != nil {
		cfg.BaseURL = *fc.BaseURL
	}
	if fc.UserAgent != nil {
		cfg.UserAgent = *fc.UserAgent
	}
	if fc.Timeout != nil {
		cfg.Timeout = time.Duration(*fc.Timeout * float64(time.Second))
	}
	if fc.Delay != nil {
		cfg.Delay = time.Duration(*fc.Delay * float64(time.Second))
	}
	if fc.OutputPath != nil {
		cfg.OutputPath = *fc.OutputPath
	}
	if fc.Prefix != nil {
		cfg.Prefix = *fc.Prefix
	}
	if fc.Head != nil {
		cfg.Head = *fc.Head
	}
	if fc.MetricsAddr != nil {
		cfg.MetricsAddr = *fc.MetricsAddr
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	if fc.RespectRobots != nil {
		cfg.RespectRobotsTxt = *fc.RespectRobots
	}
	return nil
}

// DefaultFilePath returns the conventional config file location, or ""
// when the home directory is unknown.
func DefaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dojsearch.toml")
}
