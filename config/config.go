// Package config holds run configuration for the search client.
package config

import (
	"fmt"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is the well-known search endpoint.
	DefaultBaseURL = "https://www.justice.gov/multimedia-search"
	// DefaultDelay is the respectful pause between page requests.
	DefaultDelay = 500 * time.Millisecond
	// DefaultUserAgent matches a plain desktop browser; the endpoint
	// serves the JSON layer to browser agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Config holds client and report configuration.
type Config struct {
	BaseURL          string
	UserAgent        string
	Timeout          time.Duration
	Delay            time.Duration
	OutputPath       string
	Prefix           string
	Head             int
	MetricsAddr      string
	Verbose          bool
	RespectRobotsTxt bool
}

// DefaultConfig returns the defaults for the public endpoint.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          DefaultBaseURL,
		UserAgent:        DefaultUserAgent,
		Timeout:          30 * time.Second,
		Delay:            DefaultDelay,
		OutputPath:       "lib_data",
		Prefix:           "doj-library",
		Head:             10,
		MetricsAddr:      "",
		Verbose:          false,
		RespectRobotsTxt: false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	if c.Prefix == "" {
		return fmt.Errorf("prefix cannot be empty")
	}
	if c.Head < 0 {
		return fmt.Errorf("head cannot be negative")
	}

	return nil
}
