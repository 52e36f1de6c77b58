package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvString returns the value of an environment variable and whether it
// was set.
func EnvString(key string) (string, bool) {
	return os.LookupEnv(key)
}

// EnvInt reads an integer environment variable.
func EnvInt(key string) (int, bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, true, nil
}

// EnvFloat reads a floating-point environment variable.
func EnvFloat(key string) (float64, bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return value, true, nil
}

// ApplyEnv overlays DOJSEARCH_* environment variables onto cfg. The
// delay variable is given in seconds, matching the CLI flag.
func ApplyEnv(cfg *Config) error {
	if value, ok := EnvString("DOJSEARCH_BASE_URL"); ok {
		cfg.BaseURL = value
	}
	if value, ok := EnvString("DOJSEARCH_USER_AGENT"); ok {
		cfg.UserAgent = value
	}
	value, ok, err := EnvFloat("DOJSEARCH_DELAY")
	if err != nil {
		return err
	}
	if ok {
		cfg.Delay = time.Duration(value * float64(time.Second))
	}
	if value, ok := EnvString("DOJSEARCH_OUTPUT_PATH"); ok {
		cfg.OutputPath = value
	}
	if value, ok := EnvString("DOJSEARCH_PREFIX"); ok {
		cfg.Prefix = value
	}
	if value, ok := EnvString("DOJSEARCH_METRICS_ADDR"); ok {
		cfg.MetricsAddr = value
	}
	return nil
}
