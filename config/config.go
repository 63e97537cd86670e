// Package config loads the local client configuration from a YAML or JSON
// file, with environment overrides for deployment-specific values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// EnvBalance overrides fallback_capital when set. The dashboard terminal
// exports it so the client and the trading terminal agree on the baseline.
const EnvBalance = "MT4_DASHBOARD_BALANCE"

// Config is the complete client configuration.
type Config struct {
	APIBaseURL       string  `json:"api_base_url" yaml:"api_base_url"`
	PollInterval     string  `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty"`
	CurveInterval    string  `json:"curve_interval,omitempty" yaml:"curve_interval,omitempty"`
	HTTPTimeout      string  `json:"http_timeout,omitempty" yaml:"http_timeout,omitempty"`
	PageSize         int     `json:"page_size,omitempty" yaml:"page_size,omitempty"`
	FallbackCapital  float64 `json:"fallback_capital,omitempty" yaml:"fallback_capital,omitempty"`
	SymbolColorsPath string  `json:"symbol_colors_path,omitempty" yaml:"symbol_colors_path,omitempty"`
}

// Default returns a configuration with sensible defaults. The base URL has
// no default; it must come from the file.
func Default() *Config {
	return &Config{
		PollInterval:    "2s",
		CurveInterval:   "60s",
		HTTPTimeout:     "30s",
		PageSize:        10,
		FallbackCapital: 1000,
	}
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON. Omitted fields keep their defaults, and the
// MT4_DASHBOARD_BALANCE environment variable overrides fallback_capital.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	raw, ok := os.LookupEnv(EnvBalance)
	if !ok || raw == "" {
		return nil
	}
	balance, err := cast.ToFloat64E(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", EnvBalance, err)
	}
	c.FallbackCapital = balance
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	if d, err := time.ParseDuration(c.PollInterval); err != nil || d <= 0 {
		return fmt.Errorf("poll_interval must be a positive duration, got %q", c.PollInterval)
	}
	if d, err := time.ParseDuration(c.CurveInterval); err != nil || d <= 0 {
		return fmt.Errorf("curve_interval must be a positive duration, got %q", c.CurveInterval)
	}
	if d, err := time.ParseDuration(c.HTTPTimeout); err != nil || d <= 0 {
		return fmt.Errorf("http_timeout must be a positive duration, got %q", c.HTTPTimeout)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive")
	}
	if c.FallbackCapital <= 0 {
		return fmt.Errorf("fallback_capital must be positive")
	}
	return nil
}

// Poll returns the trade/comment/capital polling interval.
func (c *Config) Poll() time.Duration { return mustDuration(c.PollInterval) }

// Curve returns the capital-curve refresh interval.
func (c *Config) Curve() time.Duration { return mustDuration(c.CurveInterval) }

// Timeout returns the HTTP client timeout.
func (c *Config) Timeout() time.Duration { return mustDuration(c.HTTPTimeout) }

// mustDuration assumes Validate already ran; it returns zero on a value that
// never passed validation.
func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
