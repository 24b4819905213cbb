package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Env selects which execution backend and price oracle variant the process
// talks to.
type Env string

const (
	// EnvReal trades against the live brokerage API.
	EnvReal Env = "real"
	// EnvPaper trades against the simulated venue.
	EnvPaper Env = "paper"
	// EnvDB trades against the local trading database only.
	EnvDB Env = "db"
)

// ParseEnv converts a config string into an Env.
func ParseEnv(s string) (Env, error) {
	switch Env(strings.ToLower(s)) {
	case EnvReal, EnvPaper, EnvDB:
		return Env(strings.ToLower(s)), nil
	}
	return "", fmt.Errorf("unknown env %q (want real, paper or db)", s)
}

// Config represents the complete daytrader configuration.
type Config struct {
	Env     string        `json:"env" yaml:"env"`
	Ledger  LedgerConfig  `json:"ledger" yaml:"ledger"`
	Session SessionConfig `json:"session" yaml:"session"`
	KIS     KISConfig     `json:"kis" yaml:"kis"`
}

// LedgerConfig locates the trading database.
type LedgerConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// SessionConfig contains session-loop parameters.
type SessionConfig struct {
	HolidayDir string `json:"holiday_dir" yaml:"holiday_dir"`
	Grace      string `json:"grace,omitempty" yaml:"grace,omitempty"` // e.g. "5m"
}

// KISConfig contains brokerage API parameters. The app key and secret are
// not stored in the file; they come from the environment (KIS_APP_KEY,
// KIS_APP_SECRET), loaded via .env at startup.
type KISConfig struct {
	Account string `json:"account,omitempty" yaml:"account,omitempty"`
	// Paper points the real env at the brokerage's mock-trading endpoint.
	Paper bool `json:"paper,omitempty" yaml:"paper,omitempty"`
}

// ParseGrace converts the grace string to a duration; empty means the
// 5 minute default.
func (s SessionConfig) ParseGrace() (time.Duration, error) {
	if s.Grace == "" {
		return 5 * time.Minute, nil
	}
	return time.ParseDuration(s.Grace)
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	env, err := ParseEnv(c.Env)
	if err != nil {
		return err
	}
	if c.Ledger.DBPath == "" {
		return fmt.Errorf("ledger.db_path is required")
	}
	if c.Session.HolidayDir == "" {
		return fmt.Errorf("session.holiday_dir is required")
	}
	if d, err := c.Session.ParseGrace(); err != nil {
		return fmt.Errorf("session.grace: %w", err)
	} else if d <= 0 {
		return fmt.Errorf("session.grace must be positive")
	}
	if env == EnvReal && c.KIS.Account == "" {
		return fmt.Errorf("kis.account is required for env: real")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Env: string(EnvPaper),
		Ledger: LedgerConfig{
			DBPath: "./daytrader.db",
		},
		Session: SessionConfig{
			HolidayDir: "./data",
			Grace:      "5m",
		},
	}
}
