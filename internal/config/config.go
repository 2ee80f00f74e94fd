// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package config loads flowdesk settings from ~/.flowdesk/config.yaml and
// the FLOWDESK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvAPIURL   = "FLOWDESK_API_URL"
	EnvToken    = "FLOWDESK_TOKEN"
	EnvTimeout  = "FLOWDESK_TIMEOUT"
	EnvLogDir   = "FLOWDESK_LOG_DIR"
	EnvFixtures = "FLOWDESK_FIXTURES"
)

// Defaults.
const (
	DefaultAPIURL  = "http://localhost:8080/api"
	DefaultTimeout = 30 * time.Second
)

// Config holds every setting the CLI and console read.
type Config struct {
	APIURL   string `yaml:"api_url"`
	Token    string `yaml:"token"`
	LogDir   string `yaml:"log_dir"`
	Fixtures string `yaml:"fixtures"`
	Demo     bool   `yaml:"demo"`

	Timeout    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout"`
}

// Dir returns ~/.flowdesk.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".flowdesk")
}

// DefaultPath returns ~/.flowdesk/config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		APIURL:  DefaultAPIURL,
		LogDir:  filepath.Join(Dir(), "logs"),
		Timeout: DefaultTimeout,
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error. ${VAR} references in the file are expanded.
// The result is not validated; callers apply their flags first and then
// call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.TimeoutRaw != "" {
		d, err := time.ParseDuration(cfg.TimeoutRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing timeout %q: %w", cfg.TimeoutRaw, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		cfg.TimeoutRaw = v
	}
	if v := os.Getenv(EnvLogDir); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv(EnvFixtures); v != "" {
		cfg.Fixtures = v
	}
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} with the variable's value, or "" when unset.
func expandEnvVars(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envRef.FindStringSubmatch(match)[1])
	})
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Demo {
		return nil
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url %q is not an absolute URL", c.APIURL)
	}
	return nil
}
