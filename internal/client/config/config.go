// Package config handles configuration for the client CLI, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the StudyHub CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend API, including the /api/v1 prefix.
//   - RequestTimeout: per-request HTTP timeout.
//   - TokenDir: directory holding the persisted bearer token.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	TokenDir       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000/api/v1"
	c.RequestTimeout = 15 * time.Second
	c.TokenDir = ".studyhub"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
