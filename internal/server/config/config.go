// Package config handles configuration for the dev server, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the StudyHub server.
//
// Fields:
//   - Addr: listen address for the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN; empty selects the in-memory repository.
//   - SecretKey: HMAC key for signing access tokens.
//   - AccessTokenValidity: lifetime of issued access tokens.
//   - DefaultInviteQuota: invite uses granted to every new account.
//   - RegisterPoints: points awarded at sign-up.
//   - BootstrapInviteCode: invite code given to the seeded admin; empty
//     means a random one is generated and logged on startup.
//   - BootstrapAdminPassword: password of the seeded admin account.
type Config struct {
	Addr                   string
	DatabaseDSN            string
	SecretKey              string
	AccessTokenValidity    time.Duration
	DefaultInviteQuota     int
	RegisterPoints         int
	BootstrapInviteCode    string
	BootstrapAdminPassword string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8000"
	c.DatabaseDSN = ""
	c.SecretKey = "dev-secret-change-me"
	c.AccessTokenValidity = 24 * time.Hour
	c.DefaultInviteQuota = 5
	c.RegisterPoints = 100
	c.BootstrapInviteCode = ""
	c.BootstrapAdminPassword = "admin-change-me1"
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
