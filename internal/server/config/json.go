package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/studyhub/studyhub/internal/flagx"
	"github.com/studyhub/studyhub/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Empty fields
// leave the runtime Config untouched.
type JsonConfig struct {
	Addr                   string         `json:"addr"`
	DatabaseDSN            string         `json:"database_dsn"`
	SecretKey              string         `json:"secret_key"`
	AccessTokenValidity    timex.Duration `json:"access_token_validity"`
	DefaultInviteQuota     int            `json:"default_invite_quota"`
	RegisterPoints         int            `json:"register_points"`
	BootstrapInviteCode    string         `json:"bootstrap_invite_code"`
	BootstrapAdminPassword string         `json:"bootstrap_admin_password"`
}

// parseJson overlays Config with values loaded from a JSON file resolved via
// the -c/-config flags. No file means no overlay. Read or unmarshal errors
// panic, as a broken explicit config should not be silently ignored.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Addr != "" {
		cfg.Addr = jc.Addr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.AccessTokenValidity.Duration != 0 {
		cfg.AccessTokenValidity = time.Duration(jc.AccessTokenValidity.Duration)
	}
	if jc.DefaultInviteQuota != 0 {
		cfg.DefaultInviteQuota = jc.DefaultInviteQuota
	}
	if jc.RegisterPoints != 0 {
		cfg.RegisterPoints = jc.RegisterPoints
	}
	if jc.BootstrapInviteCode != "" {
		cfg.BootstrapInviteCode = jc.BootstrapInviteCode
	}
	if jc.BootstrapAdminPassword != "" {
		cfg.BootstrapAdminPassword = jc.BootstrapAdminPassword
	}
}
