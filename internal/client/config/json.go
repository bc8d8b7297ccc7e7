package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/studyhub/studyhub/internal/flagx"
	"github.com/studyhub/studyhub/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "15s" or as integer nanoseconds. Empty fields leave the runtime Config
// untouched.
type JsonConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	TokenDir       string         `json:"token_dir"`
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

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.TokenDir != "" {
		cfg.TokenDir = jc.TokenDir
	}
}
