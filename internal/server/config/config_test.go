package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8000", c.Addr)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidity)
	assert.Equal(t, 5, c.DefaultInviteQuota)
	assert.Equal(t, 100, c.RegisterPoints)
}

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "flag.json", map[string]any{
		"addr":                  ":9000",
		"database_dsn":          "postgres://localhost/studyhub",
		"secret_key":            "s3cret",
		"access_token_validity": "1h",
		"default_invite_quota":  3,
		"register_points":       50,
		"bootstrap_invite_code": "ROOT0001",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, ":9000", cfg.Addr)
		assert.Equal(t, "postgres://localhost/studyhub", cfg.DatabaseDSN)
		assert.Equal(t, "s3cret", cfg.SecretKey)
		assert.Equal(t, time.Hour, cfg.AccessTokenValidity)
		assert.Equal(t, 3, cfg.DefaultInviteQuota)
		assert.Equal(t, 50, cfg.RegisterPoints)
		assert.Equal(t, "ROOT0001", cfg.BootstrapInviteCode)
	})

	t.Run("partial JSON keeps untouched fields", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"addr": ":7070",
		})
		os.Args = []string{"testbin", "-config", partial}

		cfg := &Config{SecretKey: "keep", DefaultInviteQuota: 9}
		parseJson(cfg)

		assert.Equal(t, ":7070", cfg.Addr)
		assert.Equal(t, "keep", cfg.SecretKey)
		assert.Equal(t, 9, cfg.DefaultInviteQuota)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ nope`), 0o600))
		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
