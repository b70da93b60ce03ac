package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/repowatch/internal/flagx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_url":      "http://www.example:9000",
		"database_path":   "/var/lib/repowatch.db",
		"request_timeout": "5s",
		"log_level":       "warn",
	})

	t.Run("loads from flag", func(t *testing.T) {
		t.Setenv(flagx.ConfigPathEnv, "")
		cfg := &Config{}
		parseJson(cfg, []string{"-config", path})

		assert.Equal(t, "http://www.example:9000", cfg.ServerURL)
		assert.Equal(t, "/var/lib/repowatch.db", cfg.DatabasePath)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("loads from env", func(t *testing.T) {
		t.Setenv(flagx.ConfigPathEnv, path)
		cfg := &Config{}
		parseJson(cfg, nil)

		assert.Equal(t, "http://www.example:9000", cfg.ServerURL)
	})

	t.Run("no file leaves config alone", func(t *testing.T) {
		t.Setenv(flagx.ConfigPathEnv, "")
		cfg := &Config{ServerURL: "http://defaults:1234", RequestTimeout: 42 * time.Second}
		parseJson(cfg, nil)

		assert.Equal(t, "http://defaults:1234", cfg.ServerURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("partial file only overrides named fields", func(t *testing.T) {
		t.Setenv(flagx.ConfigPathEnv, "")
		partial := writeTempJSON(t, map[string]any{"log_level": "debug"})
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-c", partial})

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "http://127.0.0.1:5000", cfg.ServerURL)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		t.Setenv(flagx.ConfigPathEnv, "")
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", bad}) })
	})
}
