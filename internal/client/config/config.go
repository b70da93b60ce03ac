package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the repowatch client.
//
// Fields:
//   - ServerURL: base URL of the dashboard backend (auth and watch-list API).
//   - DatabasePath: SQLite file holding the persisted session.
//   - RequestTimeout: per-request timeout for backend calls.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL      string
	DatabasePath   string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.DatabasePath = "session.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
