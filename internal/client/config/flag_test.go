package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://10.0.0.1:5000", "-d", "/tmp/s.db", "-t", "3", "-l", "debug"},
			expected: &Config{
				ServerURL: "http://10.0.0.1:5000", DatabasePath: "/tmp/s.db",
				RequestTimeout: 3 * time.Second, LogLevel: "debug",
			},
		},
		{
			name: "foreign flags ignored",
			args: []string{"-c", "x.json", "-a", "http://h", "positional"},
			expected: &Config{
				ServerURL: "http://h", DatabasePath: "session.db",
				RequestTimeout: 10 * time.Second, LogLevel: "info",
			},
		},
		{name: "bad timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.LoadDefaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
