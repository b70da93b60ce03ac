package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/repowatch/internal/flagx"
	"github.com/dmitrijs2005/repowatch/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "zero", so a partial file only overrides
// what it names.
type JsonConfig struct {
	ServerURL      *string         `json:"server_url"`
	DatabasePath   *string         `json:"database_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       *string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named on the command line
// (or in $REPOWATCH_CONFIG). No file means no changes.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
