// Package config loads runtime configuration for the repowatch client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / -config, or $REPOWATCH_CONFIG.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend
//	-d string   path of the local session database
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations accept "10s" style strings or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "database_path": "session.db",
//	  "request_timeout": "10s",
//	  "log_level": "info"
//	}
//
// Parse errors panic; they can only come from a broken command line or
// config file and there is nothing sensible to run without one.
package config
