package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/repowatch/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   backend base URL
//	-d string   session database path
//	-t int      request timeout in seconds
//	-l string   log level
//
// Only these flags are looked at (see flagx.FilterArgs), so -c/-config and
// anything else on the command line is left alone.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "backend base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "session database path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
