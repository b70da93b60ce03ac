// Package flagx lets several config loaders share one command line: each
// loader keeps only the flags it owns and parses them with its own FlagSet.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// ConfigPathEnv names the environment variable consulted when no -c/-config
// flag is given.
const ConfigPathEnv = "REPOWATCH_CONFIG"

// FilterArgs keeps only the allowed flags (and their values) from args.
//
// Both "-f value" and "-f=value" forms are recognised. A token that starts
// with '-' is never consumed as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath returns the JSON config file chosen via -c/-config in args,
// falling back to $REPOWATCH_CONFIG. Empty means no file.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	if path == "" {
		path = strings.TrimSpace(os.Getenv(ConfigPathEnv))
	}
	return path
}
