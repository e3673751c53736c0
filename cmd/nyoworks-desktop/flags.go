package main

import (
	"github.com/spf13/pflag"
)

// flags holds the parsed command line.
type flags struct {
	ConfigPath string
	LogLevel   string
	Version    bool
}

// parseFlags parses args (without the program name).
func parseFlags(args []string) (flags, error) {
	fs := pflag.NewFlagSet("nyoworks-desktop", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "Path to the user config.toml (default ~/.<identifier>/config.toml)")
	logLevel := fs.String("log-level", "", "Override the log level (trace, debug, info, warning, error)")
	version := fs.BoolP("version", "v", false, "Print version information as JSON and exit")

	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}

	return flags{
		ConfigPath: *configPath,
		LogLevel:   *logLevel,
		Version:    *version,
	}, nil
}
