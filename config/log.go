package config

import "github.com/abstract-horizon/pyrosd/log"

// LogConfig is the configuration for logging.
type LogConfig struct {
	// Level is the minimum level used for logging. Set by the
	// pyros.config key debug.level; the repeated -v flag (-v, -vv, -vvv)
	// supplies a separate floor that is combined with it at startup.
	Level log.Level
	// Output is the location logs should be output to. Acceptable values
	// are either a path to a file or one of "stderr" (default), "stdout".
	Output string
	// Format is the format used for logging: "json" or "text" (default).
	Format string
}
