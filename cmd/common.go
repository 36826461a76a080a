package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/abstract-horizon/pyrosd/internal/build"
	"github.com/abstract-horizon/pyrosd/log"
)

// findHome resolves the working directory root used for <home>/code,
// <home>/pyros.config, <home>/logs, <home>/data: the -d flag if given,
// else the current directory, matching the daemon CLI's documented
// "-d home-dir" input with no environment fallback of its own.
func findHome(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	return "."
}

const banner = `┌────────────────────────────────────────────────────────────┐
│                                                            │
│   ██████╗ ██╗   ██╗██████╗  ██████╗ ███████╗               │
│   ██╔══██╗╚██╗ ██╔╝██╔══██╗██╔═══██╗██╔════╝               │
│   ██████╔╝ ╚████╔╝ ██████╔╝██║   ██║███████╗               │
│   ██╔═══╝   ╚██╔╝  ██╔══██╗██║   ██║╚════██║               │
│   ██║        ██║   ██║  ██║╚██████╔╝███████║               │
│   ╚═╝        ╚═╝   ╚═╝  ╚═╝ ╚═════╝ ╚══════╝               │
│                                                            │
│     Version: {{printf "%%-18.18s" .Version}}                            │
│     Build Time: %-26.26s                 │
│                                                            │
└────────────────────────────────────────────────────────────┘
`

// BannerTemplate returns the string used for templating the banner.
func BannerTemplate() string {
	return fmt.Sprintf(banner, build.BuildTime())
}

// PrintBanner prints the banner to the given command's output.
func PrintBanner(cmd *cobra.Command) error {
	t := template.New("banner")

	template.Must(t.Parse(BannerTemplate()))

	return t.Execute(cmd.OutOrStdout(), cmd.Root())
}

const fullDocsFooter = `Full documentation is available at:
https://pkg.go.dev/github.com/abstract-horizon/pyrosd`

// maybeWithPort splits addr into host and port. When addr carries no
// numeric ":port" of its own, it returns addr unchanged with port.
func maybeWithPort(addr string, port int) (string, int) {
	if host, p, ok := strings.Cut(addr, ":"); ok {
		if n, err := strconv.Atoi(p); err == nil {
			return host, n
		}
	}

	return addr, port
}

// setLogHandler configures the default logger's level/format/output from
// cfg, matching the -v/-vv/-vvv verbosity flags' documented behavior: the
// flag-derived minLevel is never relaxed by a quieter config file value.
func setLogHandler(output, format string, level, minLevel log.Level) {
	var w *os.File

	switch strings.ToLower(output) {
	case "", "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Error("unable to open log file, deferring to stderr", err)
			w = os.Stderr
		} else {
			w = f
			AddCleanup(func() { f.Close() })
		}
	}

	if level < minLevel {
		level = minLevel
	}

	log.SetLogLevel(level)

	opts := &slog.HandlerOptions{Level: slog.Level(level)}

	switch strings.ToLower(format) {
	case "json":
		log.SetHandler(slog.NewJSONHandler(w, opts))
	default:
		log.SetHandler(slog.NewTextHandler(w, opts))
	}
}

func homeConfigPath(home string) string {
	return filepath.Join(home, "pyros.config")
}
