package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abstract-horizon/pyrosd/config"
	"github.com/abstract-horizon/pyrosd/daemon"
	"github.com/abstract-horizon/pyrosd/log"
)

// Flags for pyros run.
var (
	Home      string // -d home-dir
	ClusterID string // -c cluster-id
	Timeout   int    // -t timeout (seconds)
	Verbosity int    // -v/-vv/-vvv
)

// NewCmdRun returns the [cobra.Command] that runs the daemon: the
// MQTT-driven command router, the per-process lifecycle manager, the
// process registry, and the auto-start/agent-liveness loop.
//
// Usage:
//
//	pyros run [flags] [host[:port]]
//
// Flags:
//
//	-d, --home string       Working directory root (default ".")
//	-c, --cluster string    Cluster id (default "master")
//	-t, --timeout int       Broker connect timeout, seconds
//	-v                      Increase log verbosity (repeatable)
func NewCmdRun() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run [host[:port]]",
		Aliases: []string{"start"},
		Short:   "Run the daemon",
		GroupID: "commands",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runDaemon,
	}

	cmd.Flags().SortFlags = false
	cmd.Flags().StringVarP(&Home, "home", "d", "", "Working directory root")
	cmd.Flags().StringVarP(&ClusterID, "cluster", "c", "", "Cluster id")
	cmd.Flags().IntVarP(&Timeout, "timeout", "t", 0, "Broker connect timeout, seconds")
	cmd.Flags().CountVarP(&Verbosity, "verbose", "v", "Increase log verbosity")

	cmd.SetHelpTemplate(cmd.HelpTemplate() + "\n" + fullDocsFooter + "\n")

	return cmd
}

func runDaemon(cmd *cobra.Command, args []string) error {
	home := findHome(Home)

	cfg, err := config.Load(homeConfigPath(home))
	if err != nil {
		return &ExitError{Err: err, Code: 1}
	}

	cfg.Home = home

	if ClusterID != "" {
		cfg.ClusterID = ClusterID
	}

	if Timeout > 0 {
		cfg.MQTT.Timeout = time.Duration(Timeout) * time.Second
	}

	if len(args) > 0 {
		host, port := maybeWithPort(args[0], cfg.MQTT.Port)
		cfg.MQTT.Host = host
		cfg.MQTT.Port = port
	}

	level := verbosityLevel(Verbosity)
	setLogHandler(cfg.Log.Output, cfg.Log.Format, cfg.Log.Level, level)

	log.Info("starting pyrosd", "home", home, "cluster", cfg.Cluster(), "broker", cfg.MQTT.Broker())

	if err := PrintBanner(cmd); err != nil {
		log.WarnError("failed to print banner", err)
	}

	d := daemon.New(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx); err != nil {
		return &ExitError{Err: err, Code: 1}
	}

	return nil
}

// verbosityLevel maps the repeated -v flag to a log level: 0 is Warn
// (the quiet default), each additional -v drops one slog level step.
func verbosityLevel(v int) log.Level {
	switch {
	case v <= 0:
		return log.LevelWarn
	case v == 1:
		return log.LevelInfo
	default:
		return log.LevelDebug
	}
}
