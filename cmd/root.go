// Package cmd implements the pyrosd/pyros command-line front-ends: `run`
// starts the daemon (the system's core); `ps`, `services`, `stop`, and
// `logs` are thin MQTT clients that publish/subscribe on the same topics
// any other collaborator could, matching the daemon's external
// interfaces.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abstract-horizon/pyrosd/internal/build"
	"github.com/abstract-horizon/pyrosd/internal/cleanup"
)

// RootCommand is the root [cobra.Command] of the program.
var RootCommand = &cobra.Command{
	Use:     "pyros",
	Short:   "A remote code-execution daemon driven over MQTT.",
	Long:    `pyros turns an MQTT broker into a control plane for uploading, starting, monitoring, stopping, and supervising programs on a host.`,
	Version: build.Version(),
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup.Cleanup()
	},
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	SilenceErrors:     true,
	SilenceUsage:      true,
}

func init() {
	cobra.EnableCommandSorting = false
	RootCommand.SetVersionTemplate(BannerTemplate())
	RootCommand.SetHelpTemplate(RootCommand.HelpTemplate() + "\n" + fullDocsFooter + "\n")
	RootCommand.AddGroup(
		&cobra.Group{ID: "commands", Title: "Commands:"},
	)

	RootCommand.AddCommand(NewCmdRun())
	RootCommand.AddCommand(NewCmdPS())
	RootCommand.AddCommand(NewCmdServices())
	RootCommand.AddCommand(NewCmdStop())
	RootCommand.AddCommand(NewCmdLogs())
	RootCommand.AddCommand(NewCmdInspect())
}

// AddCleanup adds function(s) to be run as part of the PersistentPostRun
// of [RootCommand].
func AddCleanup(f ...func()) {
	cleanup.Register(f...)
}

// ExitError is an error that should cause the program to exit with the
// given code, per the daemon's documented exit codes (0 normal, 1 fatal,
// broker-returned RC otherwise).
type ExitError struct {
	Err  error
	Code int
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Execute runs [RootCommand].
func Execute() error {
	return RootCommand.Execute()
}
