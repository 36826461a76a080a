package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

// NewCmdStop returns the [cobra.Command] that requests a graceful daemon
// shutdown: the daemon cooperatively stops every process before exiting.
//
// Usage:
//
//	pyros stop [flags]
func NewCmdStop() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stop",
		Short:   "Stop the running daemon",
		GroupID: "commands",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return systemQuery(cmd, "stop", 30*time.Second, false)
		},
	}

	addAdminFlags(cmd)

	return cmd
}
