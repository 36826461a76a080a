package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

// NewCmdPS returns the [cobra.Command] that lists every known process.
//
// Usage:
//
//	pyros ps [flags]
func NewCmdPS() *cobra.Command {
	var human bool

	cmd := &cobra.Command{
		Use:     "ps",
		Short:   "List known processes",
		GroupID: "commands",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return systemQuery(cmd, "ps", 5*time.Second, human)
		},
	}

	cmd.Flags().BoolVarP(&human, "human", "H", false, "Render sizes and columns for human readability")
	addAdminFlags(cmd)

	return cmd
}

// NewCmdServices returns the [cobra.Command] that lists processes
// promoted to service.
//
// Usage:
//
//	pyros services [flags]
func NewCmdServices() *cobra.Command {
	var human bool

	cmd := &cobra.Command{
		Use:     "services",
		Short:   "List processes registered as services",
		GroupID: "commands",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return systemQuery(cmd, "services", 5*time.Second, human)
		},
	}

	cmd.Flags().BoolVarP(&human, "human", "H", false, "Render sizes and columns for human readability")
	addAdminFlags(cmd)

	return cmd
}
