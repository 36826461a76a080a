package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abstract-horizon/pyrosd/registry"
)

// NewCmdInspect returns the [cobra.Command] that dumps the local
// registry's on-disk state as YAML. Unlike ps/services, this reads
// code/ directly and does not require a running daemon or broker; it
// exists for diagnosing a registry without disturbing it.
//
// Usage:
//
//	pyros inspect [flags]
func NewCmdInspect() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inspect",
		Short:   "Dump the on-disk registry as YAML, without a broker",
		GroupID: "commands",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inspectRegistry(cmd)
		},
	}

	addAdminFlags(cmd)

	return cmd
}

func inspectRegistry(cmd *cobra.Command) error {
	cfg, err := loadAdminConfig()
	if err != nil {
		return &ExitError{Err: err, Code: 1}
	}

	reg := registry.New(cfg.Home)

	if _, err := reg.Discover(); err != nil {
		return &ExitError{Err: err, Code: 1}
	}

	snaps := reg.Snapshots()

	out, err := yaml.Marshal(snaps)
	if err != nil {
		return &ExitError{Err: err, Code: 1}
	}

	cmd.Print(string(out))

	return nil
}
