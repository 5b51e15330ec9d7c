package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// serviceCmd documents the integration point with a host service manager
// (systemd, launchd, Windows Service Control Manager). The spec scopes
// the service manager itself out of this engine's responsibilities; these
// subcommands exist so operators have a single, discoverable place to
// wire one in, not to reimplement one.
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Install or control lldpd as a host service (not implemented by this engine)",
}

func stubServiceCmd(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("service %s: not implemented — wire lldpd's `send` and `capture start` into your host's service manager (systemd/launchd/SCM)\n", name)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.AddCommand(
		stubServiceCmd("install", "Install lldpd unit files for the host service manager"),
		stubServiceCmd("start", "Start the installed lldpd service"),
		stubServiceCmd("stop", "Stop the installed lldpd service"),
		stubServiceCmd("restart", "Restart the installed lldpd service"),
		stubServiceCmd("status", "Report the installed lldpd service's status"),
		stubServiceCmd("uninstall", "Remove lldpd's installed service unit"),
	)
}
