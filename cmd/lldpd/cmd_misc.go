package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nullgraph/lldpd/pkg/config"
	"github.com/nullgraph/lldpd/pkg/sysinfo"
)

var showInterfacesCmd = &cobra.Command{
	Use:   "show-interfaces",
	Short: "List operational network interfaces",
	RunE:  runShowInterfaces,
}

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Print the resolved runtime configuration",
	RunE:  runShowConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lldpd %s (commit: %s, built: %s)\n", version, commit, date)
		fmt.Printf("Go version: %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(showInterfacesCmd, showConfigCmd, versionCmd)
}

func runShowInterfaces(cmd *cobra.Command, args []string) error {
	snap, err := sysinfo.Collect()
	if err != nil {
		return err
	}
	fmt.Printf("%-12s %-18s %-8s %s\n", "NAME", "MAC", "UP", "IPv4")
	for _, iface := range snap.Interfaces {
		status := "down"
		if iface.IsOperational {
			status = "up"
		}
		ips := ""
		for i, ip := range iface.IPv4Addrs {
			if i > 0 {
				ips += ", "
			}
			ips += ip.String()
		}
		fmt.Printf("%-12s %-18s %-8s %s\n", iface.Name, iface.MAC, status, ips)
	}
	return nil
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runtimeDir())
	if err != nil {
		return err
	}
	fmt.Printf("interval:           %ds\n", cfg.Interval)
	fmt.Printf("interface:          %s\n", cfg.Interface)
	fmt.Printf("system_name:        %s\n", cfg.SystemName)
	fmt.Printf("system_description: %s\n", cfg.SystemDescription)
	fmt.Printf("port_description:   %s\n", cfg.PortDescription)
	fmt.Printf("management_address: %s\n", cfg.ManagementAddress)
	fmt.Printf("ttl:                %ds\n", cfg.TTL)
	fmt.Printf("neighbors_file:     %s\n", neighborsFilePath(cfg.NeighborsFile))
	return nil
}
