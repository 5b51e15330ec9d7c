package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nullgraph/lldpd/pkg/config"
	"github.com/nullgraph/lldpd/pkg/logging"
	"github.com/nullgraph/lldpd/pkg/neighbor"
	"github.com/nullgraph/lldpd/pkg/watchui"
)

var neighborsOpts struct {
	watch bool
}

var showNeighborsCmd = &cobra.Command{
	Use:   "show-neighbors",
	Short: "List currently live LLDP neighbors",
	RunE:  runShowNeighbors,
}

var clearNeighborsCmd = &cobra.Command{
	Use:   "clear-neighbors",
	Short: "Discard all recorded neighbor state",
	RunE:  runClearNeighbors,
}

func init() {
	rootCmd.AddCommand(showNeighborsCmd, clearNeighborsCmd)
	showNeighborsCmd.Flags().BoolVar(&neighborsOpts.watch, "watch", false, "continuously refresh the table instead of printing once")
}

func openNeighborStore() (*neighbor.Store, error) {
	cfg, err := config.Load(runtimeDir())
	if err != nil {
		return nil, err
	}
	return neighbor.New(neighborsFilePath(cfg.NeighborsFile)), nil
}

func runShowNeighbors(cmd *cobra.Command, args []string) error {
	store, err := openNeighborStore()
	if err != nil {
		return err
	}

	if neighborsOpts.watch {
		return watchui.Run(store)
	}

	printNeighborTable(store.ListLive(time.Now().UTC()))
	return nil
}

func printNeighborTable(records []neighbor.Record) {
	if len(records) == 0 {
		fmt.Println("No live neighbors.")
		return
	}
	fmt.Printf("%-10s %-20s %-20s %-8s %s\n", "IFACE", "CHASSIS ID", "PORT ID", "TTL", "SYSTEM NAME")
	for _, r := range records {
		fmt.Printf("%-10s %-20s %-20s %-8d %s\n", r.Interface, r.ChassisID, r.PortID, r.ReceivedTTL, r.SystemName)
	}
}

func runClearNeighbors(cmd *cobra.Command, args []string) error {
	store, err := openNeighborStore()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	logging.Success("neighbor store cleared")
	return nil
}
