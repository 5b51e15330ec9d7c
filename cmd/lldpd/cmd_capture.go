package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nullgraph/lldpd/pkg/config"
	"github.com/nullgraph/lldpd/pkg/logging"
	"github.com/nullgraph/lldpd/pkg/receiver"
	"github.com/nullgraph/lldpd/pkg/sysinfo"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Control the capture worker (the LLDP receiver)",
}

var captureStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the capture worker as a detached background process",
	RunE:  runCaptureStart,
}

var captureStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the capture worker",
	RunE:  runCaptureStop,
}

var captureStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the capture worker is running",
	RunE:  runCaptureStatus,
}

var captureLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Print the capture worker's log",
	RunE:  runCaptureLog,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.AddCommand(captureStartCmd, captureStopCmd, captureStatusCmd, captureLogCmd)
}

func newController() *receiver.Controller {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return &receiver.Controller{
		WorkerArgs: []string{exe, "capture-worker"},
		PIDFile:    receiver.NewPIDFile(pidFilePath()),
		LogPath:    captureLogPath(),
	}
}

func runCaptureStart(cmd *cobra.Command, args []string) error {
	c := newController()
	if err := c.Start(); err != nil {
		return err
	}
	logging.Success("capture worker started")
	return nil
}

func runCaptureStop(cmd *cobra.Command, args []string) error {
	c := newController()
	if err := c.Stop(); err != nil {
		return err
	}
	logging.Success("capture worker stopped")
	return nil
}

func runCaptureStatus(cmd *cobra.Command, args []string) error {
	c := newController()
	status := c.StatusOf()
	if !status.Running {
		fmt.Println("capture worker: stopped")
		return nil
	}
	fmt.Printf("capture worker: running (pid %d, uptime %s)\n", status.PID, status.Uptime.Round(1e9))
	return nil
}

func runCaptureLog(cmd *cobra.Command, args []string) error {
	c := newController()
	return c.Log(os.Stdout)
}

// resolveWorkerInterfaces expands the configured interface target ("all"
// or a literal name) into the concrete interface list the capture worker
// should open, mirroring the sender's own target resolution but without
// requiring an IPv4 address (the capture worker only needs to listen).
func resolveWorkerInterfaces(cfg config.Config) []string {
	if cfg.Interface != "all" {
		return []string{cfg.Interface}
	}
	snap, err := sysinfo.Collect()
	if err != nil {
		logging.Warning("capture worker: failed to enumerate interfaces: %v", err)
		return nil
	}
	var names []string
	for _, iface := range snap.Operational() {
		names = append(names, iface.Name)
	}
	return names
}
