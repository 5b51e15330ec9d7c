package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nullgraph/lldpd/pkg/capture"
	"github.com/nullgraph/lldpd/pkg/config"
	"github.com/nullgraph/lldpd/pkg/logging"
	"github.com/nullgraph/lldpd/pkg/neighbor"
	"github.com/nullgraph/lldpd/pkg/receiver"
	"github.com/nullgraph/lldpd/pkg/storage"
	"github.com/nullgraph/lldpd/pkg/sysinfo"
)

// captureWorkerCmd is the actual receive loop process spawned by
// `capture start` (spec section 4.3). It is hidden: operators only ever
// talk to it indirectly through `capture {start,stop,status,log}`.
var captureWorkerCmd = &cobra.Command{
	Use:    "capture-worker",
	Hidden: true,
	RunE:   runCaptureWorker,
}

func init() {
	rootCmd.AddCommand(captureWorkerCmd)
}

func runCaptureWorker(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runtimeDir())
	if err != nil {
		return err
	}

	snap, err := sysinfo.Collect()
	if err != nil {
		return err
	}
	if err := config.ValidateInterface(cfg, snap); err != nil {
		return err
	}

	pidFile := receiver.NewPIDFile(pidFilePath())
	if err := pidFile.Write(os.Getpid()); err != nil {
		return err
	}
	defer pidFile.Remove()

	sessions, err := storage.Open(sessionsDBPath())
	if err != nil {
		logging.Warning("capture worker: session ledger unavailable: %v", err)
		sessions = nil
	} else {
		defer sessions.Close()
	}

	worker := &capture.Worker{
		Interfaces: resolveWorkerInterfaces(cfg),
		Store:      neighbor.New(neighborsFilePath(cfg.NeighborsFile)),
		Sessions:   sessions,
	}

	stop := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		close(stop)
	}()

	return worker.Run(stop)
}
