package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nullgraph/lldpd/pkg/config"
	"github.com/nullgraph/lldpd/pkg/logging"
	"github.com/nullgraph/lldpd/pkg/sender"
	"github.com/nullgraph/lldpd/pkg/sysinfo"
)

var sendOpts struct {
	iface string
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Advertise this host's identity on a timer",
	Long: `send runs the sender loop: it builds an LLDP frame for each target
interface and emits it on the configured interval until interrupted, then
withdraws (TTL=0) before exiting.`,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sendOpts.iface, "interface", "i", "", "override LLDP_INTERFACE for this run")
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runtimeDir())
	if err != nil {
		return err
	}
	if sendOpts.iface != "" {
		cfg.Interface = sendOpts.iface
	}

	snap, err := sysinfo.Collect()
	if err != nil {
		return err
	}
	if err := config.ValidateInterface(cfg, snap); err != nil {
		return err
	}

	if cfg.SystemDescription == "" {
		if descriptor, err := config.LoadServiceDescriptor(runtimeDir()); err != nil {
			logging.Warning("ignoring lldpd.yaml: %v", err)
		} else if text := descriptor.String(); text != "" {
			cfg.SystemDescription = text
		}
	}

	s := sender.NewWithCapture(sender.FromLoaded(cfg))

	logging.Info("sending LLDP advertisements on %q every %ds (TTL %ds)", cfg.Interface, cfg.Interval, cfg.TTL)

	stop := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		s.Run(stop)
		close(done)
	}()

	<-sigChan
	logging.Info("shutting down, withdrawing advertisements...")
	close(stop)
	<-done

	s.Withdraw()
	logging.Success("sender stopped")
	return nil
}
