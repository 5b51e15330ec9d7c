package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nullgraph/lldpd/pkg/lldperr"
	"github.com/nullgraph/lldpd/pkg/logging"
)

var (
	version = "v0.1.0"
	commit  = "dev"
	date    = "unknown"
)

var rootOpts struct {
	noColor bool
	verbose int
}

var rootCmd = &cobra.Command{
	Use:   "lldpd",
	Short: "IEEE 802.1AB LLDP host engine",
	Long: `lldpd sends and receives Link Layer Discovery Protocol advertisements
on the host's network interfaces and maintains a durable neighbor table.

It is split into two independent halves: a sender that advertises this
host's identity on a timer, and a capture worker (managed through the
receiver controller) that listens for neighbor advertisements and
records them to a JSON neighbor store.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.InitColors(!rootOpts.noColor)
		logging.SetVerbosity(rootOpts.verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&rootOpts.noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().IntVarP(&rootOpts.verbose, "verbose", "v", 1, "verbosity level (0-3)")
	rootCmd.SetVersionTemplate(fmt.Sprintf("lldpd %s (commit: %s, built: %s)\n", version, commit, date))
}

// Execute runs the command tree and maps the resulting error onto the
// exit-code convention from spec section 6/7: 0 ok, 1 config/user error,
// 2 runtime error, 3 privilege error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.Error("%v", err)
		os.Exit(lldperr.ExitCode(err))
	}
}
