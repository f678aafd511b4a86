// Package cmd defines the CLI commands for the docharvester executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docharvester",
		Short: "Downloads dated documents from a remote archive",
		Long: `docharvester scrapes an archive's index pages for downloadable
documents, extracts a publication date from the text accompanying each
link, skips documents already held locally or on record, and reports
accurate aggregate statistics for the run.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	cmd.AddCommand(newHarvestCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
