// Package main provides the entry point for the gds CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for gds.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gds",
		Short: "Search-engine dork scanner for exposed files and misconfigurations",
		Long: `gds dispatches search-engine dork queries from a catalog, records the
URLs they surface, and optionally snapshots each result page to flag
likely sensitive content.

Findings stream to results.jsonl and results.csv as they are found, so
an interrupted run keeps everything recorded up to the interrupt.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
