// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "review-kpi",
	Short: "A CLI tool to compute code-review KPIs for a GitHub team.",
	Long: `review-kpi computes code-review KPIs (review coverage, cycle time,
reviewer participation, auto-approval detection) across the repositories of a
GitHub team over a configurable historical window, and prints a plain-text or
tabular report.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
