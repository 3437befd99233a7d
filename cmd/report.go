// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/naka-gawa/review-kpi/internal/config"
	"github.com/naka-gawa/review-kpi/internal/daterange"
	"github.com/naka-gawa/review-kpi/internal/gateway"
	"github.com/naka-gawa/review-kpi/internal/report"
	"github.com/naka-gawa/review-kpi/internal/usecase"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <team_slug> <month_spec>",
	Short: "Generates a code-review KPI report for a GitHub team",
	Long: `Generates a code-review KPI report covering pull requests created within
the requested month window, across every repository of the given team.

The month spec is relative to the current month:
  "0"    current month only
  "1"    previous month only
  "2-0"  from 2 months ago up to and including the current month
  "14-2" from 14 months ago up to 2 months ago`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		teamSlug := args[0]
		useTable, _ := cmd.Flags().GetBool("table")

		// Configuration and month-spec problems are fatal before any network call.
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		spec, err := daterange.ParseMonthSpec(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		window := daterange.Resolve(spec, time.Now().UTC())

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(cfg.Token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		aggregator := usecase.NewAggregator(githubGateway, logger)

		repos, err := githubGateway.ListTeamRepos(ctx, cfg.Org, teamSlug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list team repositories: %v\n", err)
			os.Exit(1)
		}

		metrics, err := aggregator.Fold(ctx, cfg.Org, repos, window)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate metrics: %v\n", err)
			os.Exit(1)
		}

		rep := report.Report{
			Org:         cfg.Org,
			Team:        teamSlug,
			Window:      window,
			GeneratedAt: time.Now().UTC(),
			Months:      metrics,
		}
		if useTable {
			report.RenderTable(os.Stdout, rep)
		} else {
			report.RenderText(os.Stdout, rep)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Bool("table", false, "Output the report in table format")
}
