package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simonwafula/Nextstepjobs/internal/observability"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run a full ingestion cycle: scrape then process",
	Long: `Runs both phases back to back: scrapes all configured sources for new
listings, then processes the entire backlog of unprocessed jobs.`,
	RunE: runFullCmd,
}

var runFlags sharedFlags

func init() {
	registerSharedFlags(runCommand, &runFlags)
	rootCmd.AddCommand(runCommand)
}

func runFullCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, cmd, &runFlags)
	if err != nil {
		return err
	}
	defer a.close()

	printer := observability.NewPrinter(os.Stdout)

	fmt.Println("Phase 1/2: scraping sources...")
	scrapeSummary, err := a.orch.ScrapeAll(ctx)
	if err != nil {
		return err
	}
	printer.PrintScrapeSummary(scrapeSummary)

	fmt.Println("Phase 2/2: processing backlog...")
	processSummary, err := a.orch.ProcessBacklog(ctx)
	if err != nil {
		return err
	}
	printer.PrintProcessSummary(processSummary)

	return nil
}
