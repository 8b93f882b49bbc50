package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simonwafula/Nextstepjobs/internal/observability"
	"github.com/Simonwafula/Nextstepjobs/internal/scrape"
)

var scrapeCommand = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape job boards for listing stubs",
	Long: `Scrapes the configured job boards for listings matching the search terms
and stores new stubs for later processing. Already-known URLs are skipped.`,
	RunE: runScrapeCmd,
}

var (
	scrapeFlags sharedFlags
	scrapeSite  string
)

func init() {
	registerSharedFlags(scrapeCommand, &scrapeFlags)
	scrapeCommand.Flags().StringVar(&scrapeSite, "site", "all", "Site to scrape (brightermonday, indeed, linkedin, a configured site, or all)")
	rootCmd.AddCommand(scrapeCommand)
}

func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, cmd, &scrapeFlags)
	if err != nil {
		return err
	}
	defer a.close()

	if scrapeSite != "" && scrapeSite != "all" {
		adapter, err := a.registry.Get(scrapeSite)
		if err != nil {
			return err
		}
		a.orch.Sources = []scrape.Adapter{adapter}
	}

	fmt.Printf("Scraping %d source(s)...\n", len(a.orch.Sources))
	summary, err := a.orch.ScrapeAll(ctx)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintScrapeSummary(summary)
	return nil
}
