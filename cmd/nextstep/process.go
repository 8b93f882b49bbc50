package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simonwafula/Nextstepjobs/internal/observability"
)

var processCommand = &cobra.Command{
	Use:   "process",
	Short: "Process the backlog of unprocessed jobs",
	Long: `Fetches each pending job's detail page, extracts structured fields,
runs AI enrichment when an API key is configured, and stores the result.
Jobs that failed earlier are retried until their retry budget is exhausted.`,
	RunE: runProcessCmd,
}

var processFlags sharedFlags

func init() {
	registerSharedFlags(processCommand, &processFlags)
	rootCmd.AddCommand(processCommand)
}

func runProcessCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	a, err := newApp(ctx, cmd, &processFlags)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Println("Processing backlog...")
	summary, err := a.orch.ProcessBacklog(ctx)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintProcessSummary(summary)
	return nil
}
