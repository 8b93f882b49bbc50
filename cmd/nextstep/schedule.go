package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/Simonwafula/Nextstepjobs/internal/observability"
)

var scheduleCommand = &cobra.Command{
	Use:   "schedule",
	Short: "Run full ingestion cycles on a cron schedule",
	Long: `Runs an ingestion cycle immediately and then on the given cron schedule
until interrupted. The default schedule runs every day at 02:00.`,
	RunE: runScheduleCmd,
}

var (
	scheduleFlags sharedFlags
	scheduleSpec  string
)

func init() {
	registerSharedFlags(scheduleCommand, &scheduleFlags)
	scheduleCommand.Flags().StringVar(&scheduleSpec, "cron", "0 2 * * *", "Cron schedule for ingestion cycles")
	rootCmd.AddCommand(scheduleCommand)
}

func runScheduleCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd, &scheduleFlags)
	if err != nil {
		return err
	}
	defer a.close()

	printer := observability.NewPrinter(os.Stdout)

	cycle := func() {
		scrapeSummary, err := a.orch.ScrapeAll(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "scrape phase failed: %v\n", err)
			return
		}
		printer.PrintScrapeSummary(scrapeSummary)

		processSummary, err := a.orch.ProcessBacklog(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "process phase failed: %v\n", err)
			return
		}
		printer.PrintProcessSummary(processSummary)
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(scheduleSpec, cycle); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", scheduleSpec, err)
	}

	// First cycle runs immediately; subsequent ones follow the schedule.
	fmt.Printf("Starting scheduler (cron %q), press Ctrl-C to stop\n", scheduleSpec)
	cycle()

	scheduler.Start()
	<-ctx.Done()
	fmt.Println("Shutting down scheduler...")

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	return nil
}
