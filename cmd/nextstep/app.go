package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simonwafula/Nextstepjobs/internal/config"
	"github.com/Simonwafula/Nextstepjobs/internal/db"
	"github.com/Simonwafula/Nextstepjobs/internal/education"
	"github.com/Simonwafula/Nextstepjobs/internal/enhance"
	"github.com/Simonwafula/Nextstepjobs/internal/fetch"
	"github.com/Simonwafula/Nextstepjobs/internal/llm"
	"github.com/Simonwafula/Nextstepjobs/internal/pipeline"
	"github.com/Simonwafula/Nextstepjobs/internal/scrape"
)

// app holds everything a subcommand needs after wiring.
type app struct {
	cfg       *config.Config
	store     *db.Store
	fetcher   *fetch.Client
	registry  *scrape.Registry
	llmClient llm.Client
	orch      *pipeline.Orchestrator
}

// sharedFlags are common to the scrape/process/run/schedule commands.
type sharedFlags struct {
	configPath  string
	databaseURL string
	apiKey      string
	useBrowser  bool
	verbose     bool
	batchSize   int
	workers     int
}

func registerSharedFlags(cmd *cobra.Command, flags *sharedFlags) {
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	cmd.Flags().StringVar(&flags.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	cmd.Flags().StringVar(&flags.apiKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var; AI enrichment is skipped when absent)")
	cmd.Flags().BoolVar(&flags.useBrowser, "use-browser", false, "Use headless browser for JS-rendered boards (requires Chrome)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Print detailed debug information")
	cmd.Flags().IntVar(&flags.batchSize, "batch", 0, "Jobs per processing batch")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Concurrent jobs within a batch")
}

// loadConfig merges the config file, environment, and explicitly set flags.
func loadConfig(cmd *cobra.Command, flags *sharedFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = flags.databaseURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = flags.apiKey
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = flags.useBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = flags.verbose
	}
	if cmd.Flags().Changed("batch") {
		cfg.BatchSize = flags.batchSize
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = flags.workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildSources assembles the adapter registry: the built-in boards plus any
// config-driven sites.
func buildSources(cfg *config.Config, fetcher scrape.Fetcher) *scrape.Registry {
	adapters := []scrape.Adapter{
		scrape.NewBrighterMonday(fetcher),
		scrape.NewIndeed(fetcher),
		scrape.NewLinkedIn(fetcher, cfg.UseBrowser),
	}
	for _, desc := range cfg.Sites {
		adapters = append(adapters, scrape.NewGeneric(fetcher, desc))
	}
	return scrape.NewRegistry(adapters...)
}

// newApp wires the full application from configuration. The LLM client is
// only created when an API key is configured.
func newApp(ctx context.Context, cmd *cobra.Command, flags *sharedFlags) (*app, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}

	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}

	fetchOpts := fetch.DefaultOptions()
	if cfg.RequestsPerMinute > 0 {
		fetchOpts.RequestsPerMinute = cfg.RequestsPerMinute
	}
	fetcher := fetch.NewClient(fetchOpts)

	a := &app{
		cfg:      cfg,
		store:    store,
		fetcher:  fetcher,
		registry: buildSources(cfg, fetcher),
	}

	var educator pipeline.EducationExtractor
	var enhancer pipeline.Enhancer
	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		a.llmClient = client
		educator = education.NewExtractor(client, cfg.Verbose)
		enhancer = enhance.NewEnhancer(client, cfg.Verbose)
	} else if cfg.Verbose {
		fmt.Fprintln(os.Stdout, "No API key configured, skipping AI enrichment")
	}

	a.orch = &pipeline.Orchestrator{
		Sources:  a.registry.All(),
		Fetcher:  fetcher,
		Store:    store,
		Educator: educator,
		AI:       enhancer,
		Opts: pipeline.Options{
			SearchTerms: cfg.SearchTerms,
			Location:    cfg.Location,
			BatchSize:   cfg.BatchSize,
			Workers:     cfg.Workers,
			MaxRetries:  cfg.MaxRetries,
			Verbose:     cfg.Verbose,
		},
	}
	return a, nil
}

// close releases the app's resources.
func (a *app) close() {
	if a.llmClient != nil {
		_ = a.llmClient.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}
