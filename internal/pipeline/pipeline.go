// Package pipeline provides the high-level orchestration of the two-phase
// ingestion run: scraping listing stubs into the store, then processing the
// backlog of unprocessed jobs in concurrent batches.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Simonwafula/Nextstepjobs/internal/db"
	"github.com/Simonwafula/Nextstepjobs/internal/education"
	"github.com/Simonwafula/Nextstepjobs/internal/enhance"
	"github.com/Simonwafula/Nextstepjobs/internal/extract"
	"github.com/Simonwafula/Nextstepjobs/internal/scrape"
)

// Stage tracks how far a job got through processing.
type Stage string

const (
	StageStubbed    Stage = "stubbed"
	StageFetching   Stage = "fetching"
	StageExtracting Stage = "extracting"
	StageEnhancing  Stage = "enhancing"
	StageScored     Stage = "scored"
	StageStored     Stage = "stored"
	StageFailed     Stage = "failed"
)

// Fetcher retrieves a detail page body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Store is the persistence surface the orchestrator needs.
type Store interface {
	InsertStubs(ctx context.Context, stubs []scrape.ListingStub) (int, error)
	SelectUnprocessedOrFailed(ctx context.Context, maxRetries, limit int) ([]scrape.ListingStub, error)
	UpsertProcessed(ctx context.Context, record *db.Record) error
	MarkFailed(ctx context.Context, canonicalURL, errMsg string) error
}

// EducationExtractor pulls education requirements from posting text.
type EducationExtractor interface {
	Extract(ctx context.Context, jobText string) education.Extraction
}

// Enhancer enriches extracted fields with AI analysis.
type Enhancer interface {
	Enhance(ctx context.Context, fields extract.Fields) enhance.Enhancement
}

// Options configures an orchestrator run.
type Options struct {
	SearchTerms []string
	Location    string
	PerSource   int // max stubs per source per term, 0 = adapter default

	BatchSize       int           // jobs per processing batch
	Workers         int           // concurrent jobs within a batch
	MaxRetries      int           // retry budget per job
	BacklogLimit    int           // max jobs picked up by one ProcessBacklog run
	InterBatchDelay time.Duration // pause between batches

	Verbose bool
}

// Defaults for processing.
const (
	DefaultBatchSize       = 5
	DefaultWorkers         = 5
	DefaultMaxRetries      = 3
	DefaultBacklogLimit    = 100
	DefaultInterBatchDelay = 2 * time.Second
)

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.BacklogLimit <= 0 {
		o.BacklogLimit = DefaultBacklogLimit
	}
	if o.InterBatchDelay <= 0 {
		o.InterBatchDelay = DefaultInterBatchDelay
	}
	return o
}

// Orchestrator wires the scrapers, fetcher, extractors, and store together.
// Educator and AI may be nil, in which case processing skips enrichment.
type Orchestrator struct {
	Sources  []scrape.Adapter
	Fetcher  Fetcher
	Store    Store
	Educator EducationExtractor
	AI       Enhancer
	Opts     Options
}

// SourceResult is the scrape outcome for one source.
type SourceResult struct {
	Source   string
	Stubs    int
	Inserted int
	Err      error
}

// ScrapeSummary aggregates a full scrape phase.
type ScrapeSummary struct {
	Sources       []SourceResult
	TotalStubs    int
	TotalInserted int
}

// ScrapeAll runs all sources concurrently. Within a source, search terms and
// pages are scraped sequentially. A failing source does not abort the others;
// its error is recorded in the summary.
func (p *Orchestrator) ScrapeAll(ctx context.Context) (*ScrapeSummary, error) {
	opts := p.Opts.withDefaults()

	results := make([]SourceResult, len(p.Sources))
	g, gCtx := errgroup.WithContext(ctx)

	for i, source := range p.Sources {
		g.Go(func() error {
			results[i] = p.scrapeSource(gCtx, source, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &ScrapeSummary{Sources: results}
	for _, r := range results {
		summary.TotalStubs += r.Stubs
		summary.TotalInserted += r.Inserted
	}
	return summary, nil
}

func (p *Orchestrator) scrapeSource(ctx context.Context, source scrape.Adapter, opts Options) SourceResult {
	result := SourceResult{Source: source.Name()}

	stubs, err := source.ScrapeListings(ctx, opts.SearchTerms, opts.Location, opts.PerSource)
	if err != nil {
		// Keep whatever the source collected before failing.
		result.Err = fmt.Errorf("scrape: %w", err)
		log.Printf("[pipeline] source %s failed: %v", source.Name(), err)
	}
	if opts.Verbose {
		log.Printf("[pipeline] source %s: %d listings", source.Name(), len(stubs))
	}
	result.Stubs = len(stubs)

	if len(stubs) > 0 {
		inserted, insertErr := p.Store.InsertStubs(ctx, stubs)
		result.Inserted = inserted
		if insertErr != nil && result.Err == nil {
			result.Err = fmt.Errorf("store stubs: %w", insertErr)
		}
	}
	return result
}

// JobResult is the processing outcome for one job.
type JobResult struct {
	CanonicalURL string
	Stage        Stage
	QualityScore float64
	Err          error
}

// ProcessSummary aggregates a full processing phase.
type ProcessSummary struct {
	Total    int
	Stored   int
	Failed   int
	Failures []JobResult
}

// ProcessBacklog picks up pending and retryable jobs and processes them in
// batches. Jobs within a batch run concurrently up to the worker limit, and
// a single failing job never aborts the run.
func (p *Orchestrator) ProcessBacklog(ctx context.Context) (*ProcessSummary, error) {
	opts := p.Opts.withDefaults()

	backlog, err := p.Store.SelectUnprocessedOrFailed(ctx, opts.MaxRetries, opts.BacklogLimit)
	if err != nil {
		return nil, fmt.Errorf("select backlog: %w", err)
	}

	summary := &ProcessSummary{Total: len(backlog)}
	for start := 0; start < len(backlog); start += opts.BatchSize {
		end := min(start+opts.BatchSize, len(backlog))
		batch := backlog[start:end]

		results := make([]JobResult, len(batch))
		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i, stub := range batch {
			g.Go(func() error {
				results[i] = p.processOne(gCtx, stub, opts)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return summary, err
		}

		for _, r := range results {
			if r.Stage == StageStored {
				summary.Stored++
			} else {
				summary.Failed++
				summary.Failures = append(summary.Failures, r)
			}
		}

		if end < len(backlog) {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(opts.InterBatchDelay):
			}
		}
	}
	return summary, nil
}

// processOne walks a single job through the processing stages. Fetch and
// store failures mark the job failed in the store; extraction and AI
// enrichment never fail a job.
func (p *Orchestrator) processOne(ctx context.Context, stub scrape.ListingStub, opts Options) JobResult {
	result := JobResult{CanonicalURL: stub.CanonicalURL, Stage: StageFetching}

	html, err := p.Fetcher.Fetch(ctx, stub.CanonicalURL)
	if err != nil {
		result.Stage = StageFailed
		result.Err = fmt.Errorf("fetch: %w", err)
		if markErr := p.Store.MarkFailed(ctx, stub.CanonicalURL, result.Err.Error()); markErr != nil {
			log.Printf("[pipeline] failed to record error for %s: %v", stub.CanonicalURL, markErr)
		}
		return result
	}

	result.Stage = StageExtracting
	fields := extract.Extract(html, stub)

	result.Stage = StageEnhancing
	var eduResult education.Extraction
	if p.Educator != nil {
		eduResult = p.Educator.Extract(ctx, educationText(fields))
	}
	var enhancement enhance.Enhancement
	if p.AI != nil {
		enhancement = p.AI.Enhance(ctx, *fields)
	}

	result.Stage = StageScored
	result.QualityScore = QualityScore(fields, enhancement)

	record := buildRecord(stub, fields, eduResult, enhancement, result.QualityScore)
	if err := p.Store.UpsertProcessed(ctx, record); err != nil {
		result.Stage = StageFailed
		result.Err = fmt.Errorf("store: %w", err)
		return result
	}

	result.Stage = StageStored
	if opts.Verbose {
		log.Printf("[pipeline] stored %s (quality %.2f)", stub.CanonicalURL, result.QualityScore)
	}
	return result
}

// educationText assembles the text handed to the education extractor: the
// posting body plus the requirement bullets, which often carry the degree
// wording.
func educationText(fields *extract.Fields) string {
	text := fields.FullText
	if text == "" {
		text = fields.Description
	}
	if len(fields.Requirements) > 0 {
		text += "\nRequirements:\n" + strings.Join(fields.Requirements, "\n")
	}
	return text
}
