package observability

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Simonwafula/Nextstepjobs/internal/pipeline"
)

func TestPrintScrapeSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	summary := &pipeline.ScrapeSummary{
		Sources: []pipeline.SourceResult{
			{Source: "brightermonday", Stubs: 25, Inserted: 12},
			{Source: "indeed", Stubs: 0, Err: errors.New("listing page unreachable")},
		},
		TotalStubs:    25,
		TotalInserted: 12,
	}

	p.PrintScrapeSummary(summary)
	output := buf.String()

	assert.Contains(t, output, "SCRAPE SUMMARY")
	assert.Contains(t, output, "brightermonday")
	assert.Contains(t, output, "FAILED")
	assert.Contains(t, output, "listing page unreachable")
	assert.Contains(t, output, "12 new")
}

func TestPrintScrapeSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScrapeSummary(nil)

	assert.Empty(t, buf.String())
}

func TestPrintProcessSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	summary := &pipeline.ProcessSummary{
		Total:  10,
		Stored: 9,
		Failed: 1,
		Failures: []pipeline.JobResult{
			{CanonicalURL: "https://example.com/jobs/7", Stage: pipeline.StageFailed, Err: errors.New("fetch: timeout")},
		},
	}

	p.PrintProcessSummary(summary)
	output := buf.String()

	assert.Contains(t, output, "PROCESSING SUMMARY")
	assert.Contains(t, output, "Stored:    9")
	assert.Contains(t, output, "https://example.com/jobs/7")
	assert.Contains(t, output, "fetch: timeout")
}

func TestPrintProcessSummary_ManyFailuresTruncated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	summary := &pipeline.ProcessSummary{Total: 8, Failed: 8}
	for i := 0; i < 8; i++ {
		summary.Failures = append(summary.Failures, pipeline.JobResult{
			CanonicalURL: "https://example.com/jobs/x",
			Stage:        pipeline.StageFailed,
		})
	}

	p.PrintProcessSummary(summary)

	assert.Contains(t, buf.String(), "and 3 more")
}
