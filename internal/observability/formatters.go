// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/Simonwafula/Nextstepjobs/internal/pipeline"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintScrapeSummary outputs a human-readable summary of a scrape phase.
func (p *Printer) PrintScrapeSummary(summary *pipeline.ScrapeSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	for _, source := range summary.Sources {
		sb.WriteString(fmt.Sprintf("%-16s %3d found, %3d new", source.Source, source.Stubs, source.Inserted))
		if source.Err != nil {
			sb.WriteString("  FAILED")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total:   %d listings, %d new\n", summary.TotalStubs, summary.TotalInserted))

	p.printBox("SCRAPE SUMMARY", sb.String())

	for _, source := range summary.Sources {
		if source.Err != nil {
			fmt.Fprintf(p.out, "  %s: %v\n", source.Source, source.Err)
		}
	}
}

// PrintProcessSummary outputs a human-readable summary of a processing phase.
func (p *Printer) PrintProcessSummary(summary *pipeline.ProcessSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Picked up: %d\n", summary.Total))
	sb.WriteString(fmt.Sprintf("Stored:    %d\n", summary.Stored))
	sb.WriteString(fmt.Sprintf("Failed:    %d\n", summary.Failed))

	if len(summary.Failures) > 0 {
		sb.WriteString("\nFailures:\n")
		count := min(len(summary.Failures), maxItemsToShow)
		for i := 0; i < count; i++ {
			failure := summary.Failures[i]
			sb.WriteString(fmt.Sprintf("  • %s\n", failure.CanonicalURL))
		}
		if len(summary.Failures) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(summary.Failures)-maxItemsToShow))
		}
	}

	p.printBox("PROCESSING SUMMARY", sb.String())

	for _, failure := range summary.Failures {
		if failure.Err != nil {
			fmt.Fprintf(p.out, "  %s: %v\n", failure.CanonicalURL, failure.Err)
		}
	}
}
