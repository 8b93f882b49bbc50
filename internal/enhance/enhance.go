// Package enhance enriches extracted job records with AI analysis.
package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Simonwafula/Nextstepjobs/internal/extract"
	"github.com/Simonwafula/Nextstepjobs/internal/llm"
	"github.com/Simonwafula/Nextstepjobs/internal/schemas"
)

// maxSummaryLength caps the fallback summary kept when the model output
// cannot be parsed.
const maxSummaryLength = 500

// Enhancement holds AI-derived enrichment for a job record. When Parsed is
// false the model output could not be used and only Summary is populated.
type Enhancement struct {
	SkillsAnalysis      []string `json:"skills_analysis"`
	ExperienceSummary   string   `json:"experience_summary"`
	RoleLevel           string   `json:"role_level"`
	RemoteFriendly      bool     `json:"remote_friendly"`
	GrowthPotential     string   `json:"growth_potential"`
	IndustryCategory    string   `json:"industry_category"`
	KeyResponsibilities []string `json:"key_responsibilities"`

	Summary string `json:"summary,omitempty"`
	Parsed  bool   `json:"parsed"`
}

// Enhancer runs AI enrichment over extracted job fields.
type Enhancer struct {
	client  llm.Client
	verbose bool
}

// NewEnhancer creates an Enhancer backed by the given model client.
func NewEnhancer(client llm.Client, verbose bool) *Enhancer {
	return &Enhancer{client: client, verbose: verbose}
}

// Enhance analyzes the extracted fields and returns the enrichment. Enhance
// never returns an error: when the model fails or produces unusable output
// the result carries Parsed=false and a truncated summary of the raw output.
func (e *Enhancer) Enhance(ctx context.Context, fields extract.Fields) Enhancement {
	prompt := llm.BuildExtractionPrompt(llm.JobEnhancementSchema(), buildContext(fields))

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		if e.verbose {
			log.Printf("[enhance] model call failed for %q: %v", fields.Title, err)
		}
		return Enhancement{Parsed: false}
	}

	if err := schemas.Validate(schemas.JobEnhancement, raw); err != nil {
		if e.verbose {
			log.Printf("[enhance] unusable model output for %q: %v", fields.Title, err)
		}
		return Enhancement{Summary: truncate(raw, maxSummaryLength), Parsed: false}
	}

	var enhancement Enhancement
	if err := json.Unmarshal([]byte(raw), &enhancement); err != nil {
		return Enhancement{Summary: truncate(raw, maxSummaryLength), Parsed: false}
	}
	enhancement.Parsed = true
	return enhancement
}

// buildContext assembles the posting context handed to the model.
func buildContext(fields extract.Fields) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n", fields.Title)
	fmt.Fprintf(&sb, "Company: %s\n", fields.Company)
	if fields.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", fields.Location)
	}
	if fields.JobType != "" {
		fmt.Fprintf(&sb, "Job type: %s\n", fields.JobType)
	}
	if fields.ExperienceLevel != "" {
		fmt.Fprintf(&sb, "Experience level: %s\n", fields.ExperienceLevel)
	}
	if len(fields.Skills) > 0 {
		fmt.Fprintf(&sb, "Extracted skills: %s\n", strings.Join(fields.Skills, ", "))
	}
	sb.WriteString("\nPosting:\n")
	if fields.FullText != "" {
		sb.WriteString(fields.FullText)
	} else {
		sb.WriteString(fields.Description)
	}
	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
