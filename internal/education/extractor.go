package education

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Simonwafula/Nextstepjobs/internal/llm"
	"github.com/Simonwafula/Nextstepjobs/internal/schemas"
)

// maxAnalyzedLength caps the job text sent to the model.
const maxAnalyzedLength = 4000

// failureSnippetLength is how much raw text is preserved when extraction fails.
const failureSnippetLength = 200

// Requirement is one education requirement found in a posting.
type Requirement struct {
	Level                     string  `json:"level"`
	Field                     string  `json:"field,omitempty"`
	RequirementType           string  `json:"requirement_type"`
	YearsExperienceSubstitute *int    `json:"years_experience_substitute,omitempty"`
	ConfidenceScore           float64 `json:"confidence_score"`
}

// Extraction is the result of analyzing one posting. Requirements is nil when
// the posting states no education requirement or the extraction failed.
type Extraction struct {
	Requirements    []Requirement `json:"requirements"`
	RawTextAnalyzed string        `json:"raw_text_analyzed"`
}

// Extractor pulls structured education requirements out of job postings.
type Extractor struct {
	client  llm.Client
	verbose bool
}

// NewExtractor creates an Extractor backed by the given model client.
func NewExtractor(client llm.Client, verbose bool) *Extractor {
	return &Extractor{client: client, verbose: verbose}
}

// Extract analyzes the posting text and returns the education requirements it
// states. Extract never returns an error: any model or validation failure
// yields an Extraction with nil Requirements and a snippet of the raw text.
func (e *Extractor) Extract(ctx context.Context, jobText string) Extraction {
	processed := Preprocess(jobText)
	analyzed := processed
	if len(analyzed) > maxAnalyzedLength {
		analyzed = analyzed[:maxAnalyzedLength]
	}

	requirements, err := e.extract(ctx, analyzed)
	if err != nil {
		if e.verbose {
			log.Printf("[education] extraction failed, recording raw text only: %v", err)
		}
		snippet := processed
		if len(snippet) > failureSnippetLength {
			snippet = snippet[:failureSnippetLength] + "..."
		}
		return Extraction{RawTextAnalyzed: snippet}
	}
	return Extraction{Requirements: requirements, RawTextAnalyzed: analyzed}
}

func (e *Extractor) extract(ctx context.Context, jobText string) ([]Requirement, error) {
	prompt := llm.BuildExtractionPrompt(llm.EducationRequirementsSchema(), jobText)

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	if err := schemas.Validate(schemas.EducationRequirements, raw); err != nil {
		return nil, err
	}

	var parsed struct {
		Requirements []Requirement `json:"requirements"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	requirements := make([]Requirement, 0, len(parsed.Requirements))
	for _, req := range parsed.Requirements {
		req.Level = NormalizeLevel(req.Level)
		req.Field = NormalizeField(req.Field)
		req.RequirementType = NormalizeRequirementType(req.RequirementType)
		req.ConfidenceScore = ClampConfidence(req.ConfidenceScore)
		requirements = append(requirements, req)
	}
	if len(requirements) == 0 {
		return nil, nil
	}
	return requirements, nil
}
