// Package llm - schema.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"

	"github.com/Simonwafula/Nextstepjobs/internal/prompts"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "EducationRequirements")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// EducationRequirementsSchema returns the extraction schema for structured
// education requirements in a job posting.
func EducationRequirementsSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "EducationRequirements",
		Description: prompts.MustGet("education.json", "system"),
		Fields: []SchemaField{
			{
				Name:        "requirements",
				Type:        `[{"level": "string", "field": "string", "requirement_type": "string", "years_experience_substitute": 0, "confidence_score": 0.0}]`,
				Description: "All education requirements found, one entry per distinct requirement",
				Required:    true,
			},
		},
	}
}

// JobEnhancementSchema returns the extraction schema for AI enrichment of an
// already-extracted job record.
func JobEnhancementSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobEnhancement",
		Description: prompts.MustGet("enhancement.json", "system"),
		Fields: []SchemaField{
			{
				Name:        "skills_analysis",
				Type:        `["string"]`,
				Description: "The 5-10 most important skills required",
				Required:    true,
			},
			{
				Name:        "experience_summary",
				Type:        `"string"`,
				Description: "Brief summary of experience requirements",
				Required:    false,
			},
			{
				Name:        "role_level",
				Type:        `"string"`,
				Description: "One of: Entry, Junior, Mid, Senior, Executive",
				Required:    true,
			},
			{
				Name:        "remote_friendly",
				Type:        "bool",
				Description: "true when remote work is mentioned",
				Required:    true,
			},
			{
				Name:        "growth_potential",
				Type:        `"string"`,
				Description: "One of: Low, Medium, High",
				Required:    false,
			},
			{
				Name:        "industry_category",
				Type:        `"string"`,
				Description: "Primary industry category",
				Required:    false,
			},
			{
				Name:        "key_responsibilities",
				Type:        `["string"]`,
				Description: "Top 3-5 main responsibilities",
				Required:    true,
			},
		},
	}
}
