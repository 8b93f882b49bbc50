package db

import (
	"time"

	"github.com/google/uuid"
)

// Processing statuses for a scraped job.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Skill origins in skills_taxonomy.
const (
	SkillOriginExtracted = "extracted"
	SkillOriginAI        = "ai"
)

// ProcessingState is the processing_status row for a job.
type ProcessingState struct {
	JobID        uuid.UUID  `json:"job_id"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message"`
	RetryCount   int        `json:"retry_count"`
	LastAttempt  *time.Time `json:"last_attempt,omitempty"`
}

// Eligible reports whether a job in this state should be picked up for
// processing given the retry budget.
func (p *ProcessingState) Eligible(maxRetries int) bool {
	switch p.Status {
	case StatusPending:
		return true
	case StatusError:
		return p.RetryCount < maxRetries
	default:
		return false
	}
}

// Compensation is the parsed salary for a job.
type Compensation struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Currency string   `json:"currency"`
	Period   string   `json:"period"`
	RawText  string   `json:"raw_text"`
}

// Empty reports whether no salary information was found.
func (c *Compensation) Empty() bool {
	return c.Min == nil && c.Max == nil && c.Amount == nil && c.RawText == ""
}

// EducationRequirement is one stored education requirement row.
type EducationRequirement struct {
	Level                     string  `json:"level"`
	Field                     string  `json:"field,omitempty"`
	RequirementType           string  `json:"requirement_type"`
	YearsExperienceSubstitute *int    `json:"years_experience_substitute,omitempty"`
	ConfidenceScore           float64 `json:"confidence_score"`
	RawTextAnalyzed           string  `json:"raw_text_analyzed,omitempty"`
}

// Record is a fully processed job, written in one transaction by
// UpsertProcessed.
type Record struct {
	CanonicalURL string
	Title        string
	Company      string
	Description  string
	FullText     string
	Deadline     string

	JobType         string
	ExperienceLevel string
	Industry        string
	RoleLevel       string
	GrowthPotential string

	Location       string
	RemoteFriendly bool

	Skills              []string
	AISkills            []string
	Certifications      []string
	KeyResponsibilities []string
	ExperienceSummary   string

	Compensation Compensation
	Education    []EducationRequirement

	QualityScore float64
}
