package pipeline

import (
	"github.com/Simonwafula/Nextstepjobs/internal/enhance"
	"github.com/Simonwafula/Nextstepjobs/internal/extract"
)

// Weights for the quality score. Each weight is credited when the field is
// present; the sum is capped at 1.0.
const (
	weightTitle            = 0.2
	weightCompany          = 0.1
	weightDescription      = 0.2
	weightSkills           = 0.1
	weightRequirements     = 0.1
	weightSalary           = 0.1
	weightAISkills         = 0.1
	weightResponsibilities = 0.1
)

// QualityScore rates how complete a processed job record is, in [0, 1].
// A company of "Unknown" counts as missing.
func QualityScore(fields *extract.Fields, enhancement enhance.Enhancement) float64 {
	score := 0.0
	if fields.Title != "" {
		score += weightTitle
	}
	if fields.Company != "" && fields.Company != "Unknown" {
		score += weightCompany
	}
	if fields.Description != "" {
		score += weightDescription
	}
	if len(fields.Skills) > 0 {
		score += weightSkills
	}
	if len(fields.Requirements) > 0 {
		score += weightRequirements
	}
	if fields.Salary != nil {
		score += weightSalary
	}
	if enhancement.Parsed {
		if len(enhancement.SkillsAnalysis) > 0 {
			score += weightAISkills
		}
		if len(enhancement.KeyResponsibilities) > 0 {
			score += weightResponsibilities
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
