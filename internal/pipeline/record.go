package pipeline

import (
	"github.com/Simonwafula/Nextstepjobs/internal/db"
	"github.com/Simonwafula/Nextstepjobs/internal/education"
	"github.com/Simonwafula/Nextstepjobs/internal/enhance"
	"github.com/Simonwafula/Nextstepjobs/internal/extract"
	"github.com/Simonwafula/Nextstepjobs/internal/scrape"
)

// buildRecord maps the outputs of all processing stages into the stored
// record.
func buildRecord(stub scrape.ListingStub, fields *extract.Fields, edu education.Extraction, enhancement enhance.Enhancement, score float64) *db.Record {
	record := &db.Record{
		CanonicalURL:    stub.CanonicalURL,
		Title:           fields.Title,
		Company:         fields.Company,
		Description:     fields.Description,
		FullText:        fields.FullText,
		Deadline:        fields.Deadline,
		JobType:         fields.JobType,
		ExperienceLevel: fields.ExperienceLevel,
		Industry:        fields.Industry,
		Location:        fields.Location,
		Skills:          fields.Skills,
		QualityScore:    score,
	}

	if fields.Salary != nil {
		record.Compensation = db.Compensation{
			Min:      intPtr(fields.Salary.Min),
			Max:      intPtr(fields.Salary.Max),
			Amount:   intPtr(fields.Salary.Amount),
			Currency: fields.Salary.Currency,
			Period:   fields.Salary.Period,
			RawText:  fields.Salary.Raw,
		}
	}

	if enhancement.Parsed {
		record.AISkills = enhancement.SkillsAnalysis
		record.KeyResponsibilities = enhancement.KeyResponsibilities
		record.ExperienceSummary = enhancement.ExperienceSummary
		record.RoleLevel = enhancement.RoleLevel
		record.GrowthPotential = enhancement.GrowthPotential
		record.RemoteFriendly = enhancement.RemoteFriendly
		if enhancement.IndustryCategory != "" {
			record.Industry = enhancement.IndustryCategory
		}
	}

	for _, req := range edu.Requirements {
		record.Education = append(record.Education, db.EducationRequirement{
			Level:                     req.Level,
			Field:                     req.Field,
			RequirementType:           req.RequirementType,
			YearsExperienceSubstitute: req.YearsExperienceSubstitute,
			ConfidenceScore:           req.ConfidenceScore,
			RawTextAnalyzed:           edu.RawTextAnalyzed,
		})
		// Certificate-level requirements double as certification entries.
		if (req.Level == education.LevelCertificate || req.Level == education.LevelProfessionalLicense) && req.Field != "" {
			record.Certifications = append(record.Certifications, req.Field)
		}
	}

	return record
}

// intPtr converts a salary figure to a nullable column value, treating zero
// as absent.
func intPtr(v int) *float64 {
	if v == 0 {
		return nil
	}
	f := float64(v)
	return &f
}
