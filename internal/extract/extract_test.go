package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simonwafula/Nextstepjobs/internal/scrape"
)

const sampleJobHTML = `
<html><body>
	<div class="company-name">Savannah Software Ltd</div>
	<div class="job-location">Nairobi</div>
	<div class="job-description">
		We are hiring a senior backend engineer to build payment integrations.
		You will work with Go, PostgreSQL and Docker in a collaborative team.
	</div>
	<div class="salary">KES 150,000 - 250,000 per month</div>
	<div class="deadline">31 October 2026</div>
	<p>Requirements:
	• 5+ years experience building backend services
	• Strong knowledge of SQL and PostgreSQL
	• Excellent communication skills
	</p>
	<p>We offer health insurance, flexible hours and professional development.</p>
</body></html>`

func TestExtract_FullPage(t *testing.T) {
	stub := scrape.ListingStub{Title: "Senior Backend Engineer", Location: "Kenya"}
	fields := Extract(sampleJobHTML, stub)

	assert.Equal(t, "Senior Backend Engineer", fields.Title)
	assert.Equal(t, "Savannah Software Ltd", fields.Company)
	assert.Equal(t, "Nairobi", fields.Location)
	assert.Contains(t, fields.Description, "payment integrations")

	require.NotNil(t, fields.Salary)
	assert.Equal(t, 150000, fields.Salary.Min)
	assert.Equal(t, 250000, fields.Salary.Max)
	assert.Equal(t, "KES", fields.Salary.Currency)
	assert.Equal(t, "month", fields.Salary.Period)

	assert.Equal(t, "31 October 2026", fields.Deadline)
	// "5+ years experience" wins over the "senior" keyword.
	assert.Equal(t, "Mid Level", fields.ExperienceLevel)
	assert.Equal(t, "Technology", fields.Industry)

	assert.Contains(t, fields.Skills, "Go")
	assert.Contains(t, fields.Skills, "PostgreSQL")
	assert.Contains(t, fields.Skills, "Docker")

	assert.NotEmpty(t, fields.Requirements)
	assert.NotEmpty(t, fields.Benefits)
	assert.False(t, fields.Empty())
}

func TestExtract_EmptyPage(t *testing.T) {
	stub := scrape.ListingStub{Title: "Mystery Role", Location: "Kenya", Company: "Card Co"}
	fields := Extract("<html><body></body></html>", stub)

	assert.Equal(t, "Mystery Role", fields.Title)
	// Stub metadata survives when the page offers nothing better.
	assert.Equal(t, "Card Co", fields.Company)
	assert.Empty(t, fields.Requirements)
	assert.Nil(t, fields.Salary)
}

func TestExtract_UnparseableHTMLKeepsStub(t *testing.T) {
	stub := scrape.ListingStub{Title: "Some Role"}
	fields := Extract("", stub)
	assert.Equal(t, "Some Role", fields.Title)
}

func TestExtract_CompanyLabelFallback(t *testing.T) {
	html := `<html><body>
	<p>Company: Tembo Logistics</p>
	<p>Great role.</p>
	</body></html>`
	fields := Extract(html, scrape.ListingStub{Title: "Driver"})
	assert.Equal(t, "Tembo Logistics", fields.Company)
}

func TestExtract_LocationCityHeuristic(t *testing.T) {
	html := `<html><body><p>The position is based in Kisumu and reports to the regional office.</p></body></html>`
	fields := Extract(html, scrape.ListingStub{Title: "Officer"})
	assert.Equal(t, "Kisumu", fields.Location)
}

func TestExtract_LocationDefault(t *testing.T) {
	html := `<html><body><p>An exciting opportunity.</p></body></html>`
	fields := Extract(html, scrape.ListingStub{Title: "Officer"})
	assert.Equal(t, "Kenya", fields.Location)
}

func TestParseSalary_RangeKES(t *testing.T) {
	salary := ParseSalary("KES 80,000 - 120,000 per month")
	assert.Equal(t, 80000, salary.Min)
	assert.Equal(t, 120000, salary.Max)
	assert.Equal(t, 0, salary.Amount)
	assert.Equal(t, "KES", salary.Currency)
	assert.Equal(t, "month", salary.Period)
}

func TestParseSalary_SingleUSDYearly(t *testing.T) {
	salary := ParseSalary("$95,000 per year")
	assert.Equal(t, 95000, salary.Amount)
	assert.Equal(t, 0, salary.Min)
	assert.Equal(t, "USD", salary.Currency)
	assert.Equal(t, "year", salary.Period)
}

func TestParseSalary_DefaultsAndRaw(t *testing.T) {
	salary := ParseSalary("competitive remuneration")
	assert.Equal(t, "KSH", salary.Currency)
	assert.Equal(t, "month", salary.Period)
	assert.Equal(t, 0, salary.Amount)
	assert.Equal(t, "competitive remuneration", salary.Raw)
}

func TestParseSalary_AnnualKeyword(t *testing.T) {
	salary := ParseSalary("KSH 1,200,000 annual package")
	assert.Equal(t, "year", salary.Period)
	assert.Equal(t, "KSH", salary.Currency)
}

func TestExtractJobType(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"This is a permanent position", "Full-Time"},
		{"Part-time opportunity for students", "Part-Time"},
		{"6 month contract role", "Contract"},
		{"Join our internship program", "Internship"},
		{"Fully remote position", "Remote"},
		{"Just a job ad with no type words", "Full-Time"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractJobType(tt.text), tt.text)
	}
}

func TestExtractExperienceLevel_Years(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"0 years experience needed", "Entry Level"},
		{"2 years experience required", "Junior"},
		{"4 years of experience", "Mid Level"},
		{"7+ years experience", "Senior"},
		{"12 years experience leading teams", "Expert"},
		{"senior engineer wanted", "Senior"},
		{"no signals at all", "Mid Level"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractExperienceLevel(tt.text), tt.text)
	}
}

func TestExtractSkills_CapAndDedup(t *testing.T) {
	text := "Python python PYTHON Java Go React Angular Vue Django Flask Spring AWS Azure GCP Docker Kubernetes Jenkins Git Linux SQL MySQL communication leadership"
	skills := extractSkills(text)
	assert.LessOrEqual(t, len(skills), maxSkills)

	// Case-insensitive dedup: only one Python entry.
	count := 0
	for _, s := range skills {
		if s == "Python" || s == "python" || s == "PYTHON" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractRequirements_FiltersAndCaps(t *testing.T) {
	text := "Requirements:\n• short\n• A proper requirement line describing needed expertise\n• " +
		"Another requirement that is long enough to keep\n\nNext Section"
	requirements := extractRequirements(text)
	require.NotEmpty(t, requirements)
	for _, r := range requirements {
		assert.GreaterOrEqual(t, len(r), minRequirementLength)
		assert.LessOrEqual(t, len(r), maxRequirementLength)
	}
	assert.LessOrEqual(t, len(requirements), maxRequirements)
}

func TestExtractEducationLevels(t *testing.T) {
	levels := extractEducationLevels("A Bachelor degree required, Master preferred")
	assert.Contains(t, levels, "Bachelor")
	assert.Contains(t, levels, "Master")
	assert.Contains(t, levels, "Degree")
}
