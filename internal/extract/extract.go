// Package extract converts fetched job posting HTML into structured fields.
// Extraction is a pure function: every field is optional except the title,
// and a selector or pattern finding nothing leaves the field empty rather
// than failing. Each field is tried against ordered selectors first, then a
// labeled-text pattern, then domain heuristics.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Simonwafula/Nextstepjobs/internal/scrape"
)

const (
	// maxDescriptionLength bounds the stored description.
	maxDescriptionLength = 2000
	// maxFullTextLength bounds the text handed to the AI collaborators.
	maxFullTextLength = 5000
)

// Salary is a parsed compensation snippet. Either Min/Max (a range) or
// Amount (a single figure) is populated.
type Salary struct {
	Min      int    `json:"min,omitempty"`
	Max      int    `json:"max,omitempty"`
	Amount   int    `json:"amount,omitempty"`
	Currency string `json:"currency"`
	Period   string `json:"period"`
	Raw      string `json:"raw"`
}

// Fields holds everything the engine can pull out of a job posting page.
type Fields struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	JobType         string   `json:"job_type"`
	ExperienceLevel string   `json:"experience_level"`
	Salary          *Salary  `json:"salary,omitempty"`
	Description     string   `json:"description"`
	Requirements    []string `json:"requirements"`
	Skills          []string `json:"skills"`
	Benefits        []string `json:"benefits"`
	Deadline        string   `json:"deadline,omitempty"`
	EducationLevels []string `json:"education_levels"`
	Industry        string   `json:"industry"`
	FullText        string   `json:"-"`
}

// Extract parses a fetched detail page into structured fields. The stub
// supplies the title and fallback metadata collected from the listing card.
func Extract(html string, stub scrape.ListingStub) *Fields {
	fields := &Fields{
		Title:    stub.Title,
		Company:  stub.Company,
		Location: stub.Location,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fields
	}
	doc.Find("script, style, noscript").Remove()

	text := cleanLines(doc.Find("body").Text())

	if company := extractCompany(doc, text); company != "" {
		fields.Company = company
	}
	if fields.Company == "" {
		fields.Company = "Unknown"
	}
	if location := extractLocation(doc, text); location != "" {
		fields.Location = location
	}
	fields.JobType = extractJobType(text)
	fields.ExperienceLevel = extractExperienceLevel(text)
	fields.Salary = extractSalary(doc, text)
	if fields.Salary == nil && stub.SalarySnippet != "" {
		fields.Salary = ParseSalary(stub.SalarySnippet)
	}
	fields.Description = extractDescription(doc)
	fields.Requirements = extractRequirements(text)
	fields.Skills = extractSkills(text)
	fields.Benefits = extractBenefits(text)
	fields.Deadline = extractDeadline(doc, text)
	if fields.Deadline == "" {
		fields.Deadline = stub.Deadline
	}
	fields.EducationLevels = extractEducationLevels(text)
	fields.Industry = extractIndustry(text)
	fields.FullText = truncate(text, maxFullTextLength)

	return fields
}

// Empty reports whether extraction produced nothing beyond stub data.
func (f *Fields) Empty() bool {
	return f.Description == "" && len(f.Requirements) == 0 && len(f.Skills) == 0 && f.Salary == nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanLines trims every line and drops blank ones, keeping line boundaries
// so labeled patterns ("Company: ...") stop at the end of their line.
func cleanLines(s string) string {
	var cleaned []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// selectFirst returns the trimmed text of the first selector that matches.
func selectFirst(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return strings.TrimSpace(sel.First().Text())
		}
	}
	return ""
}
