package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var companySelectors = []string{
	".company-name", ".company", `[data-testid="company-name"]`,
	".employer-name", ".job-company", "span.companyName",
}

var companyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Company:\s*([^\n.]+)`),
	regexp.MustCompile(`(?i)Employer:\s*([^\n.]+)`),
	regexp.MustCompile(`(?i)Organization:\s*([^\n.]+)`),
}

func extractCompany(doc *goquery.Document, text string) string {
	if company := selectFirst(doc, companySelectors); company != "" {
		return company
	}
	for _, pattern := range companyPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

var locationSelectors = []string{
	".location", ".job-location", `[data-testid="job-location"]`,
	".workplace-location", ".job-address",
}

// kenyanCities backs the location heuristic when no selector matches.
var kenyanCities = []string{"Nairobi", "Mombasa", "Kisumu", "Nakuru", "Eldoret", "Thika", "Machakos"}

func extractLocation(doc *goquery.Document, text string) string {
	if location := selectFirst(doc, locationSelectors); location != "" {
		return location
	}
	lower := strings.ToLower(text)
	for _, city := range kenyanCities {
		if strings.Contains(lower, strings.ToLower(city)) {
			return city
		}
	}
	return "Kenya"
}

// jobTypeKeywords is ordered: the first matching type wins.
var jobTypeKeywords = []struct {
	jobType  string
	keywords []string
}{
	{"Internship", []string{"intern", "internship", "graduate program"}},
	{"Part-Time", []string{"part time", "part-time"}},
	{"Contract", []string{"contract", "contractor", "temporary", "temp"}},
	{"Freelance", []string{"freelance", "consultant", "independent"}},
	{"Remote", []string{"remote", "work from home", "wfh"}},
	{"Full-Time", []string{"full time", "full-time", "permanent", "regular"}},
}

func extractJobType(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range jobTypeKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.jobType
			}
		}
	}
	return "Full-Time"
}

var yearsExperiencePattern = regexp.MustCompile(`(\d+)[+\-\s]*years?\s+(?:of\s+)?experience`)

var experienceLevelPatterns = []struct {
	pattern *regexp.Regexp
	level   string
}{
	{regexp.MustCompile(`entry[\s\-]?level`), "Entry Level"},
	{regexp.MustCompile(`\bjunior\b`), "Junior"},
	{regexp.MustCompile(`\bsenior\b`), "Senior"},
	{regexp.MustCompile(`\blead\b`), "Lead"},
	{regexp.MustCompile(`\bprincipal\b`), "Principal"},
	{regexp.MustCompile(`\bmanager\b`), "Manager"},
	{regexp.MustCompile(`\bdirector\b`), "Director"},
}

func extractExperienceLevel(text string) string {
	lower := strings.ToLower(text)

	if m := yearsExperiencePattern.FindStringSubmatch(lower); m != nil {
		years, _ := strconv.Atoi(m[1])
		switch {
		case years == 0:
			return "Entry Level"
		case years <= 2:
			return "Junior"
		case years <= 5:
			return "Mid Level"
		case years <= 8:
			return "Senior"
		default:
			return "Expert"
		}
	}

	for _, entry := range experienceLevelPatterns {
		if entry.pattern.MatchString(lower) {
			return entry.level
		}
	}
	return "Mid Level"
}

var descriptionSelectors = []string{
	".job-description", ".description", ".job-details",
	".job-summary", ".overview", ".about-role",
}

func extractDescription(doc *goquery.Document) string {
	for _, selector := range descriptionSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return truncate(collapseSpaces(sel.First().Text()), maxDescriptionLength)
		}
	}
	main := doc.Find("main")
	if main.Length() == 0 {
		main = doc.Find("body")
	}
	if main.Length() > 0 {
		return truncate(collapseSpaces(main.First().Text()), maxDescriptionLength)
	}
	return ""
}

const (
	maxRequirements      = 10
	minRequirementLength = 10
	maxRequirementLength = 200
)

var requirementsSectionPattern = regexp.MustCompile(
	`(?is)(?:requirements?|qualifications?|must have|essential)[:\n](.*?)(?:\n[A-Z]|\n\n|$)`)

var requirementSplitPattern = regexp.MustCompile(`[•\n;]\s*`)

// extractRequirements pulls a plain list of requirement lines. The
// structured education extraction lives in the education package.
func extractRequirements(text string) []string {
	var requirements []string
	for _, section := range requirementsSectionPattern.FindAllStringSubmatch(text, -1) {
		for _, item := range requirementSplitPattern.Split(strings.TrimSpace(section[1]), -1) {
			item = strings.TrimSpace(item)
			if len(item) >= minRequirementLength && len(item) <= maxRequirementLength {
				requirements = append(requirements, item)
				if len(requirements) >= maxRequirements {
					return requirements
				}
			}
		}
	}
	return requirements
}

var benefitsKeywords = []string{
	"health insurance", "medical", "dental", "vision",
	"vacation", "pto", "paid time off", "sick leave",
	"retirement", "pension", "bonus",
	"remote work", "flexible hours", "work from home",
	"training", "professional development", "certification",
	"gym", "wellness", "transport", "parking",
}

func extractBenefits(text string) []string {
	lower := strings.ToLower(text)
	var benefits []string
	for _, keyword := range benefitsKeywords {
		if strings.Contains(lower, keyword) {
			benefits = append(benefits, titleCase(keyword))
			if len(benefits) >= 10 {
				break
			}
		}
	}
	return benefits
}

// titleCase capitalizes each word of a lower-case keyword for display.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

var deadlineSelectors = []string{".deadline", ".closing-date", ".application-deadline"}

var deadlinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)deadline:?\s*([^\n.]+)`),
	regexp.MustCompile(`(?i)closing date:?\s*([^\n.]+)`),
	regexp.MustCompile(`(?i)apply by:?\s*([^\n.]+)`),
}

func extractDeadline(doc *goquery.Document, text string) string {
	if deadline := selectFirst(doc, deadlineSelectors); deadline != "" {
		return deadline
	}
	for _, pattern := range deadlinePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

var educationLevelKeywords = []string{
	"Bachelor", "Master", "PhD", "Doctorate", "Degree",
	"Diploma", "Certificate", "Associate",
}

// extractEducationLevels is the cheap keyword pass; the education package
// produces the confidence-scored structured requirements.
func extractEducationLevels(text string) []string {
	lower := strings.ToLower(text)
	var levels []string
	for _, level := range educationLevelKeywords {
		if strings.Contains(lower, strings.ToLower(level)) {
			levels = append(levels, level)
		}
	}
	return levels
}

var industryKeywords = []struct {
	industry string
	keywords []string
}{
	{"Technology", []string{"software", "tech", "developer", "engineer", "programming"}},
	{"Finance", []string{"finance", "banking", "fintech", "accounting", "investment"}},
	{"Healthcare", []string{"health", "medical", "hospital", "clinical", "pharma"}},
	{"Education", []string{"education", "teaching", "university", "academic"}},
	{"Marketing", []string{"marketing", "advertising", "seo", "social media"}},
	{"Sales", []string{"sales", "business development", "account manager"}},
	{"Manufacturing", []string{"manufacturing", "production", "factory", "industrial"}},
	{"Retail", []string{"retail", "e-commerce", "merchandise"}},
	{"Consulting", []string{"consulting", "advisory", "management consulting"}},
}

func extractIndustry(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range industryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.industry
			}
		}
	}
	return "General"
}
