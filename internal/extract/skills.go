package extract

import (
	"regexp"
	"sort"
	"strings"
)

// maxSkills bounds the skills list to keep records compact.
const maxSkills = 15

// techSkillPatterns cover the technology names worth surfacing verbatim.
var techSkillPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:Python|Java|JavaScript|TypeScript|C\+\+|C#|PHP|Ruby|Go|Rust|Swift|Kotlin)\b`),
	regexp.MustCompile(`(?i)\b(?:React|Angular|Vue|Django|Flask|Spring|Laravel|Rails|Express)\b`),
	regexp.MustCompile(`(?i)\b(?:AWS|Azure|GCP|Docker|Kubernetes|Jenkins|Git|Linux|Unix)\b`),
	regexp.MustCompile(`(?i)\b(?:SQL|MySQL|PostgreSQL|MongoDB|Redis|Elasticsearch)\b`),
	regexp.MustCompile(`(?i)\b(?:HTML|CSS|SASS|Bootstrap|Tailwind)\b`),
	regexp.MustCompile(`(?i)\b(?:Machine Learning|Data Science|Analytics|Statistics)\b`),
}

var softSkillKeywords = []string{
	"communication", "leadership", "teamwork", "problem solving", "analytical",
}

// extractSkills returns the union of technology-regex matches and soft-skill
// keyword hits, deduplicated case-insensitively and capped at maxSkills.
func extractSkills(text string) []string {
	seen := make(map[string]string)

	for _, pattern := range techSkillPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			key := strings.ToLower(match)
			if _, ok := seen[key]; !ok {
				seen[key] = match
			}
		}
	}

	lower := strings.ToLower(text)
	for _, keyword := range softSkillKeywords {
		if strings.Contains(lower, keyword) {
			if _, ok := seen[keyword]; !ok {
				seen[keyword] = titleCase(keyword)
			}
		}
	}

	skills := make([]string, 0, len(seen))
	for _, skill := range seen {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	if len(skills) > maxSkills {
		skills = skills[:maxSkills]
	}
	return skills
}
