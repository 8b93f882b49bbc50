package education

import (
	"regexp"
	"strings"
)

// Canonical education levels.
const (
	LevelHighSchool          = "high_school"
	LevelCertificate         = "certificate"
	LevelDiploma             = "diploma"
	LevelAssociate           = "associate"
	LevelBachelor            = "bachelor"
	LevelMaster              = "master"
	LevelPhD                 = "phd"
	LevelProfessionalLicense = "professional_license"
	LevelNoneSpecified       = "none_specified"
	LevelEquivalentExp       = "equivalent_experience"
)

// Requirement types.
const (
	TypeRequired              = "required"
	TypePreferred             = "preferred"
	TypeEquivalentExpAccepted = "equivalent_experience_accepted"
)

// levelMappings maps free-form level mentions to canonical levels.
var levelMappings = map[string]string{
	"high school":      LevelHighSchool,
	"hs diploma":       LevelHighSchool,
	"secondary school": LevelHighSchool,
	"matric":           LevelHighSchool,

	"certificate":              LevelCertificate,
	"cert":                     LevelCertificate,
	"certification":            LevelCertificate,
	"professional certificate": LevelCertificate,

	"diploma":          LevelDiploma,
	"advanced diploma": LevelDiploma,
	"national diploma": LevelDiploma,
	"higher diploma":   LevelDiploma,

	"associate":        LevelAssociate,
	"associate degree": LevelAssociate,
	"aa":               LevelAssociate,
	"aas":              LevelAssociate,

	"bachelor":      LevelBachelor,
	"bachelors":     LevelBachelor,
	"bachelor's":    LevelBachelor,
	"ba":            LevelBachelor,
	"bs":            LevelBachelor,
	"bsc":           LevelBachelor,
	"undergraduate": LevelBachelor,

	"master":   LevelMaster,
	"masters":  LevelMaster,
	"master's": LevelMaster,
	"ma":       LevelMaster,
	"ms":       LevelMaster,
	"msc":      LevelMaster,
	"mba":      LevelMaster,
	"graduate": LevelMaster,

	"phd":       LevelPhD,
	"ph.d":      LevelPhD,
	"doctorate": LevelPhD,
	"doctoral":  LevelPhD,
	"doctor":    LevelPhD,

	"license":              LevelProfessionalLicense,
	"licence":              LevelProfessionalLicense,
	"professional license": LevelProfessionalLicense,
}

// canonicalLevels is the closed vocabulary accepted as-is.
var canonicalLevels = map[string]bool{
	LevelHighSchool: true, LevelCertificate: true, LevelDiploma: true,
	LevelAssociate: true, LevelBachelor: true, LevelMaster: true,
	LevelPhD: true, LevelProfessionalLicense: true,
	LevelNoneSpecified: true, LevelEquivalentExp: true,
}

// fieldMappings maps canonical field-of-study names to known synonyms.
var fieldMappings = map[string][]string{
	"computer science":        {"cs", "computer sci", "computing", "informatics", "software engineering"},
	"information technology":  {"it", "info tech", "information systems", "mis"},
	"business administration": {"business admin", "business", "management", "business management"},
	"supply chain management": {"supply chain", "logistics", "operations management", "procurement"},
	"mechanical engineering":  {"mech eng", "mechanical", "mechanical tech"},
	"electrical engineering":  {"ee", "electrical", "electronic engineering", "electronics"},
	"data science":            {"data analytics", "analytics", "data analysis", "statistics"},
	"marketing":               {"digital marketing", "marketing communications", "advertising"},
	"finance":                 {"financial management", "accounting and finance", "economics"},
	"human resources":         {"hr", "human resource management", "people management"},
	"healthcare":              {"nursing", "medical", "health sciences", "public health"},
	"education":               {"teaching", "educational leadership", "curriculum"},
	"accounting":              {"cpa", "bookkeeping", "financial accounting"},
	"project management":      {"pmp", "program management", "operations"},
	"psychology":              {"counseling", "behavioral science", "social work"},
}

// NormalizeLevel maps a free-form level string to the canonical vocabulary.
// Unknown values fall back to none_specified.
func NormalizeLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	if canonicalLevels[normalized] {
		return normalized
	}
	if mapped, ok := levelMappings[normalized]; ok {
		return mapped
	}
	return LevelNoneSpecified
}

// NormalizeField lower-cases, trims, and maps known synonyms to canonical
// field names. Unmapped fields are returned lower-cased unchanged.
func NormalizeField(field string) string {
	normalized := strings.ToLower(strings.TrimSpace(field))
	if normalized == "" {
		return ""
	}
	for canonical, synonyms := range fieldMappings {
		if normalized == canonical {
			return canonical
		}
		for _, synonym := range synonyms {
			if normalized == synonym {
				return canonical
			}
		}
	}
	return normalized
}

// NormalizeRequirementType maps a free-form requirement type to the closed
// vocabulary, defaulting to required.
func NormalizeRequirementType(requirementType string) string {
	switch strings.ToLower(strings.TrimSpace(requirementType)) {
	case TypePreferred:
		return TypePreferred
	case TypeEquivalentExpAccepted:
		return TypeEquivalentExpAccepted
	default:
		return TypeRequired
	}
}

// ClampConfidence bounds a confidence score into [0, 1].
func ClampConfidence(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// abbreviationPatterns expand degree abbreviations before extraction so the
// model sees consistent wording.
var abbreviationPatterns = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bB\.S\b\.?`), "Bachelor"},
	{regexp.MustCompile(`(?i)\bB\.A\b\.?`), "Bachelor"},
	{regexp.MustCompile(`(?i)\bM\.S\b\.?`), "Master"},
	{regexp.MustCompile(`(?i)\bM\.A\b\.?`), "Master"},
	{regexp.MustCompile(`(?i)\bPh\.D\b\.?`), "PhD"},
}

// Preprocess collapses whitespace and normalizes degree abbreviations.
func Preprocess(text string) string {
	text = whitespacePattern.ReplaceAllString(text, " ")
	for _, abbrev := range abbreviationPatterns {
		text = abbrev.pattern.ReplaceAllString(text, abbrev.replacement)
	}
	return strings.TrimSpace(text)
}
