package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var salarySelectors = []string{".salary", ".compensation", ".pay", ".salaryText"}

var salaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)salary:?\s*([^\n.]+)`),
	regexp.MustCompile(`(?i)compensation:?\s*([^\n.]+)`),
	regexp.MustCompile(`(?i)ksh\s*[\d,]+(?:\s*-\s*[\d,]+)?`),
	regexp.MustCompile(`(?i)kes\s*[\d,]+(?:\s*-\s*[\d,]+)?`),
	regexp.MustCompile(`\$\s*[\d,]+(?:\s*-\s*[\d,]+)?`),
	regexp.MustCompile(`(?i)[\d,]+\s*-\s*[\d,]+\s*(?:per|/)\s*(?:month|year)`),
}

func extractSalary(doc *goquery.Document, text string) *Salary {
	if snippet := selectFirst(doc, salarySelectors); snippet != "" {
		return ParseSalary(snippet)
	}
	for _, pattern := range salaryPatterns {
		if m := pattern.FindString(text); m != "" {
			return ParseSalary(m)
		}
	}
	return nil
}

var numberGroupPattern = regexp.MustCompile(`\d+`)

// ParseSalary parses a compensation snippet. Two numeric groups form a
// range, one forms a single amount. Currency is inferred from symbol or
// keyword ($ -> USD, kes -> KES, default KSH); period defaults to monthly
// unless a yearly keyword appears. Snippets without numbers keep only the
// raw text.
func ParseSalary(snippet string) *Salary {
	salary := &Salary{Raw: strings.TrimSpace(snippet)}

	salary.Currency = "KSH"
	lower := strings.ToLower(snippet)
	switch {
	case strings.Contains(snippet, "$"):
		salary.Currency = "USD"
	case strings.Contains(lower, "kes"):
		salary.Currency = "KES"
	}

	salary.Period = "month"
	if strings.Contains(lower, "year") || strings.Contains(lower, "annual") {
		salary.Period = "year"
	}

	numbers := numberGroupPattern.FindAllString(strings.ReplaceAll(snippet, ",", ""), -1)
	switch {
	case len(numbers) >= 2:
		salary.Min, _ = strconv.Atoi(numbers[0])
		salary.Max, _ = strconv.Atoi(numbers[1])
	case len(numbers) == 1:
		salary.Amount, _ = strconv.Atoi(numbers[0])
	}

	return salary
}
