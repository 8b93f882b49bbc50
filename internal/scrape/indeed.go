package scrape

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Indeed scrapes job listings from Indeed Kenya.
type Indeed struct {
	fetcher Fetcher
	baseURL string
}

// NewIndeed constructs an Indeed adapter.
func NewIndeed(fetcher Fetcher) *Indeed {
	return &Indeed{
		fetcher: fetcher,
		baseURL: "https://ke.indeed.com",
	}
}

// Name implements Adapter.
func (i *Indeed) Name() string { return "indeed" }

// ResolveDetailURL converts a relative Indeed link to absolute.
func (i *Indeed) ResolveDetailURL(link string) string {
	return resolveURL(i.baseURL, link)
}

// ScrapeListings fetches Indeed search results and extracts listing stubs.
func (i *Indeed) ScrapeListings(ctx context.Context, searchTerms []string, location string, limit int) ([]ListingStub, error) {
	query := strings.Join(searchTerms, " ")
	if query == "" {
		query = "software developer"
	}
	if location == "" {
		location = "Nairobi, Kenya"
	}

	searchURL := fmt.Sprintf("%s/jobs?q=%s&l=%s",
		i.baseURL, url.QueryEscape(query), url.QueryEscape(location))
	html, err := i.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("indeed search fetch: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("indeed search parse: %w", err)
	}

	cards := doc.Find("div.job_seen_beacon")
	if cards.Length() == 0 {
		cards = doc.Find("div[data-jk]")
	}
	if cards.Length() == 0 {
		cards = doc.Find("a[data-jk]")
	}

	var stubs []ListingStub
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if limit > 0 && len(stubs) >= limit {
			return false
		}

		title, link := titleAndLink(card, "h2.jobTitle", "a[data-jk]", "span[title]")
		if title == "" || link == "" {
			return true
		}

		jobLocation := firstText(card, `div[data-testid="job-location"]`)
		if jobLocation == "" {
			jobLocation = location
		}

		stub := newStub(i.Name(), title, i.ResolveDetailURL(link), jobLocation, searchTerms)
		stub.Company = firstText(card, "span.companyName", `a[data-testid="company-name"]`, `span[data-testid="company-name"]`)
		stub.SalarySnippet = firstText(card, "span.salaryText", `div[data-testid="attribute_snippet_testid"]`)
		stubs = append(stubs, stub)
		return true
	})

	log.Printf("[scraper] indeed: %d listings", len(stubs))
	return stubs, nil
}
