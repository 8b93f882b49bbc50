package scrape

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BrighterMonday scrapes job listings from BrighterMonday Kenya.
type BrighterMonday struct {
	fetcher Fetcher
	baseURL string
}

// NewBrighterMonday constructs a BrighterMonday adapter.
func NewBrighterMonday(fetcher Fetcher) *BrighterMonday {
	return &BrighterMonday{
		fetcher: fetcher,
		baseURL: "https://www.brightermonday.co.ke",
	}
}

// Name implements Adapter.
func (b *BrighterMonday) Name() string { return "brightermonday" }

// ResolveDetailURL converts a relative BrighterMonday link to absolute.
func (b *BrighterMonday) ResolveDetailURL(link string) string {
	return resolveURL(b.baseURL, link)
}

// ScrapeListings fetches the search results page and extracts listing stubs.
// Cards missing a title or link are skipped, never fatal.
func (b *BrighterMonday) ScrapeListings(ctx context.Context, searchTerms []string, location string, limit int) ([]ListingStub, error) {
	query := strings.Join(searchTerms, " ")
	if query == "" {
		query = "software"
	}
	if location == "" {
		location = "Nairobi"
	}

	searchURL := fmt.Sprintf("%s/jobs/search?q=%s", b.baseURL, url.QueryEscape(query))
	html, err := b.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("brightermonday search fetch: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("brightermonday search parse: %w", err)
	}

	var stubs []ListingStub
	cards := doc.Find("div.job-item")
	if cards.Length() == 0 {
		cards = doc.Find("div.search-job")
	}
	if cards.Length() == 0 {
		cards = doc.Find("article.job")
	}

	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if limit > 0 && len(stubs) >= limit {
			return false
		}

		title, link := titleAndLink(card, "h3", "h2", "a.job-title", `a[href*="/jobs/"]`)
		if title == "" || link == "" {
			return true
		}

		jobLocation := firstText(card, "div.location", "span.location")
		if jobLocation == "" {
			jobLocation = location
		}

		stub := newStub(b.Name(), title, b.ResolveDetailURL(link), jobLocation, searchTerms)
		stub.Company = firstText(card, "div.company", "span.company-name", "p.company")
		stub.JobType = firstText(card, "span.job-type")
		stub.Deadline = firstText(card, "div.deadline")
		stubs = append(stubs, stub)
		return true
	})

	log.Printf("[scraper] brightermonday: %d listings", len(stubs))
	return stubs, nil
}
