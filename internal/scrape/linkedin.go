package scrape

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Simonwafula/Nextstepjobs/internal/fetch"
)

// renderFunc renders a page in a headless browser. Swappable in tests.
type renderFunc func(ctx context.Context, url string, timeout time.Duration, verbose bool) (string, error)

// LinkedIn scrapes job listings from LinkedIn's public job search. The board
// renders listings client-side for some regions, so the adapter falls back
// to a headless browser when plain HTTP yields no cards.
type LinkedIn struct {
	fetcher    Fetcher
	baseURL    string
	useBrowser bool
	render     renderFunc
}

// NewLinkedIn constructs a LinkedIn adapter. When useBrowser is true the
// adapter renders the search page with chromedp if the plain fetch comes
// back without listings.
func NewLinkedIn(fetcher Fetcher, useBrowser bool) *LinkedIn {
	return &LinkedIn{
		fetcher:    fetcher,
		baseURL:    "https://www.linkedin.com/jobs",
		useBrowser: useBrowser,
		render:     fetch.WithBrowser,
	}
}

// Name implements Adapter.
func (l *LinkedIn) Name() string { return "linkedin" }

// ResolveDetailURL converts a relative LinkedIn link to absolute.
func (l *LinkedIn) ResolveDetailURL(link string) string {
	if strings.HasPrefix(link, "http") {
		return link
	}
	return "https://www.linkedin.com" + link
}

// ScrapeListings fetches LinkedIn search results and extracts listing stubs.
func (l *LinkedIn) ScrapeListings(ctx context.Context, searchTerms []string, location string, limit int) ([]ListingStub, error) {
	query := strings.Join(searchTerms, " ")
	if query == "" {
		query = "software developer"
	}
	if location == "" {
		location = "Kenya"
	}

	searchURL := fmt.Sprintf("%s/search/?keywords=%s&location=%s",
		l.baseURL, url.QueryEscape(query), url.QueryEscape(location))
	html, err := l.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("linkedin search fetch: %w", err)
	}

	stubs, err := l.parseListings(html, location, searchTerms, limit)
	if err != nil {
		return nil, err
	}

	if len(stubs) == 0 && l.useBrowser {
		log.Printf("[scraper] linkedin: no cards in plain response, rendering with browser")
		rendered, renderErr := l.render(ctx, searchURL, 60*time.Second, false)
		if renderErr != nil {
			return nil, fmt.Errorf("linkedin browser render: %w", renderErr)
		}
		stubs, err = l.parseListings(rendered, location, searchTerms, limit)
		if err != nil {
			return nil, err
		}
	}

	log.Printf("[scraper] linkedin: %d listings", len(stubs))
	return stubs, nil
}

func (l *LinkedIn) parseListings(html, location string, searchTerms []string, limit int) ([]ListingStub, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("linkedin search parse: %w", err)
	}

	cards := doc.Find("div.job-search-card")
	if cards.Length() == 0 {
		cards = doc.Find("div.base-search-card")
	}

	var stubs []ListingStub
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if limit > 0 && len(stubs) >= limit {
			return false
		}

		title := firstText(card, "h3.base-search-card__title")
		link := ""
		if anchor := firstMatch(card, "a.base-card__full-link", "a[href]"); anchor != nil {
			link, _ = anchor.Attr("href")
		}
		if title == "" || link == "" {
			return true
		}

		jobLocation := firstText(card, "span.job-search-card__location")
		if jobLocation == "" {
			jobLocation = location
		}

		stub := newStub(l.Name(), title, l.ResolveDetailURL(link), jobLocation, searchTerms)
		stub.Company = firstText(card, "h4.base-search-card__subtitle")
		stubs = append(stubs, stub)
		return true
	})

	return stubs, nil
}
