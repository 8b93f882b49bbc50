package scrape

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Simonwafula/Nextstepjobs/internal/fetch"
)

// SiteDescriptor declares how to scrape a site the generic adapter has no
// dedicated implementation for: URL templates and selector sets only, no
// code. Loaded from configuration.
type SiteDescriptor struct {
	Name            string   `json:"name" validate:"required"`
	BaseURL         string   `json:"base_url" validate:"required,url"`
	ListingPath     string   `json:"listing_path" validate:"required"` // contains {page}
	ListingSelector string   `json:"listing_selector" validate:"required"`
	TitleAttribute  string   `json:"title_attribute,omitempty"` // attribute holding the title; element text if empty
	ContentSelector string   `json:"content_selector,omitempty"`
	ExtraSelectors  []string `json:"extra_selectors,omitempty"` // fallbacks tried after ListingSelector
}

// Generic is a config-driven adapter parameterized by a SiteDescriptor.
// Unlike the site-specific adapters it paginates without bound: it fetches
// page N and stops when a page returns a non-success status or zero
// listings. An empty page signals the end of the catalog, not an error.
type Generic struct {
	fetcher Fetcher
	desc    SiteDescriptor
}

// NewGeneric constructs a generic adapter from a site descriptor.
func NewGeneric(fetcher Fetcher, desc SiteDescriptor) *Generic {
	return &Generic{fetcher: fetcher, desc: desc}
}

// Name implements Adapter.
func (g *Generic) Name() string { return g.desc.Name }

// ResolveDetailURL converts a relative link to absolute under the site base.
func (g *Generic) ResolveDetailURL(link string) string {
	return resolveURL(g.desc.BaseURL, link)
}

// ContentSelector exposes the descriptor's detail-page content selector so
// the extraction engine can prefer it for this source.
func (g *Generic) ContentSelector() string { return g.desc.ContentSelector }

// ScrapeListings walks listing pages until the catalog is exhausted.
func (g *Generic) ScrapeListings(ctx context.Context, searchTerms []string, location string, limit int) ([]ListingStub, error) {
	var stubs []ListingStub

	for page := 1; ; page++ {
		pageURL := g.desc.BaseURL + strings.ReplaceAll(g.desc.ListingPath, "{page}", fmt.Sprintf("%d", page))
		html, err := g.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			var fetchErr *fetch.Error
			if errors.As(err, &fetchErr) && fetchErr.Kind == fetch.KindHTTPStatus {
				// Walked off the end of the catalog.
				log.Printf("[scraper] %s: page %d returned HTTP %d, stopping", g.desc.Name, page, fetchErr.StatusCode)
				break
			}
			return stubs, fmt.Errorf("%s page %d: %w", g.desc.Name, page, err)
		}

		pageStubs, err := g.parsePage(html, location, searchTerms)
		if err != nil {
			return stubs, fmt.Errorf("%s page %d: %w", g.desc.Name, page, err)
		}
		if len(pageStubs) == 0 {
			log.Printf("[scraper] %s: page %d empty, stopping", g.desc.Name, page)
			break
		}

		stubs = append(stubs, pageStubs...)
		if limit > 0 && len(stubs) >= limit {
			stubs = stubs[:limit]
			break
		}
	}

	log.Printf("[scraper] %s: %d listings", g.desc.Name, len(stubs))
	return stubs, nil
}

func (g *Generic) parsePage(html, location string, searchTerms []string) ([]ListingStub, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	selectors := append([]string{g.desc.ListingSelector}, g.desc.ExtraSelectors...)

	var stubs []ListingStub
	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, elem *goquery.Selection) {
			title := ""
			if g.desc.TitleAttribute != "" {
				title, _ = elem.Attr(g.desc.TitleAttribute)
			}
			if strings.TrimSpace(title) == "" {
				title = elem.Text()
			}

			href, _ := elem.Attr("href")
			if href == "" {
				if anchor := elem.Find("a").First(); anchor.Length() > 0 {
					href, _ = anchor.Attr("href")
				}
			}

			title = strings.TrimSpace(title)
			if title == "" || href == "" {
				return
			}
			stubs = append(stubs, newStub(g.desc.Name, title, g.ResolveDetailURL(href), location, searchTerms))
		})
		if len(stubs) > 0 {
			break
		}
	}

	return stubs, nil
}
