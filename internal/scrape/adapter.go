// Package scrape provides per-site job listing scrapers. Adapters produce
// lightweight listing stubs (title + canonical URL + card metadata) which the
// processing pipeline later expands into full records.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// Fetcher retrieves the body of a URL. Satisfied by *fetch.Client.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ListingStub is the minimal record produced by the listing phase, before
// detail content is fetched. Immutable once stored.
type ListingStub struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	CanonicalURL string    `json:"canonical_url"`
	Source       string    `json:"source"`
	ScrapedAt    time.Time `json:"scraped_at"`
	SearchTerms  []string  `json:"search_terms"`
	Location     string    `json:"location"`

	// Optional per-card metadata; absence is normal.
	Company       string `json:"company,omitempty"`
	JobType       string `json:"job_type,omitempty"`
	SalarySnippet string `json:"salary_snippet,omitempty"`
	Deadline      string `json:"deadline,omitempty"`
}

// Adapter is the capability set every job site scraper implements.
type Adapter interface {
	Name() string
	ScrapeListings(ctx context.Context, searchTerms []string, location string, limit int) ([]ListingStub, error)
	ResolveDetailURL(link string) string
}

// Registry maps site names to adapters.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds a registry from the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[strings.ToLower(a.Name())] = a
	}
	return r
}

// Get returns the adapter for a site name, or an error listing the known
// sites when the name is unknown.
func (r *Registry) Get(name string) (Adapter, error) {
	if a, ok := r.adapters[strings.ToLower(name)]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("unknown site %q (available: %s)", name, strings.Join(r.Names(), ", "))
}

// All returns every registered adapter.
func (r *Registry) All() []Adapter {
	names := r.Names()
	adapters := make([]Adapter, 0, len(names))
	for _, name := range names {
		adapters = append(adapters, r.adapters[name])
	}
	return adapters
}

// Names returns the registered site names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// newStub creates a stub with a fresh ID and the shared bookkeeping fields.
func newStub(source, title, canonicalURL, location string, searchTerms []string) ListingStub {
	return ListingStub{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(title),
		CanonicalURL: canonicalURL,
		Source:       source,
		ScrapedAt:    time.Now().UTC(),
		SearchTerms:  searchTerms,
		Location:     location,
	}
}

// resolveURL converts a possibly relative link to an absolute one under base.
func resolveURL(base, link string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	return baseURL.ResolveReference(ref).String()
}

// firstMatch returns the first non-empty selection among the ordered
// selectors. Site markup is inconsistent, so every card field is looked up
// through a fallback chain.
func firstMatch(card *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, selector := range selectors {
		if sel := card.Find(selector); sel.Length() > 0 {
			return sel.First()
		}
	}
	return nil
}

// firstText returns the trimmed text of the first matching selector, or "".
func firstText(card *goquery.Selection, selectors ...string) string {
	if sel := firstMatch(card, selectors...); sel != nil {
		return strings.TrimSpace(sel.Text())
	}
	return ""
}

// titleAndLink extracts the job title and href from a card element, trying
// the ordered selectors. Elements that are anchors yield both directly;
// otherwise the first nested anchor is used.
func titleAndLink(card *goquery.Selection, selectors ...string) (title, link string) {
	elem := firstMatch(card, selectors...)
	if elem == nil {
		return "", ""
	}

	if goquery.NodeName(elem) == "a" {
		if href, ok := elem.Attr("href"); ok {
			if t, ok := elem.Attr("title"); ok && strings.TrimSpace(t) != "" {
				return strings.TrimSpace(t), href
			}
			return strings.TrimSpace(elem.Text()), href
		}
		return "", ""
	}

	anchor := elem.Find("a").First()
	if anchor.Length() == 0 {
		return "", ""
	}
	href, ok := anchor.Attr("href")
	if !ok {
		return "", ""
	}
	if t, ok := anchor.Attr("title"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t), href
	}
	return strings.TrimSpace(anchor.Text()), href
}
