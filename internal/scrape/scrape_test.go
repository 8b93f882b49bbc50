package scrape

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simonwafula/Nextstepjobs/internal/fetch"
)

// fakeFetcher returns canned bodies keyed by URL and records requests.
type fakeFetcher struct {
	pages    map[string]string
	err      error
	requests []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.requests = append(f.requests, url)
	if f.err != nil {
		return "", f.err
	}
	body, ok := f.pages[url]
	if !ok {
		return "", &fetch.Error{URL: url, Kind: fetch.KindHTTPStatus, StatusCode: 404}
	}
	return body, nil
}

const brighterMondayHTML = `
<html><body>
	<div class="job-item">
		<h3><a href="/jobs/software-engineer-123">Software Engineer</a></h3>
		<div class="company">Safari Tech</div>
		<div class="location">Nairobi</div>
		<span class="job-type">Full Time</span>
	</div>
	<div class="job-item">
		<h3>Listing without a link</h3>
	</div>
	<div class="job-item">
		<h2><a href="https://www.brightermonday.co.ke/jobs/data-analyst-456">Data Analyst</a></h2>
		<span class="company-name">Kilima Analytics</span>
	</div>
</body></html>`

func TestBrighterMonday_ScrapeListings(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.brightermonday.co.ke/jobs/search?q=software": brighterMondayHTML,
	}}

	adapter := NewBrighterMonday(fetcher)
	stubs, err := adapter.ScrapeListings(context.Background(), []string{"software"}, "Nairobi", 50)
	require.NoError(t, err)
	require.Len(t, stubs, 2, "card without a link must be skipped")

	assert.Equal(t, "Software Engineer", stubs[0].Title)
	assert.Equal(t, "https://www.brightermonday.co.ke/jobs/software-engineer-123", stubs[0].CanonicalURL)
	assert.Equal(t, "Safari Tech", stubs[0].Company)
	assert.Equal(t, "Full Time", stubs[0].JobType)
	assert.Equal(t, "Nairobi", stubs[0].Location)
	assert.Equal(t, "brightermonday", stubs[0].Source)
	assert.NotEmpty(t, stubs[0].ID)

	assert.Equal(t, "Data Analyst", stubs[1].Title)
	assert.Equal(t, "https://www.brightermonday.co.ke/jobs/data-analyst-456", stubs[1].CanonicalURL)
	assert.Equal(t, "Kilima Analytics", stubs[1].Company)
}

func TestBrighterMonday_Limit(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.brightermonday.co.ke/jobs/search?q=software": brighterMondayHTML,
	}}

	adapter := NewBrighterMonday(fetcher)
	stubs, err := adapter.ScrapeListings(context.Background(), []string{"software"}, "", 1)
	require.NoError(t, err)
	assert.Len(t, stubs, 1)
}

func TestIndeed_ScrapeListings(t *testing.T) {
	html := `
	<html><body>
		<div class="job_seen_beacon">
			<h2 class="jobTitle"><a href="/rc/clk?jk=abc123" title="Backend Developer">Backend Developer</a></h2>
			<span class="companyName">Mombasa Systems</span>
			<div data-testid="job-location">Mombasa</div>
			<span class="salaryText">KES 80,000 - 120,000 per month</span>
		</div>
		<div class="job_seen_beacon">
			<span>No title anchor here</span>
		</div>
	</body></html>`

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://ke.indeed.com/jobs?q=backend&l=Mombasa": html,
	}}

	adapter := NewIndeed(fetcher)
	stubs, err := adapter.ScrapeListings(context.Background(), []string{"backend"}, "Mombasa", 50)
	require.NoError(t, err)
	require.Len(t, stubs, 1)

	assert.Equal(t, "Backend Developer", stubs[0].Title)
	assert.Equal(t, "https://ke.indeed.com/rc/clk?jk=abc123", stubs[0].CanonicalURL)
	assert.Equal(t, "Mombasa Systems", stubs[0].Company)
	assert.Equal(t, "KES 80,000 - 120,000 per month", stubs[0].SalarySnippet)
}

func TestLinkedIn_ScrapeListings(t *testing.T) {
	html := `
	<html><body>
		<div class="job-search-card">
			<a class="base-card__full-link" href="/jobs/view/789"></a>
			<h3 class="base-search-card__title">Platform Engineer</h3>
			<h4 class="base-search-card__subtitle">Tatu Cloud</h4>
			<span class="job-search-card__location">Nairobi, Kenya</span>
		</div>
	</body></html>`

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.linkedin.com/jobs/search/?keywords=platform&location=Kenya": html,
	}}

	adapter := NewLinkedIn(fetcher, false)
	stubs, err := adapter.ScrapeListings(context.Background(), []string{"platform"}, "Kenya", 50)
	require.NoError(t, err)
	require.Len(t, stubs, 1)

	assert.Equal(t, "Platform Engineer", stubs[0].Title)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/789", stubs[0].CanonicalURL)
	assert.Equal(t, "Tatu Cloud", stubs[0].Company)
	assert.Equal(t, "Nairobi, Kenya", stubs[0].Location)
}

func TestLinkedIn_BrowserFallback(t *testing.T) {
	rendered := `
	<html><body>
		<div class="base-search-card">
			<a href="https://www.linkedin.com/jobs/view/555"></a>
			<h3 class="base-search-card__title">SRE</h3>
		</div>
	</body></html>`

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.linkedin.com/jobs/search/?keywords=sre&location=Kenya": "<html><body></body></html>",
	}}

	adapter := NewLinkedIn(fetcher, true)
	adapter.render = func(context.Context, string, time.Duration, bool) (string, error) {
		return rendered, nil
	}

	stubs, err := adapter.ScrapeListings(context.Background(), []string{"sre"}, "Kenya", 50)
	require.NoError(t, err)
	require.Len(t, stubs, 1)
	assert.Equal(t, "SRE", stubs[0].Title)
}

func genericPages(t *testing.T) map[string]string {
	t.Helper()
	listings := func(n int, page int) string {
		out := "<html><body>"
		for i := 0; i < n; i++ {
			out += fmt.Sprintf(`<a class="job-link" href="/job/%d-%d">Job %d on page %d</a>`, page, i, i, page)
		}
		return out + "</body></html>"
	}
	return map[string]string{
		"https://jobs.example.co.ke/listings?page=1": listings(10, 1),
		"https://jobs.example.co.ke/listings?page=2": listings(0, 2),
	}
}

func TestGeneric_PaginationStopsOnEmptyPage(t *testing.T) {
	fetcher := &fakeFetcher{pages: genericPages(t)}
	adapter := NewGeneric(fetcher, SiteDescriptor{
		Name:            "examplejobs",
		BaseURL:         "https://jobs.example.co.ke",
		ListingPath:     "/listings?page={page}",
		ListingSelector: "a.job-link",
	})

	stubs, err := adapter.ScrapeListings(context.Background(), nil, "Kenya", 0)
	require.NoError(t, err)
	assert.Len(t, stubs, 10, "page 2 is empty so exactly page 1's listings are kept")
	assert.Len(t, fetcher.requests, 2, "scraper must stop after the first empty page")
	assert.Equal(t, "https://jobs.example.co.ke/job/1-0", stubs[0].CanonicalURL)
}

func TestGeneric_PaginationStopsOnErrorStatus(t *testing.T) {
	pages := map[string]string{
		"https://jobs.example.co.ke/listings?page=1": `<html><body><a class="job-link" href="/job/1">Only Job</a></body></html>`,
		// page 2 absent -> fake fetcher returns 404
	}
	fetcher := &fakeFetcher{pages: pages}
	adapter := NewGeneric(fetcher, SiteDescriptor{
		Name:            "examplejobs",
		BaseURL:         "https://jobs.example.co.ke",
		ListingPath:     "/listings?page={page}",
		ListingSelector: "a.job-link",
	})

	stubs, err := adapter.ScrapeListings(context.Background(), nil, "", 0)
	require.NoError(t, err)
	assert.Len(t, stubs, 1)
}

func TestRegistry(t *testing.T) {
	fetcher := &fakeFetcher{}
	registry := NewRegistry(NewBrighterMonday(fetcher), NewIndeed(fetcher))

	adapter, err := registry.Get("BrighterMonday")
	require.NoError(t, err)
	assert.Equal(t, "brightermonday", adapter.Name())

	_, err = registry.Get("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown site")

	assert.Equal(t, []string{"brightermonday", "indeed"}, registry.Names())
	assert.Len(t, registry.All(), 2)
}

func TestResolveDetailURL(t *testing.T) {
	fetcher := &fakeFetcher{}

	bm := NewBrighterMonday(fetcher)
	assert.Equal(t, "https://www.brightermonday.co.ke/jobs/x", bm.ResolveDetailURL("/jobs/x"))
	assert.Equal(t, "https://other.example.com/y", bm.ResolveDetailURL("https://other.example.com/y"))

	li := NewLinkedIn(fetcher, false)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/1", li.ResolveDetailURL("/jobs/view/1"))
}
