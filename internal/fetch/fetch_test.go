package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() *Options {
	return &Options{
		Timeout:           5 * time.Second,
		RequestsPerMinute: 0, // no spacing in tests
		Backoff: BackoffPolicy{
			MaxRetries:      3,
			Factor:          5 * time.Millisecond,
			RateLimitFactor: 20 * time.Millisecond,
		},
	}
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Jobs</h1></body></html>"))
	}))
	defer server.Close()

	client := NewClient(testOptions())
	body, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, body, "<h1>Jobs</h1>")
}

func TestFetch_InvalidURL(t *testing.T) {
	client := NewClient(testOptions())
	_, err := client.Fetch(context.Background(), "not-a-valid-url")
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindNetwork, fetchErr.Kind)
}

func TestFetch_ClientErrorNotRetried(t *testing.T) {
	var mu sync.Mutex
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testOptions())
	_, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 404, fetchErr.StatusCode)
	assert.False(t, fetchErr.Retryable())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, requests, "4xx must fail without retry")
}

func TestFetch_ServerErrorsRetriedWithIncreasingDelay(t *testing.T) {
	const failures = 3

	var mu sync.Mutex
	var arrivals []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		n := len(arrivals)
		mu.Unlock()

		if n <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("recovered"))
	}))
	defer server.Close()

	client := NewClient(testOptions())
	body, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "recovered", body)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, arrivals, failures+1, "expected one request per 503 plus the final success")

	// Inter-attempt delays must strictly increase.
	var gaps []time.Duration
	for i := 1; i < len(arrivals); i++ {
		gaps = append(gaps, arrivals[i].Sub(arrivals[i-1]))
	}
	for i := 1; i < len(gaps); i++ {
		assert.Greater(t, gaps[i], gaps[i-1], "backoff delays must grow between attempts")
	}
}

func TestFetch_RetriesExhausted(t *testing.T) {
	var mu sync.Mutex
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(testOptions())
	_, err := client.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 502, fetchErr.StatusCode)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 4, requests, "initial attempt plus three retries")
}

func TestFetch_RateLimitedUsesLongerBackoff(t *testing.T) {
	var mu sync.Mutex
	var arrivals []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		n := len(arrivals)
		mu.Unlock()

		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	opts := testOptions()
	client := NewClient(opts)
	_, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, arrivals, 2)
	gap := arrivals[1].Sub(arrivals[0])
	assert.GreaterOrEqual(t, gap, opts.Backoff.RateLimitFactor,
		"429 must back off with the rate-limit factor, not the server-error factor")
}

func TestFetch_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(testOptions())
	_, err := client.Fetch(ctx, server.URL)
	require.Error(t, err)
}

func TestBackoffPolicy_Delay(t *testing.T) {
	policy := BackoffPolicy{
		MaxRetries:      3,
		Factor:          300 * time.Millisecond,
		RateLimitFactor: 2 * time.Second,
	}

	assert.Equal(t, 300*time.Millisecond, policy.Delay(0, false))
	assert.Equal(t, 600*time.Millisecond, policy.Delay(1, false))
	assert.Equal(t, 1200*time.Millisecond, policy.Delay(2, false))
	assert.Equal(t, 2*time.Second, policy.Delay(0, true))
	assert.Equal(t, 4*time.Second, policy.Delay(1, true))
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), BackoffPolicy{MaxRetries: 3, Factor: time.Millisecond},
		func(context.Context) (string, error) {
			calls++
			return "", &Error{URL: "http://example.com", Kind: KindHTTPStatus, StatusCode: 403}
		})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("short"))
	assert.True(t, ShouldUseBrowser("   "))

	long := make([]byte, MinContentLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, ShouldUseBrowser(string(long)))
}
