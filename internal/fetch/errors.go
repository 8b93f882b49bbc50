package fetch

import "fmt"

// ErrorKind classifies a fetch failure for retry decisions and reporting.
type ErrorKind string

const (
	// KindTimeout indicates the request exceeded its deadline.
	KindTimeout ErrorKind = "timeout"
	// KindNetwork indicates a transport-level failure (DNS, refused connection).
	KindNetwork ErrorKind = "network"
	// KindHTTPStatus indicates a non-2xx HTTP response.
	KindHTTPStatus ErrorKind = "http_status"
)

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	Kind       ErrorKind
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("fetch error for %s: HTTP status %d", e.URL, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the failure is transient. Server errors and
// rate limiting are retryable; other client errors are not.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTimeout, KindNetwork:
		return true
	case KindHTTPStatus:
		switch e.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}

// RateLimited reports whether the server answered 429, which warrants a
// longer backoff than an ordinary server error.
func (e *Error) RateLimited() bool {
	return e.Kind == KindHTTPStatus && e.StatusCode == 429
}
