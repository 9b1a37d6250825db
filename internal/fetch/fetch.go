// Package fetch retrieves the raw fixture page for a club from its public
// website. It performs a single bounded HTTP GET and classifies failures so
// that callers can tell transport problems, timeouts and bad status codes
// apart. Retries are deliberately left to the caller.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// UserAgent identifies the scraper to the club website
	UserAgent = "spielplan/1.0 (github.com/tbraun/spielplan)"

	// DefaultTimeout bounds a single fetch
	DefaultTimeout = 30 * time.Second

	// maxBodySize caps the fixture page size we are willing to read
	maxBodySize = 8 << 20
)

// ErrorKind classifies a fetch failure
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindTimeout   ErrorKind = "timeout"
	KindStatus    ErrorKind = "status"
)

// Error is a classified fetch failure. StatusCode is only set for KindStatus.
type Error struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("fetching %s: unexpected status code %d", e.URL, e.StatusCode)
	case KindTimeout:
		return fmt.Sprintf("fetching %s: timed out", e.URL)
	default:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fetcher retrieves raw fixture page content over HTTP
type Fetcher struct {
	client *http.Client
	url    string
}

// New creates a Fetcher for the given fixture page URL
func New(url string) *Fetcher {
	return NewWithClient(url, &http.Client{Timeout: DefaultTimeout})
}

// NewWithClient creates a Fetcher with a caller-supplied HTTP client
func NewWithClient(url string, client *http.Client) *Fetcher {
	return &Fetcher{
		client: client,
		url:    url,
	}
}

// URL returns the fixture page URL this Fetcher reads from
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch retrieves the raw fixture page. On failure it returns a *Error whose
// Kind distinguishes transport errors, timeouts and non-2xx responses.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: f.url, Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: classify(err), URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &Error{Kind: KindStatus, URL: f.url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{Kind: classify(err), URL: f.url, Err: err}
	}

	return body, nil
}

// classify maps a transport-level error to an ErrorKind
func classify(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindTransport
}
