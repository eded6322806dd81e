package scraper

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// FetchError reports a failed page fetch. Status holds the HTTP status
// line for non-2xx responses and is empty for transport-level errors.
// A fetch failure is terminal for a run: the driver stops and flushes
// whatever was collected, it never retries.
type FetchError struct {
	URL    string
	Status string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Client struct {
	http      *http.Client // Underlying HTTP client.
	userAgent string       // Optional User-Agent header to send on requests.
}

// NewClient constructs a Client with sane Transport defaults and
// timeouts suitable for scraping workloads.
//
// Parameters:
//   - timeout: per-request deadline enforced by the underlying http.Client.
//   - userAgent: value for the "User-Agent" header (empty string disables it).
//
// The returned Client uses an http.Transport with connection pooling, TLS >= 1.2,
// and reasonable dial/handshake timeouts.
func NewClient(timeout time.Duration, userAgent string) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		Proxy:               http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
	}
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: userAgent,
	}
}

// Get performs a single HTTP GET and returns the response body if the
// status code is 2xx. Any other outcome is a *FetchError: transport
// failures carry the underlying error, non-2xx responses carry the
// status line (e.g. "404 Not Found").
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if c.userAgent != "" {
		request.Header.Set("User-Agent", c.userAgent)
	}
	response, err := c.http.Do(request)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &FetchError{URL: url, Status: response.Status}
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return body, nil
}

// sleepCtx sleeps for the given duration or returns early if the context is canceled.
func sleepCtx(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
