package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNoSourceURL is returned when no spreadsheet source is configured.
var ErrNoSourceURL = errors.New("spreadsheet source not configured: set STRENGTH_URL")

// Fetcher acquires the raw spreadsheet text. The pipeline does not own
// retry policy for the fetch; a failure surfaces as an import failure.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// HTTPFetcher pulls the sheet from a fixed URL.
type HTTPFetcher struct {
	client *http.Client
	url    string
}

// NewHTTPFetcher constructs an HTTPFetcher with the given request timeout.
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

// Fetch performs a single GET; any non-2xx status is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	if f.url == "" {
		return "", ErrNoSourceURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch sheet: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
