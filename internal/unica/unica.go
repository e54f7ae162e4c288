/*
Package unica fetches the UniCa sport events page and extracts its events.
*/
package unica

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	applog "github.com/shanehull/unicabot/internal/log"
)

const (
	// DefaultPageURL is the events page; it is also the base for event links.
	DefaultPageURL = "https://sport.univ-cotedazur.fr/fr/"

	fetchTimeout = 60 * time.Second
	maxPageBytes = 8 << 20
)

var (
	// ErrUnexpectedStatus is returned for any non-200 response.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrNotText is returned when the response is not a text document.
	ErrNotText = errors.New("response is not text")
)

// Fetcher downloads the raw events page.
type Fetcher struct {
	client *http.Client
	url    string
}

// NewFetcher creates a Fetcher for url. A nil client gets a default one with
// a timeout.
func NewFetcher(url string, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Fetcher{client: client, url: url}
}

// URL returns the page being fetched.
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch returns the page markup.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", f.url, err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL %s: %w", f.url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger := applog.WithComponent("unica")
			logger.Warn().Err(err).Str("url", f.url).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w %d from %s", ErrUnexpectedStatus, resp.StatusCode, f.url)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !isText(ct) {
		return "", fmt.Errorf("%w: content type %q from %s", ErrNotText, ct, f.url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read body from %s: %w", f.url, err)
	}
	return string(body), nil
}

func isText(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "text/") ||
		strings.HasSuffix(mediaType, "+xml") ||
		mediaType == "application/xml"
}
