// Package fetch retrieves response-sheet documents over HTTP. Providers
// host one page per subject for the multi-page family, so the common
// path is fetching a small batch of URLs concurrently.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client wraps an http.Client with the defaults the providers need.
type Client struct {
	hc        *http.Client
	userAgent string
}

// maxDocumentBytes caps a single response-sheet download. Real documents
// run a few hundred KB; anything larger is not a response sheet.
const maxDocumentBytes = 8 << 20

// NewClient builds a fetch client with the given per-request timeout.
// A zero timeout falls back to 30s.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		hc:        &http.Client{Timeout: timeout},
		userAgent: "scoresight/1.0",
	}
}

// Page fetches one document and returns its body as a string.
func (c *Client) Page(ctx context.Context, rawURL string) (string, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return "", fmt.Errorf("fetch: invalid url %q: %w", rawURL, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch: %s returned %s", rawURL, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return "", fmt.Errorf("fetch: read body: %w", err)
	}
	return string(body), nil
}

// Pages fetches every URL concurrently and returns the bodies in input
// order. The first failure cancels the remaining requests and is
// returned; partial results are discarded.
func (c *Client) Pages(ctx context.Context, urls []string) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pages := make([]string, len(urls))
	errs := make([]error, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			body, err := c.Page(ctx, u)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			pages[i] = body
		}(i, u)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return pages, nil
}

// BaseDir derives the asset-resolution base from a document URL: the URL
// up to and including the final path separator.
func BaseDir(rawURL string) string {
	if i := strings.LastIndex(rawURL, "/"); i >= 0 {
		return rawURL[:i+1]
	}
	return rawURL
}
