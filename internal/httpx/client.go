// Package httpx wraps the HTTP operations the exporter performs itself:
// fetching the show page and peeking at the resolved stream manifest.
// Bulk stream downloading is delegated to the external fetch tool.
package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is an HTTP client configured for radio platform pages.
//
// Example usage:
//
//	client := httpx.NewClient()
//	html, err := client.GetString(ctx, showURL)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new Client.
//
// The client is configured with a 60 second timeout and an "aircheck"
// User-Agent header; some platforms reject requests without one.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		userAgent: "aircheck",
	}
}

// Get fetches url and returns the response body. Any non-200 status is
// an error; the platforms respond 200 or not at all.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// GetString is Get for callers that want the body as text, which is all
// of the scrapers.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
