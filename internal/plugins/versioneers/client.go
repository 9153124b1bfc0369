// Package versioneers looks up the latest upstream release of a package in
// release-monitoring.org and the language package indexes. Plain download
// directories are scraped as a fallback.
package versioneers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/EmundoT/rebase-helper/internal/version"
)

const (
	cacheSize   = 64
	maxBodySize = 8 << 20
	maxAttempts = 3
)

// errNotFound marks a 404 from an index: the project is unknown there.
var errNotFound = errors.New("not found")

// Client fetches index documents. Responses are cached by URL for the
// lifetime of the client, so several versioneers asking the same index in
// one run cost one request.
type Client struct {
	http    *http.Client
	cache   *lru.Cache[string, []byte]
	backoff time.Duration
}

// NewClient wraps httpClient (http.DefaultClient when nil).
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cache, _ := lru.New[string, []byte](cacheSize)
	return &Client{http: httpClient, cache: cache, backoff: time.Second}
}

// get returns the body of url. Rate limiting and server errors are retried
// with exponential backoff; a 404 yields errNotFound.
func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	if body, ok := c.cache.Get(url); ok {
		return body, nil
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(1<<uint(attempt-1)) * c.backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", version.UserAgent())
		if accept != "" {
			req.Header.Set("Accept", accept)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("GET %s: %s", url, resp.Status)
			continue
		}
		if resp.StatusCode == http.StatusNotFound {
			_ = resp.Body.Close()
			return nil, errNotFound
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", url, err)
		}
		c.cache.Add(url, body)
		return body, nil
	}
	return nil, lastErr
}

// getJSON decodes url into v and reports whether the index knows it.
func (c *Client) getJSON(ctx context.Context, url string, v any) (bool, error) {
	body, err := c.get(ctx, url, "application/json")
	if errors.Is(err, errNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", url, err)
	}
	return true, nil
}
