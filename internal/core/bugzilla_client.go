package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/EmundoT/rebase-helper/internal/version"
)

// DefaultBugzillaURL is queried for rhbz#N tracker identifiers.
const DefaultBugzillaURL = "https://bugzilla.redhat.com"

// TrackerClient resolves an upstream-release tracker bug to the version it
// announces.
//
//go:generate mockgen -source=bugzilla_client.go -destination=bugzilla_client_mock_test.go -package=core
type TrackerClient interface {
	TrackedVersion(ctx context.Context, id int) (pkg, version string, err error)
}

// BugzillaClient implements TrackerClient over the Bugzilla REST API. The
// release-monitoring bot files bugs titled "<name>-<version> is available".
type BugzillaClient struct {
	httpClient *http.Client
	baseURL    string
	backoff    time.Duration
}

// NewBugzillaClient creates a client for baseURL (DefaultBugzillaURL when
// empty).
func NewBugzillaClient(httpClient *http.Client, baseURL string) *BugzillaClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBugzillaURL
	}
	return &BugzillaClient{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/"), backoff: time.Second}
}

var _ TrackerClient = (*BugzillaClient)(nil)

var availableRe = regexp.MustCompile(`^(\S+)-(\d\S*) is available`)

// ParseTrackerID reads "rhbz#N" (or "#N") and reports whether s is one.
func ParseTrackerID(s string) (int, bool) {
	rest, ok := strings.CutPrefix(s, "rhbz")
	if !ok {
		rest = s
	}
	rest, ok = strings.CutPrefix(rest, "#")
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// TrackedVersion fetches bug id and parses its summary. Rate limiting and
// server errors are retried with exponential backoff.
func (c *BugzillaClient) TrackedVersion(ctx context.Context, id int) (string, string, error) {
	apiURL := fmt.Sprintf("%s/rest/bug/%d?include_fields=summary", c.baseURL, id)

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", "", ctx.Err()
			case <-time.After(time.Duration(1<<uint(attempt-1)) * c.backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return "", "", err
		}
		req.Header.Set("User-Agent", version.UserAgent())
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("bugzilla returned %s", resp.Status)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return "", "", fmt.Errorf("bug %d: bugzilla returned %s", id, resp.Status)
		}

		var res struct {
			Bugs []struct {
				Summary string `json:"summary"`
			} `json:"bugs"`
		}
		err = json.NewDecoder(resp.Body).Decode(&res)
		_ = resp.Body.Close()
		if err != nil {
			return "", "", fmt.Errorf("decode bug %d: %w", id, err)
		}
		if len(res.Bugs) == 0 {
			return "", "", fmt.Errorf("bug %d not found", id)
		}
		m := availableRe.FindStringSubmatch(res.Bugs[0].Summary)
		if m == nil {
			return "", "", fmt.Errorf("bug %d is not an upstream release tracker: %q", id, res.Bugs[0].Summary)
		}
		return m[1], m[2], nil
	}

	return "", "", lastErr
}
