package university

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/counsellor/internal/config"
	"github.com/edgard/counsellor/internal/metrics"
)

// DefaultPerCountry applies when FetchMultiCountry gets a limit <= 0.
const DefaultPerCountry = 10

// ErrBadStatus reports a non-2xx reply from the directory.
var ErrBadStatus = errors.New("unexpected directory status")

// Client queries the directory. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *Cache
	metrics    *metrics.Metrics
	log        *slog.Logger
}

// NewClient creates a directory client. cache and m may be nil.
func NewClient(cfg config.DirectoryConfig, cache *Cache, m *metrics.Metrics, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultDirectoryTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		metrics:    m,
		log:        log.With("component", "university_client"),
	}
}

// Lookup performs one directory search. Empty filters are omitted from the
// query. Cache failures are logged and fall through to the network.
func (c *Client) Lookup(ctx context.Context, country, name string) ([]RawRecord, error) {
	records, hit, err := c.cache.Get(ctx, country, name)
	if err != nil {
		c.log.WarnContext(ctx, "Directory cache read failed", "error", err)
	}
	if hit {
		c.metrics.ObserveDirectoryLookup("hit")
		return records, nil
	}

	records, err = c.fetch(ctx, country, name)
	if err != nil {
		c.metrics.ObserveDirectoryLookup("error")
		return nil, err
	}
	c.metrics.ObserveDirectoryLookup("ok")

	if err := c.cache.Set(ctx, country, name, records); err != nil {
		c.log.WarnContext(ctx, "Directory cache write failed", "error", err)
	}
	return records, nil
}

func (c *Client) fetch(ctx context.Context, country, name string) ([]RawRecord, error) {
	params := url.Values{}
	if country != "" {
		params.Set("country", country)
	}
	if name != "" {
		params.Set("name", name)
	}
	endpoint := c.baseURL + "/search"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var records []RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode directory response: %w", err)
	}
	if records == nil {
		records = []RawRecord{}
	}

	c.log.DebugContext(ctx, "Directory lookup completed",
		"country", country,
		"name", name,
		"count", len(records),
		"duration_ms", time.Since(startTime).Milliseconds())
	return records, nil
}

// Search is Lookup with failures degraded to an empty list.
func (c *Client) Search(ctx context.Context, country, name string) []RawRecord {
	records, err := c.Lookup(ctx, country, name)
	if err != nil {
		c.log.WarnContext(ctx, "Directory search failed", "country", country, "name", name, "error", err)
		return []RawRecord{}
	}
	return records
}

// SearchUniversities searches and normalises at most limit entries.
// A limit <= 0 keeps every entry.
func (c *Client) SearchUniversities(ctx context.Context, country, name string, limit int) []University {
	return NormalizeAll(prefix(c.Search(ctx, country, name), limit))
}

// FetchMultiCountry looks up every country concurrently. Each country gets a
// key in the result; a failed lookup yields an empty list for that key only
// and never cancels the others.
func (c *Client) FetchMultiCountry(ctx context.Context, countries []string, limitPerCountry int) map[string][]University {
	if limitPerCountry <= 0 {
		limitPerCountry = DefaultPerCountry
	}

	results := make([][]University, len(countries))
	var g errgroup.Group
	for i, country := range countries {
		g.Go(func() error {
			results[i] = c.SearchUniversities(ctx, country, "", limitPerCountry)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string][]University, len(countries))
	for i, country := range countries {
		if _, seen := out[country]; !seen {
			out[country] = results[i]
		}
	}
	return out
}

func prefix[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
