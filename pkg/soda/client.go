// Package soda provides a client for the Socrata Open Data API, the
// interface the state crash datasets are published behind.
package soda

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// ErrFetch marks failures talking to the open data portal: transport
// errors, non-200 responses, and undecodable payloads. There are no
// retries; callers classify with eris.Is and abort the run.
var ErrFetch = eris.New("soda: fetch failed")

// Record is one row of a dataset. Socrata serves column values as JSON
// strings regardless of the declared column type, so coercion is left
// to the caller.
type Record map[string]any

// Query describes a SoQL request against one dataset.
type Query struct {
	// Select lists the columns to return. Empty means all columns.
	Select []string
	// Where is a raw SoQL filter clause.
	Where string
	// Equals adds simple column=value filters outside the $where clause.
	Equals map[string]string
	// Limit caps the number of rows returned. 0 uses the portal default.
	Limit int
}

// Values encodes the query as URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if len(q.Select) > 0 {
		v.Set("$select", strings.Join(q.Select, ","))
	}
	if q.Where != "" {
		v.Set("$where", q.Where)
	}
	if q.Limit > 0 {
		v.Set("$limit", strconv.Itoa(q.Limit))
	}
	for col, val := range q.Equals {
		v.Set(col, val)
	}
	return v
}

// Client defines the dataset operations the analysis needs.
type Client interface {
	// Get runs a query against a dataset resource (e.g. "65du-s3qu.json")
	// and returns the decoded rows.
	Get(ctx context.Context, dataset string, q Query) ([]Record, error)
}

// Option configures the SODA client.
type Option func(*httpClient)

// WithBaseURL sets a custom resource base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithAppToken sets the portal application token. Anonymous access works
// but is throttled aggressively.
func WithAppToken(token string) Option {
	return func(c *httpClient) {
		c.appToken = token
	}
}

// WithRateLimit caps outgoing requests per second. The per-crash detail
// lookups can issue hundreds of calls for a busy segment.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type httpClient struct {
	baseURL  string
	appToken string
	limiter  *rate.Limiter
	http     *http.Client
}

// NewClient creates a client for the Maryland open data portal. Options
// override the portal URL, token, pacing, and transport.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://opendata.maryland.gov/resource",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Get(ctx context.Context, dataset string, q Query) ([]Record, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "soda: rate limit wait")
		}
	}

	reqURL := c.baseURL + "/" + dataset
	if params := q.Values().Encode(); params != "" {
		reqURL += "?" + params
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "soda: create request")
	}
	req.Header.Set("Accept", "application/json")
	if c.appToken != "" {
		req.Header.Set("X-App-Token", c.appToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(ErrFetch, "request %s: %v", dataset, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "soda: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrapf(ErrFetch, "dataset %s: status %d: %s", dataset, resp.StatusCode, truncate(body, 512))
	}

	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, eris.Wrapf(ErrFetch, "dataset %s: unmarshal response: %v", dataset, err)
	}

	return records, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
