package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single endpoint attempt.
const DefaultTimeout = 12 * time.Second

var (
	// ErrAllEndpointsFailed wraps the last endpoint error once every mirror has failed.
	ErrAllEndpointsFailed = errors.New("all overpass endpoints failed")

	// ErrNoEndpoints is returned by a Chain built without endpoints.
	ErrNoEndpoints = errors.New("no overpass endpoints configured")
)

// Element is one OSM object from an Overpass JSON response. Ways and
// relations carry a Center instead of Lat/Lon when queried with "out center".
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *Center           `json:"center"`
	Tags   map[string]string `json:"tags"`
}

// Center is the computed midpoint of a way or relation.
type Center struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// Response is the decoded body of an interpreter call.
type Response struct {
	Elements []Element `json:"elements"`
}

// Querier runs an Overpass QL query.
type Querier interface {
	Query(ctx context.Context, query string) (*Response, error)
}

// Endpoint is a single Overpass interpreter mirror.
type Endpoint struct {
	URL        string
	timeout    time.Duration
	httpClient *http.Client
}

// NewEndpoint creates a client for one interpreter URL. A non-positive
// timeout falls back to DefaultTimeout.
func NewEndpoint(rawURL string, timeout time.Duration) *Endpoint {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Endpoint{
		URL:        rawURL,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// Query POSTs the query as form field "data". Any status other than 200 is
// an error.
func (e *Endpoint) Query(ctx context.Context, query string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", e.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("overpass status %d from %s", resp.StatusCode, e.URL)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", e.URL, err)
	}
	return &out, nil
}

// Chain tries endpoints in order and returns the first successful response.
type Chain struct {
	endpoints []Querier
	logger    *zap.Logger
}

// NewChain builds a Chain over the given endpoints.
func NewChain(logger *zap.Logger, endpoints ...Querier) *Chain {
	return &Chain{endpoints: endpoints, logger: logger}
}

// NewChainFromURLs builds a Chain with one Endpoint per URL.
func NewChainFromURLs(logger *zap.Logger, urls []string, timeout time.Duration) *Chain {
	endpoints := make([]Querier, 0, len(urls))
	for _, u := range urls {
		endpoints = append(endpoints, NewEndpoint(u, timeout))
	}
	return NewChain(logger, endpoints...)
}

// Query implements Querier. Failures advance to the next endpoint; when all
// have failed the returned error wraps both ErrAllEndpointsFailed and the
// last endpoint's error.
func (c *Chain) Query(ctx context.Context, query string) (*Response, error) {
	if len(c.endpoints) == 0 {
		return nil, ErrNoEndpoints
	}

	var lastErr error
	for i, ep := range c.endpoints {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := ep.Query(ctx, query)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		c.logger.Warn("overpass endpoint failed",
			zap.Int("attempt", i+1),
			zap.Int("endpoints", len(c.endpoints)),
			zap.Error(err))
	}

	return nil, fmt.Errorf("%w: %w", ErrAllEndpointsFailed, lastErr)
}
