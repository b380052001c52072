package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/roach88/hackerstories/internal/story"
)

// DefaultBaseURL is the Hacker News search endpoint.
const DefaultBaseURL = "https://hn.algolia.com/api/v1/search"

// DefaultTimeout bounds a single request when no client is supplied.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps how much of a response body is decoded.
const maxBodyBytes = 16 << 20

// Fetcher retrieves the records behind an endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) ([]story.Record, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, endpoint string) ([]story.Record, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, endpoint string) ([]story.Record, error) {
	return f(ctx, endpoint)
}

// Endpoint builds the search URL for query, e.g.
// https://hn.algolia.com/api/v1/search?query=react.
func Endpoint(base, query string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "query=" + url.QueryEscape(query)
}

// searchResponse is the subset of the search API body that is decoded.
// Unknown fields are ignored.
type searchResponse struct {
	Hits []story.Record `json:"hits"`
}

// HTTPFetcher fetches records with a single HTTP GET per call.
// It never retries.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger

	mu     sync.Mutex // guards schema
	schema *Schema
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

// WithLimiter makes every Fetch wait for a token from l before sending.
func WithLimiter(l *rate.Limiter) Option {
	return func(f *HTTPFetcher) {
		f.limiter = l
	}
}

// WithValidation rejects payloads whose hits do not satisfy schema.
func WithValidation(schema *Schema) Option {
	return func(f *HTTPFetcher) {
		f.schema = schema
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(f *HTTPFetcher) {
		f.logger = l
	}
}

// NewHTTPFetcher creates a fetcher. Without options it uses a client with
// DefaultTimeout, no rate limit and no validation.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client: &http.Client{Timeout: DefaultTimeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs one GET against endpoint and decodes its hits.
func (f *HTTPFetcher) Fetch(ctx context.Context, endpoint string) ([]story.Record, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &Error{Endpoint: endpoint, Err: fmt.Errorf("rate limit: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	f.logger.Debug("fetching stories", "endpoint", endpoint)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &Error{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var body searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, &Error{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}

	records := body.Hits
	if records == nil {
		records = []story.Record{}
	}

	if f.schema != nil {
		f.mu.Lock()
		err := f.schema.Validate(records)
		f.mu.Unlock()
		if err != nil {
			return nil, &Error{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid payload: %w", err)}
		}
	}

	f.logger.Debug("stories fetched", "endpoint", endpoint, "count", len(records))
	return records, nil
}
