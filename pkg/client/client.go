// Package client provides the core PokeForge HTTP client with retries,
// typed errors, optional response caching and rate-limit hint tracking.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Sternrassler/pokeforge-client/pkg/auth"
	"github.com/Sternrassler/pokeforge-client/pkg/cache"
	"github.com/Sternrassler/pokeforge-client/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the public PokeForge API.
	DefaultBaseURL = "https://api.pokeforge.gg"

	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "pokeforge-client-go/1.0"
)

// Prometheus metrics for PokeForge client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeforge_requests_total",
		Help: "Total PokeForge request attempts by method and status",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pokeforge_request_duration_seconds",
		Help:    "PokeForge logical request duration in seconds by method",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"method"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeforge_errors_total",
		Help: "Total PokeForge errors returned to callers by kind",
	}, []string{"kind"})
)

// Query holds query parameters. Nil values, including typed nil pointers,
// are omitted; zero values such as "", 0 and false are sent.
type Query map[string]any

// Client is the PokeForge request executor.
type Client struct {
	httpClient  *http.Client
	tokens      *auth.TokenProvider
	rateLimiter *ratelimit.Tracker
	cache       *cache.Manager
	config      Config
	baseURL     string
	logger      zerolog.Logger
	closed      *atomic.Bool
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the API, e.g. "https://api.pokeforge.gg"
	BaseURL string

	// Credential used for the Authorization header. Zero value sends none.
	Credential auth.Credential

	// Timeout bounds every single attempt.
	Timeout time.Duration

	// Retries is the number of additional attempts after the first.
	Retries int

	// RetryPolicy computes delays between attempts.
	RetryPolicy RetryPolicy

	// UserAgent header. Defaults to DefaultUserAgent.
	UserAgent string

	// HTTPClient overrides the transport. Its own Timeout, if set, also
	// produces timeout errors.
	HTTPClient *http.Client

	// Cache enables Redis-backed caching of GET responses when non-nil.
	Cache *cache.Manager

	// Logger is the parent logger. Defaults to the global zerolog logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		Timeout:     30 * time.Second,
		Retries:     3,
		RetryPolicy: DefaultRetryPolicy(),
		UserAgent:   DefaultUserAgent,
	}
}

// New creates a new PokeForge client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}

	if cfg.Retries < 0 {
		return nil, fmt.Errorf("retries must be >= 0 (got %d)", cfg.Retries)
	}

	if err := cfg.RetryPolicy.validate(); err != nil {
		return nil, err
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	parent := log.Logger
	if cfg.Logger != nil {
		parent = *cfg.Logger
	}
	logger := parent.With().Str("component", "pokeforge-client").Logger()

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient:  httpClient,
		tokens:      auth.NewTokenProvider(cfg.Credential),
		rateLimiter: ratelimit.NewTracker(logger),
		cache:       cfg.Cache,
		config:      cfg,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		logger:      logger,
		closed:      &atomic.Bool{},
	}, nil
}

// RequestOption customizes a single logical request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	timeout time.Duration
	noRetry bool
}

// WithTimeout overrides the per-attempt timeout for one request.
func WithTimeout(d time.Duration) RequestOption {
	return func(o *requestOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithoutRetry limits the request to a single attempt.
func WithoutRetry() RequestOption {
	return func(o *requestOptions) {
		o.noRetry = true
	}
}

// Request performs one logical request, retrying transient failures.
// It returns the decoded JSON body, or nil for 204, empty and non-JSON
// success responses. Every error is an *APIError except ErrClientClosed.
func (c *Client) Request(ctx context.Context, method, path string, query Query, body any, opts ...RequestOption) (json.RawMessage, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	ro := requestOptions{timeout: c.config.Timeout}
	for _, opt := range opts {
		opt(&ro)
	}

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(method).Observe(time.Since(startTime).Seconds())
	}()

	data, err := c.execute(ctx, method, path, query, body, ro)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			errorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()
		}
		return nil, err
	}

	return data, nil
}

// execute runs the attempt loop.
func (c *Client) execute(ctx context.Context, method, path string, query Query, body any, ro requestOptions) (json.RawMessage, error) {
	values, err := encodeQuery(query)
	if err != nil {
		return nil, newNetworkError(fmt.Sprintf("unexpected error: %v", err), err)
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, newNetworkError(fmt.Sprintf("unexpected error: encode request body: %v", err), err)
		}
	}

	target := c.buildURL(path, values)
	useCache := c.cache != nil && method == http.MethodGet

	maxAttempts := c.config.Retries + 1
	if ro.noRetry {
		maxAttempts = 1
	}

	var (
		lastErr  error
		cached   *cache.CacheEntry
		cacheKey cache.CacheKey
	)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, newNetworkError(fmt.Sprintf("unexpected error: token source: %v", err), err)
		}

		if useCache && attempt == 1 {
			cacheKey = cache.CacheKey{Path: path, Query: values, Scope: cache.ScopeForToken(token)}
			cached = c.lookupCache(ctx, cacheKey)
			if cached != nil && cached.IsFresh() {
				cache.CacheHits.WithLabelValues("fresh").Inc()
				c.logger.Debug().Str("path", path).Msg("Serving fresh cached response")
				return json.RawMessage(cached.Data), nil
			}
		}

		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Msg("Executing PokeForge request")

		res := c.attempt(ctx, attemptRequest{
			method:  method,
			url:     target,
			payload: payload,
			token:   token,
			timeout: ro.timeout,
			cached:  cached,
		})

		if res.err == nil {
			if useCache {
				c.storeCache(ctx, cacheKey, res, cached)
			}
			return res.data, nil
		}

		lastErr = res.err

		if !res.retryable {
			c.logError(method, path, attempt, res.err)
			return nil, res.err
		}

		if attempt >= maxAttempts {
			retryExhaustedTotal.WithLabelValues(string(res.err.Kind)).Inc()
			c.logger.Warn().
				Str("method", method).
				Str("path", path).
				Int("max_attempts", maxAttempts).
				Str("error_kind", string(res.err.Kind)).
				Msg("Retry attempts exhausted")
			return nil, res.err
		}

		// Connectivity failures carry no server hint.
		var hint *APIError
		if res.err.Status != 0 {
			hint = res.err
		}
		delay := c.config.RetryPolicy.NextDelay(attempt, hint)
		recordRetry(res.err.Kind, delay)

		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Int("attempt", attempt).
			Int("status", res.err.Status).
			Str("error_kind", string(res.err.Kind)).
			Dur("backoff", delay).
			Msg("Retrying request after backoff")

		if err := wait(ctx, delay); err != nil {
			c.logger.Warn().
				Str("path", path).
				Int("attempt", attempt).
				Msg("Context cancelled during retry backoff")
			return nil, cancellationError(ctx, err)
		}
	}

	return nil, newNetworkError("request failed after retries", lastErr)
}

type attemptRequest struct {
	method  string
	url     string
	payload []byte
	token   string
	timeout time.Duration
	cached  *cache.CacheEntry
}

type attemptResult struct {
	data        json.RawMessage
	header      http.Header
	status      int
	notModified bool
	err         *APIError
	retryable   bool
}

// attempt performs one physical HTTP exchange under its own deadline.
func (c *Client) attempt(ctx context.Context, ar attemptRequest) attemptResult {
	attemptCtx, cancel := context.WithTimeout(ctx, ar.timeout)
	defer cancel()

	var bodyReader io.Reader
	if ar.payload != nil {
		bodyReader = bytes.NewReader(ar.payload)
	}

	req, err := http.NewRequestWithContext(attemptCtx, ar.method, ar.url, bodyReader)
	if err != nil {
		return attemptResult{err: newNetworkError(fmt.Sprintf("unexpected error: build request: %v", err), err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if ar.token != "" {
		req.Header.Set("Authorization", "Bearer "+ar.token)
	}

	if cache.ShouldMakeConditionalRequest(ar.cached) {
		cache.AddConditionalHeaders(req, ar.cached)
		cache.ConditionalRequestsSent.Inc()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportFailure(ctx, ar, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportFailure(ctx, ar, err)
	}

	requestsTotal.WithLabelValues(ar.method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusNotModified && ar.cached != nil {
		cache.NotModifiedResponses.Inc()
		return attemptResult{
			data:        json.RawMessage(ar.cached.Data),
			header:      resp.Header,
			status:      resp.StatusCode,
			notModified: true,
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		data, apiErr := decodeSuccess(resp, respBody)
		return attemptResult{data: data, header: resp.Header, status: resp.StatusCode, err: apiErr}
	}

	apiErr := Classify(resp.StatusCode, respBody, resp.Header.Get("Retry-After"))
	if apiErr.Kind == KindRateLimit {
		c.rateLimiter.Observe(apiErr.RetryAfter)
	}

	return attemptResult{
		status:    resp.StatusCode,
		err:       apiErr,
		retryable: shouldRetryStatus(resp.StatusCode),
	}
}

// decodeSuccess interprets a 2xx response body.
func decodeSuccess(resp *http.Response, body []byte) (json.RawMessage, *APIError) {
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil, nil
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	if !json.Valid(body) {
		return nil, newNetworkError("unexpected error: invalid JSON response", nil)
	}

	return json.RawMessage(body), nil
}

// transportFailure classifies an error raised while sending the request or
// reading the response.
func (c *Client) transportFailure(ctx context.Context, ar attemptRequest, err error) attemptResult {
	if ctx.Err() != nil {
		return attemptResult{err: cancellationError(ctx, err)}
	}

	requestsTotal.WithLabelValues(ar.method, "network_error").Inc()

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return attemptResult{err: newTimeoutError(fmt.Sprintf("request timed out after %s", ar.timeout), err)}
	}

	c.logger.Debug().Err(err).Str("method", ar.method).Msg("HTTP request failed")

	return attemptResult{err: newNetworkError("network error", err), retryable: true}
}

// cancellationError maps the caller's context ending to a typed error.
func cancellationError(ctx context.Context, cause error) *APIError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newTimeoutError("request deadline exceeded", ctx.Err())
	}
	if cause == nil || !errors.Is(cause, ctx.Err()) {
		cause = ctx.Err()
	}
	return newNetworkError("request cancelled", cause)
}

func (c *Client) logError(method, path string, attempt int, apiErr *APIError) {
	c.logger.Warn().
		Str("method", method).
		Str("path", path).
		Int("attempt", attempt).
		Int("status", apiErr.Status).
		Str("error_kind", string(apiErr.Kind)).
		Msg("PokeForge request error")
}

// lookupCache returns the cached entry for key, or nil. Failures are logged.
func (c *Client) lookupCache(ctx context.Context, key cache.CacheKey) *cache.CacheEntry {
	entry, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("path", key.Path).Msg("Cache get error")
		}
		return nil
	}
	return entry
}

// storeCache writes a successful GET response back to the cache.
func (c *Client) storeCache(ctx context.Context, key cache.CacheKey, res attemptResult, cached *cache.CacheEntry) {
	if res.notModified {
		cache.CacheHits.WithLabelValues("revalidated").Inc()
		cache.RefreshEntry(cached, res.header)
		if err := c.cache.Set(ctx, key, cached); err != nil {
			c.logger.Warn().Err(err).Str("path", key.Path).Msg("Failed to refresh cached response")
		}
		c.logger.Debug().Str("path", key.Path).Msg("304 Not Modified, using cache")
		return
	}

	if res.status != http.StatusOK || res.data == nil {
		return
	}

	entry, ok := cache.ResponseToEntry(res.header, res.data)
	if !ok {
		return
	}

	if err := c.cache.Set(ctx, key, entry); err != nil {
		c.logger.Warn().Err(err).Str("path", key.Path).Msg("Failed to cache response")
		return
	}

	c.logger.Debug().
		Str("path", key.Path).
		Dur("fresh_for", entry.FreshFor()).
		Msg("Cached response")
}

func (c *Client) buildURL(path string, values url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := c.baseURL + path
	if len(values) > 0 {
		target += "?" + values.Encode()
	}
	return target
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query Query, opts ...RequestOption) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, path, query, nil, opts...)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, path, nil, body, opts...)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPut, path, nil, body, opts...)
}

// Delete performs a DELETE request with an optional JSON body.
func (c *Client) Delete(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, body, opts...)
}

// Health checks that the API is reachable.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.Get(ctx, "/health", nil)
	return err
}

// WithToken returns a client that shares this client's transport, cache
// and lifecycle but authenticates with the given static token.
func (c *Client) WithToken(token string) *Client {
	sibling := *c
	sibling.config.Credential = auth.Static(token)
	sibling.tokens = auth.NewTokenProvider(sibling.config.Credential)
	return &sibling
}

// SetToken replaces the credential with a static token.
func (c *Client) SetToken(token string) {
	c.tokens.SetToken(token)
}

// HasAuth reports whether a credential is configured.
func (c *Client) HasAuth() bool {
	return c.tokens.HasAuth()
}

// RateLimitState returns the latest server rate-limit observations.
func (c *Client) RateLimitState() ratelimit.RateLimitState {
	return c.rateLimiter.State()
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config {
	return c.config
}

// Close releases idle connections. Requests issued afterwards fail with
// ErrClientClosed. Close is idempotent.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.httpClient.CloseIdleConnections()
	return nil
}
