// Package testutil provides a mock PokeForge API server for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines a canned response for a mock endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// Route identifies a handler by method and path. An empty Method matches
// any method.
type Route struct {
	Method string
	Path   string
}

// MockAPI is a configurable mock PokeForge server.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[Route]http.HandlerFunc
	requests []*http.Request
	bodies   [][]byte

	requestCount     int
	conditionalCount int
}

// NewMockAPI starts a new mock server. Unregistered routes answer 404 with
// a problem-details body.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers: make(map[Route]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := readBody(r)

		mock.mu.Lock()
		mock.requestCount++
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.conditionalCount++
		}
		mock.requests = append(mock.requests, r.Clone(r.Context()))
		mock.bodies = append(mock.bodies, body)
		handler, ok := mock.handlers[Route{Method: r.Method, Path: r.URL.Path}]
		if !ok {
			handler, ok = mock.handlers[Route{Path: r.URL.Path}]
		}
		mock.mu.Unlock()

		if ok {
			handler(w, r)
			return
		}
		WriteProblem(w, http.StatusNotFound, "Not Found", fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
	}))

	return mock
}

func readBody(r *http.Request) []byte {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	body, _ := io.ReadAll(r.Body)
	return body
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears recorded requests and counters. Handlers are kept.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.conditionalCount = 0
	m.requests = nil
	m.bodies = nil
}

// Handle registers a handler for any method on path.
func (m *MockAPI) Handle(path string, handler http.HandlerFunc) {
	m.HandleMethod("", path, handler)
}

// HandleMethod registers a handler for method and path.
func (m *MockAPI) HandleMethod(method, path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[Route{Method: method, Path: path}] = handler
}

// SetResponse serves a canned response on path for any method.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.Handle(path, resp.handler())
}

// SetMethodResponse serves a canned response for method and path.
func (m *MockAPI) SetMethodResponse(method, path string, resp MockResponse) {
	m.HandleMethod(method, path, resp.handler())
}

func (resp MockResponse) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			_, _ = w.Write([]byte(resp.Body))
		}
	}
}

// RequestCount returns the number of requests served.
func (m *MockAPI) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// ConditionalCount returns the number of conditional requests served.
func (m *MockAPI) ConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conditionalCount
}

// LastRequest returns the most recent request, or nil.
func (m *MockAPI) LastRequest() *http.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// LastBody returns the body of the most recent request.
func (m *MockAPI) LastBody() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.bodies) == 0 {
		return nil
	}
	return m.bodies[len(m.bodies)-1]
}

// Requests returns all recorded requests in arrival order.
func (m *MockAPI) Requests() []*http.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*http.Request(nil), m.requests...)
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteProblem writes an RFC 7807 problem-details body.
func WriteProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "about:blank",
		"title":  title,
		"status": status,
		"detail": detail,
	})
}

// Pagination mirrors the server's pagination object.
type Pagination struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

// PaginateHandler serves items as a paged list envelope, slicing by the
// page and pageSize query parameters (defaults 1 and 20).
func PaginateHandler[T any](items []T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := intParam(r, "page", 1)
		size := intParam(r, "pageSize", intParam(r, "limit", 20))
		WriteJSON(w, http.StatusOK, PageEnvelope(items, page, size))
	}
}

// PageEnvelope builds {data, pagination} for one page of items.
func PageEnvelope[T any](items []T, page, size int) map[string]any {
	if size <= 0 {
		size = 20
	}
	total := len(items)
	totalPages := max(1, (total+size-1)/size)
	from := min(max(page-1, 0)*size, total)
	to := min(from+size, total)

	return map[string]any{
		"data": items[from:to],
		"pagination": Pagination{
			Page:        page,
			PageSize:    size,
			TotalCount:  total,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	}
}

// DataEnvelope wraps v as {"data": v}.
func DataEnvelope(v any) map[string]any {
	return map[string]any{"data": v}
}

func intParam(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return n
}

// NewJSONResponse creates a 200 response with a JSON body.
func NewJSONResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewCacheableResponse creates a 200 response with an ETag and max-age.
func NewCacheableResponse(body, etag string, maxAge time.Duration) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type":  "application/json; charset=utf-8",
			"ETag":          etag,
			"Cache-Control": fmt.Sprintf("max-age=%d", int(maxAge.Seconds())),
		},
	}
}

// NewRateLimitResponse creates a 429 response with a Retry-After header.
func NewRateLimitResponse(retryAfter int) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"title":"Too Many Requests","status":429}`,
		Headers: map[string]string{
			"Content-Type": "application/problem+json",
			"Retry-After":  strconv.Itoa(retryAfter),
		},
	}
}

// NewServerErrorResponse creates a 500 problem-details response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"title":"Internal Server Error","status":500}`,
		Headers: map[string]string{
			"Content-Type": "application/problem+json",
		},
	}
}

// NewConditionalHandler answers 304 when If-None-Match equals etag and a
// full cacheable response otherwise.
func NewConditionalHandler(etag, data string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "max-age=0")
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(data))
	}
}
