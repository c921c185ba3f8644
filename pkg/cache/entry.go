package cache

import (
	"time"
)

// CacheEntry represents a cached PokeForge response body.
type CacheEntry struct {
	// Data is the response body
	Data []byte `json:"data"`

	// ContentType is the response Content-Type header
	ContentType string `json:"content_type,omitempty"`

	// ETag for conditional requests (If-None-Match)
	ETag string `json:"etag,omitempty"`

	// LastModified is the raw Last-Modified header (If-Modified-Since)
	LastModified string `json:"last_modified,omitempty"`

	// FreshUntil is when the entry stops being served without revalidation
	FreshUntil time.Time `json:"fresh_until"`

	// CachedAt is when we cached this response
	CachedAt time.Time `json:"cached_at"`
}

// IsFresh returns true if the entry may be served without contacting the server.
func (e *CacheEntry) IsFresh() bool {
	return time.Now().Before(e.FreshUntil)
}

// FreshFor returns the remaining freshness lifetime.
// Returns 0 if the entry is already stale.
func (e *CacheEntry) FreshFor() time.Duration {
	ttl := time.Until(e.FreshUntil)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// HasValidators reports whether a stale entry can be revalidated.
func (e *CacheEntry) HasValidators() bool {
	return e.ETag != "" || e.LastModified != ""
}
