package cache

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// cacheControl holds the Cache-Control directives the client honors.
type cacheControl struct {
	noStore bool
	noCache bool
	maxAge  time.Duration
	hasAge  bool
}

func parseCacheControl(header http.Header) cacheControl {
	var cc cacheControl
	for _, value := range header.Values("Cache-Control") {
		for _, directive := range strings.Split(value, ",") {
			directive = strings.ToLower(strings.TrimSpace(directive))
			switch {
			case directive == "no-store":
				cc.noStore = true
			case directive == "no-cache":
				cc.noCache = true
			case strings.HasPrefix(directive, "max-age="):
				seconds, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age="))
				if err == nil && seconds >= 0 {
					cc.maxAge = time.Duration(seconds) * time.Second
					cc.hasAge = true
				}
			}
		}
	}
	return cc
}

// freshUntil computes the freshness deadline from Cache-Control max-age,
// falling back to Expires. Without either, the entry is stale immediately.
func freshUntil(header http.Header, now time.Time, cc cacheControl) time.Time {
	if cc.noCache {
		return now
	}
	if cc.hasAge {
		return now.Add(cc.maxAge)
	}
	if expiresStr := header.Get("Expires"); expiresStr != "" {
		if expires, err := http.ParseTime(expiresStr); err == nil && expires.After(now) {
			return expires
		}
	}
	return now
}

// ResponseToEntry builds a cache entry from a 200 response's headers and body.
// It returns false when the response must not be stored: Cache-Control
// no-store, or neither a freshness lifetime nor validators.
func ResponseToEntry(header http.Header, body []byte) (*CacheEntry, bool) {
	cc := parseCacheControl(header)
	if cc.noStore {
		return nil, false
	}

	now := time.Now()
	entry := &CacheEntry{
		Data:         body,
		ContentType:  header.Get("Content-Type"),
		ETag:         header.Get("ETag"),
		LastModified: header.Get("Last-Modified"),
		FreshUntil:   freshUntil(header, now, cc),
		CachedAt:     now,
	}

	if !entry.IsFresh() && !entry.HasValidators() {
		return nil, false
	}

	return entry, true
}

// RefreshEntry applies the headers of a 304 Not Modified response to a
// cached entry, extending its freshness and updating validators.
func RefreshEntry(entry *CacheEntry, header http.Header) {
	if entry == nil {
		return
	}

	now := time.Now()
	entry.FreshUntil = freshUntil(header, now, parseCacheControl(header))
	entry.CachedAt = now

	if etag := header.Get("ETag"); etag != "" {
		entry.ETag = etag
	}
	if lastModified := header.Get("Last-Modified"); lastModified != "" {
		entry.LastModified = lastModified
	}
}

// ShouldMakeConditionalRequest determines if we should add conditional
// request headers (If-None-Match or If-Modified-Since) based on the cache entry.
func ShouldMakeConditionalRequest(entry *CacheEntry) bool {
	return entry != nil && !entry.IsFresh() && entry.HasValidators()
}

// AddConditionalHeaders adds If-None-Match (ETag) or If-Modified-Since headers
// to the request if the cache entry supports conditional requests.
func AddConditionalHeaders(req *http.Request, entry *CacheEntry) {
	if entry == nil || req == nil {
		return
	}

	// Prefer ETag over Last-Modified (more accurate)
	if entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	} else if entry.LastModified != "" {
		req.Header.Set("If-Modified-Since", entry.LastModified)
	}
}
