// Package cache provides an opt-in Redis cache for PokeForge GET responses.
//
// The cache manager stores response bodies together with their validators:
//
// - Freshness from Cache-Control max-age, falling back to Expires
// - ETag support for conditional requests (If-None-Match)
// - Last-Modified support (If-Modified-Since)
// - Stale entries kept for a retention window so they can be revalidated
// - Keys scoped by a hash of the bearer token, never the token itself
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient, 10*time.Minute)
//
//	key := cache.CacheKey{
//		Path:  "/Cards",
//		Query: url.Values{"page": []string{"1"}},
//		Scope: cache.ScopeForToken(token),
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the API
//	}
//
// # Storing Responses
//
//	if entry, ok := cache.ResponseToEntry(resp.Header, body); ok {
//		_ = manager.Set(ctx, key, entry)
//	}
//
// # Conditional Requests
//
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//		// a 304 response means the cached body is still current:
//		// cache.RefreshEntry(entry, resp.Header)
//	}
//
// # Metrics
//
//   - pokeforge_cache_hits_total{result} - Responses served from cache (fresh, revalidated)
//   - pokeforge_cache_misses_total - Cache misses
//   - pokeforge_cache_stored_bytes_total - Bytes written to Redis
//   - pokeforge_cache_conditional_requests_total - Revalidation requests sent
//   - pokeforge_cache_not_modified_total - 304 Not Modified responses
//   - pokeforge_cache_errors_total{operation} - Cache operation errors
package cache
