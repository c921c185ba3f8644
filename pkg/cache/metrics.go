package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks responses served from cache, by how they were validated
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeforge_cache_hits_total",
			Help: "Total number of PokeForge responses served from cache",
		},
		[]string{"result"}, // "fresh", "revalidated"
	)

	// CacheMisses tracks lookups that found no entry
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokeforge_cache_misses_total",
			Help: "Total number of PokeForge cache misses",
		},
	)

	// CacheStoredBytes tracks bytes written to the cache
	CacheStoredBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokeforge_cache_stored_bytes_total",
			Help: "Total bytes written to the PokeForge response cache",
		},
	)

	// ConditionalRequestsSent tracks revalidation requests
	ConditionalRequestsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokeforge_cache_conditional_requests_total",
			Help: "Total number of conditional requests sent to revalidate cached responses",
		},
	)

	// NotModifiedResponses tracks 304 Not Modified responses
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokeforge_cache_not_modified_total",
			Help: "Total number of 304 Not Modified responses",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeforge_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
