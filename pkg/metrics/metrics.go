// Package metrics exposes the Prometheus metrics of the PokeForge client.
// The metrics themselves are declared in the packages that record them
// (client, cache, ratelimit) and register with the default registry via
// promauto.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Prefix is shared by every metric name of this module.
const Prefix = "pokeforge_"

// Registry is the registerer all client metrics are registered with.
var Registry = prometheus.DefaultRegisterer

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// WriteText writes the client's metric families from g in text format.
// Families from other libraries are skipped.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), Prefix) {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - pokeforge_requests_total{method, status} (Counter): physical attempts by method and HTTP status
//   - pokeforge_request_duration_seconds{method} (Histogram): logical request duration, retries included
//   - pokeforge_errors_total{kind} (Counter): failed logical requests by APIError kind
//
// Retry Metrics (pkg/client):
//   - pokeforge_retries_total{error_kind} (Counter): retries by the kind of the failed attempt
//   - pokeforge_retry_backoff_seconds{error_kind} (Histogram): delay slept before each retry
//   - pokeforge_retry_exhausted_total{error_kind} (Counter): requests that failed on their last attempt
//
// Rate Limit Metrics (pkg/ratelimit):
//   - pokeforge_rate_limit_hits_total (Counter): 429 responses observed
//   - pokeforge_rate_limit_retry_after_seconds (Gauge): last Retry-After hint
//
// Cache Metrics (pkg/cache):
//   - pokeforge_cache_hits_total{result} (Counter): fresh hits and revalidated hits
//   - pokeforge_cache_misses_total (Counter): lookups without a usable entry
//   - pokeforge_cache_stored_bytes_total (Counter): bytes written to Redis
//   - pokeforge_cache_conditional_requests_total (Counter): requests sent with validators
//   - pokeforge_cache_not_modified_total (Counter): 304 responses
//   - pokeforge_cache_errors_total{operation} (Counter): Redis failures
//
// Example Prometheus Queries:
//
//	# Cache hit rate
//	sum(rate(pokeforge_cache_hits_total[5m])) /
//	(sum(rate(pokeforge_cache_hits_total[5m])) + sum(rate(pokeforge_cache_misses_total[5m])))
//
//	# Rate-limited share of requests
//	rate(pokeforge_rate_limit_hits_total[5m]) / sum(rate(pokeforge_requests_total[5m]))
//
//	# P95 request latency
//	histogram_quantile(0.95, rate(pokeforge_request_duration_seconds_bucket[5m]))
