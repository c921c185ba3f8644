package ratelimit

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate limit tracking.
var (
	retryAfterSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pokeforge_rate_limit_retry_after_seconds",
		Help: "Retry-After hint of the most recent PokeForge 429 response",
	})

	rateLimitHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokeforge_rate_limit_hits_total",
		Help: "Total number of PokeForge 429 responses",
	})
)

// Tracker records server rate-limit hints. It is safe for concurrent use.
type Tracker struct {
	mu     sync.RWMutex
	state  RateLimitState
	logger zerolog.Logger
}

// NewTracker creates a new rate limit tracker.
func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{
		logger: logger,
	}
}

// Observe records a 429 response with the given Retry-After hint.
// A zero hint means the server sent none.
func (t *Tracker) Observe(retryAfter time.Duration) {
	now := time.Now()

	t.mu.Lock()
	t.state.Hits++
	t.state.LastRetryAfter = retryAfter
	t.state.LastUpdate = now
	if retryAfter > 0 {
		t.state.BlockedUntil = now.Add(retryAfter)
	} else {
		t.state.BlockedUntil = time.Time{}
	}
	hits := t.state.Hits
	t.mu.Unlock()

	rateLimitHitsTotal.Inc()
	retryAfterSeconds.Set(retryAfter.Seconds())

	t.logger.Warn().
		Dur("retry_after", retryAfter).
		Int64("hits", hits).
		Msg("PokeForge rate limit hit")
}

// State returns a snapshot of the current observations.
func (t *Tracker) State() RateLimitState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}
