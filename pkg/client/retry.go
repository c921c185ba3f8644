package client

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for retry operations.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeforge_retries_total",
		Help: "Total number of retry attempts by error kind",
	}, []string{"error_kind"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pokeforge_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error kind",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"error_kind"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeforge_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error kind",
	}, []string{"error_kind"})
)

// RetryPolicy decides how long to wait between attempts.
type RetryPolicy struct {
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration

	// MaxDelay caps every computed delay, including server hints.
	MaxDelay time.Duration

	// Exponential doubles the delay on every attempt when true.
	Exponential bool
}

// DefaultRetryPolicy returns the default retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
		Exponential: true,
	}
}

// NextDelay returns the wait before the attempt after the given 1-indexed
// attempt. A rate-limit error with a Retry-After hint overrides the
// computed backoff; err may be nil for connectivity failures.
func (p RetryPolicy) NextDelay(attempt int, err *APIError) time.Duration {
	if err != nil && err.Kind == KindRateLimit && err.RetryAfter > 0 {
		return min(err.RetryAfter, p.MaxDelay)
	}

	if !p.Exponential {
		return p.BaseDelay
	}

	if attempt < 1 {
		attempt = 1
	}

	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		// Stop doubling once the cap is reached so large attempts cannot overflow.
		if delay >= p.MaxDelay || delay > time.Duration(1<<62) {
			return p.MaxDelay
		}
		delay *= 2
	}

	return min(delay, p.MaxDelay)
}

// validate checks the policy's delays.
func (p RetryPolicy) validate() error {
	if p.BaseDelay < 0 {
		return fmt.Errorf("retry base delay must be >= 0 (got %s)", p.BaseDelay)
	}
	if p.MaxDelay < 0 {
		return fmt.Errorf("retry max delay must be >= 0 (got %s)", p.MaxDelay)
	}
	if p.MaxDelay < p.BaseDelay {
		return fmt.Errorf("retry max delay (%s) must be >= base delay (%s)", p.MaxDelay, p.BaseDelay)
	}
	return nil
}

// wait blocks for d or until ctx is done, whichever comes first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// recordRetry updates retry metrics for one scheduled retry.
func recordRetry(kind ErrorKind, delay time.Duration) {
	retriesTotal.WithLabelValues(string(kind)).Inc()
	retryBackoffSeconds.WithLabelValues(string(kind)).Observe(delay.Seconds())
}
