// Package ratelimit records the rate-limit hints the PokeForge API sends
// with 429 responses. It observes only; requests are never gated here.
package ratelimit

import (
	"time"
)

// RateLimitState is a snapshot of the most recent rate-limit observations.
type RateLimitState struct {
	// Hits is the number of 429 responses observed.
	Hits int64 `json:"hits"`

	// LastRetryAfter is the Retry-After hint of the latest 429, zero when absent.
	LastRetryAfter time.Duration `json:"last_retry_after"`

	// BlockedUntil is when the server said requests may resume.
	// Zero when the latest 429 carried no hint.
	BlockedUntil time.Time `json:"blocked_until"`

	// LastUpdate is when the latest 429 was observed.
	LastUpdate time.Time `json:"last_update"`
}

// IsLimited reports whether the server's hint window is still open.
func (s RateLimitState) IsLimited() bool {
	return !s.BlockedUntil.IsZero() && time.Now().Before(s.BlockedUntil)
}

// TimeUntilReset returns the duration until the hint window closes.
// Returns 0 if it has already closed or no hint was given.
func (s RateLimitState) TimeUntilReset() time.Duration {
	if s.BlockedUntil.IsZero() {
		return 0
	}
	duration := time.Until(s.BlockedUntil)
	if duration < 0 {
		return 0
	}
	return duration
}

// IsStale returns true if the last observation is older than maxAge.
func (s RateLimitState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}
