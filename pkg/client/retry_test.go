package client

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()

	if policy.BaseDelay != 1*time.Second {
		t.Errorf("BaseDelay = %v, want 1s", policy.BaseDelay)
	}
	if policy.MaxDelay != 30*time.Second {
		t.Errorf("MaxDelay = %v, want 30s", policy.MaxDelay)
	}
	if !policy.Exponential {
		t.Error("Exponential = false, want true")
	}
}

func TestRetryPolicy_NextDelay(t *testing.T) {
	exponential := RetryPolicy{BaseDelay: 1 * time.Second, MaxDelay: 30 * time.Second, Exponential: true}
	fixed := RetryPolicy{BaseDelay: 2 * time.Second, MaxDelay: 30 * time.Second, Exponential: false}

	tests := []struct {
		name     string
		policy   RetryPolicy
		attempt  int
		err      *APIError
		expected time.Duration
	}{
		{"first attempt", exponential, 1, nil, 1 * time.Second},
		{"second attempt doubles", exponential, 2, nil, 2 * time.Second},
		{"third attempt doubles again", exponential, 3, nil, 4 * time.Second},
		{"capped at max", exponential, 6, nil, 30 * time.Second},
		{"huge attempt stays capped", exponential, 500, nil, 30 * time.Second},
		{"fixed delay ignores attempt", fixed, 5, nil, 2 * time.Second},
		{
			name:     "retry-after hint wins",
			policy:   exponential,
			attempt:  1,
			err:      &APIError{Kind: KindRateLimit, RetryAfter: 5 * time.Second},
			expected: 5 * time.Second,
		},
		{
			name:     "retry-after hint capped",
			policy:   exponential,
			attempt:  1,
			err:      &APIError{Kind: KindRateLimit, RetryAfter: 120 * time.Second},
			expected: 30 * time.Second,
		},
		{
			name:     "rate limit without hint uses backoff",
			policy:   exponential,
			attempt:  2,
			err:      &APIError{Kind: KindRateLimit},
			expected: 2 * time.Second,
		},
		{
			name:     "server error uses backoff",
			policy:   exponential,
			attempt:  3,
			err:      &APIError{Kind: KindGeneric, Status: 503},
			expected: 4 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.NextDelay(tt.attempt, tt.err)
			if got != tt.expected {
				t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestRetryPolicy_NextDelayMonotonic(t *testing.T) {
	policy := RetryPolicy{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Duration(math.MaxInt64), Exponential: true}

	prev := time.Duration(0)
	for attempt := 1; attempt <= 200; attempt++ {
		got := policy.NextDelay(attempt, nil)
		if got < prev {
			t.Fatalf("NextDelay(%d) = %v, smaller than previous %v", attempt, got, prev)
		}
		if got > policy.MaxDelay {
			t.Fatalf("NextDelay(%d) = %v exceeds max %v", attempt, got, policy.MaxDelay)
		}
		prev = got
	}
}

func TestRetryPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  RetryPolicy
		wantErr bool
	}{
		{"default", DefaultRetryPolicy(), false},
		{"zero delays", RetryPolicy{}, false},
		{"negative base", RetryPolicy{BaseDelay: -1, MaxDelay: time.Second}, true},
		{"negative max", RetryPolicy{MaxDelay: -1}, true},
		{"max below base", RetryPolicy{BaseDelay: 2 * time.Second, MaxDelay: time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := wait(ctx, 10*time.Second)
	elapsed := time.Since(start)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("wait() error = %v, want context.Canceled", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("wait() took %v, should have been cancelled quickly", elapsed)
	}
}

func TestWait_Elapses(t *testing.T) {
	start := time.Now()
	if err := wait(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("wait() returned after %v, want >= 20ms", elapsed)
	}
}
