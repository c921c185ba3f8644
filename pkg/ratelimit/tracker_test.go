package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestTracker_Observe(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())

	if state := tracker.State(); state.Hits != 0 || state.IsLimited() {
		t.Fatalf("new tracker state = %+v, want empty", state)
	}

	tracker.Observe(5 * time.Second)

	state := tracker.State()
	if state.Hits != 1 {
		t.Errorf("Hits = %d, want 1", state.Hits)
	}
	if state.LastRetryAfter != 5*time.Second {
		t.Errorf("LastRetryAfter = %v, want 5s", state.LastRetryAfter)
	}
	if !state.IsLimited() {
		t.Error("IsLimited() = false after a 5s hint")
	}
	if got := state.TimeUntilReset(); got <= 4*time.Second || got > 5*time.Second {
		t.Errorf("TimeUntilReset() = %v, want ~5s", got)
	}
}

func TestTracker_ObserveWithoutHint(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())

	tracker.Observe(10 * time.Second)
	tracker.Observe(0)

	state := tracker.State()
	if state.Hits != 2 {
		t.Errorf("Hits = %d, want 2", state.Hits)
	}
	if state.LastRetryAfter != 0 {
		t.Errorf("LastRetryAfter = %v, want 0", state.LastRetryAfter)
	}
	if state.IsLimited() {
		t.Error("IsLimited() = true after a 429 without hint")
	}
}

func TestTracker_ConcurrentObserve(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Observe(time.Second)
			_ = tracker.State()
		}()
	}
	wg.Wait()

	if got := tracker.State().Hits; got != 100 {
		t.Errorf("Hits = %d, want 100", got)
	}
}
