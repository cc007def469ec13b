package ratelimit

import (
	"sync"
	"time"
)

// Window is a sliding multi-window limiter: at most Limit grants per
// Window duration, with a minimum gap of MinGap between any two grants. It
// keeps a ring buffer of the Limit most recent grant times (spec §4.2).
type Window struct {
	mu    sync.Mutex
	limit int
	win   time.Duration
	gap   time.Duration
	clock Clock

	ring  []time.Time
	count int // number of grants recorded so far, capped at limit
	next  int // index the next grant will occupy
}

// NewWindow creates a Window limiter using the real wall clock.
func NewWindow(limit int, window, minGap time.Duration) *Window {
	return NewWindowWithClock(limit, window, minGap, RealClock)
}

// NewWindowWithClock creates a Window limiter driven by an injectable
// Clock, for deterministic tests.
func NewWindowWithClock(limit int, window, minGap time.Duration, clock Clock) *Window {
	return &Window{
		limit: limit,
		win:   window,
		gap:   minGap,
		clock: clock,
		ring:  make([]time.Time, limit),
	}
}

// WaitFor blocks until a grant is available, then records it and returns.
// The mutex is released before any sleep and re-acquired to re-check on
// wake (spec §5: sleeps are suspension points; the mutex guards only
// non-suspending critical sections), matching rest/bucket.go's acquire.
func (w *Window) WaitFor() {
	for {
		w.mu.Lock()
		now := w.clock.Now()

		var prev time.Time
		hasPrev := w.count > 0
		if hasPrev {
			prevIdx := (w.next - 1 + w.limit) % w.limit
			prev = w.ring[prevIdx]
		}

		var oldest time.Time
		hasFullWindow := w.count >= w.limit
		if hasFullWindow {
			oldest = w.ring[w.next] // the slot about to be overwritten holds the oldest grant
		}

		windowHasCapacity := !hasFullWindow || now.Sub(oldest) >= w.win
		gapSatisfied := !hasPrev || now.Sub(prev) >= w.gap

		if windowHasCapacity && gapSatisfied {
			w.ring[w.next] = now
			w.next = (w.next + 1) % w.limit
			if w.count < w.limit {
				w.count++
			}
			w.mu.Unlock()
			return
		}

		var sleepFor time.Duration
		if windowHasCapacity {
			sleepFor = w.gap - now.Sub(prev)
		} else {
			sleepFor = w.win - now.Sub(oldest)
		}
		if sleepFor < 0 {
			sleepFor = 0
		}
		w.mu.Unlock()
		w.clock.Sleep(sleepFor)
	}
}
