package ratelimit

import (
	"sync"
	"time"
)

// Cooldown is a single-slot rate limiter: WaitFor returns immediately if at
// least the repeat interval has elapsed since the last successful WaitFor,
// otherwise it sleeps for the remainder. Concurrent callers serialize on
// the internal mutex (spec §4.2).
type Cooldown struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	hasLast  bool
	clock    Clock
}

// NewCooldown creates a Cooldown with the given repeat interval, using the
// real wall clock.
func NewCooldown(interval time.Duration) *Cooldown {
	return NewCooldownWithClock(interval, RealClock)
}

// NewCooldownWithClock creates a Cooldown driven by an injectable Clock,
// for deterministic tests.
func NewCooldownWithClock(interval time.Duration, clock Clock) *Cooldown {
	return &Cooldown{interval: interval, clock: clock}
}

// WaitFor blocks until the cooldown interval has elapsed since the last
// successful call, then records the current time and returns. The mutex
// is released before any sleep and re-acquired to re-check on wake (spec
// §5: sleeps are suspension points; the mutex guards only non-suspending
// critical sections), matching rest/bucket.go's acquire.
func (c *Cooldown) WaitFor() {
	for {
		c.mu.Lock()
		now := c.clock.Now()
		if !c.hasLast {
			c.last = now
			c.hasLast = true
			c.mu.Unlock()
			return
		}
		elapsed := now.Sub(c.last)
		if elapsed >= c.interval {
			c.last = now
			c.mu.Unlock()
			return
		}
		wait := c.interval - elapsed
		c.mu.Unlock()
		c.clock.Sleep(wait)
	}
}
