package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock lets tests drive time deterministically: Sleep advances the
// clock instead of blocking the test goroutine.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(0, 0)}
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

func TestCooldownWaitsOutInterval(t *testing.T) {
	clock := newFakeClock()
	cd := NewCooldownWithClock(50*time.Millisecond, clock)

	cd.WaitFor()
	first := clock.Now()

	cd.WaitFor()
	assert.True(t, clock.Now().Sub(first) >= 50*time.Millisecond)
}

func TestCooldownImmediateAfterIntervalElapses(t *testing.T) {
	clock := newFakeClock()
	cd := NewCooldownWithClock(10*time.Millisecond, clock)

	cd.WaitFor()
	clock.now = clock.now.Add(20 * time.Millisecond)
	before := clock.Now()
	cd.WaitFor()
	assert.Equal(t, before, clock.Now(), "no extra sleep once interval has already elapsed")
}

// TestSlidingWindowGrantTimes matches spec §8: N=4, W=60ms, R=10ms grants
// four times at t >= 0, 10, 20, 30ms, and a fifth at t >= 60ms.
func TestSlidingWindowGrantTimes(t *testing.T) {
	clock := newFakeClock()
	w := NewWindowWithClock(4, 60*time.Millisecond, 10*time.Millisecond, clock)

	start := clock.Now()
	var grants []time.Duration
	for i := 0; i < 5; i++ {
		w.WaitFor()
		grants = append(grants, clock.Now().Sub(start))
	}

	want := []time.Duration{0, 10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond, 60 * time.Millisecond}
	for i, g := range grants {
		assert.GreaterOrEqual(t, g, want[i], "grant %d", i)
	}
}

func TestSlidingWindowConcurrentCallersSerialize(t *testing.T) {
	w := NewWindow(2, 30*time.Millisecond, 5*time.Millisecond)

	done := make(chan struct{})
	for i := 0; i < 6; i++ {
		go func() {
			w.WaitFor()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 6; i++ {
		<-done
	}
}
