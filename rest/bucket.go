package rest

import (
	"sync"
	"time"
)

// bucketState is the per-bucket rate-limit accounting the engine refreshes
// from response headers (spec §3/§4.4).
type bucketState struct {
	limit     int
	remaining int
	resetAt   time.Time
	known     bool
}

// buckets tracks per-bucket state plus the process-wide global rate-limit
// flag, both guarded by one mutex since acquire() must check both
// atomically (spec §4.4: "Acquire the bucket (global rate-limit first,
// then per-bucket)").
type buckets struct {
	mu sync.Mutex

	state map[string]*bucketState

	global       bool
	globalReset  time.Time
	clock        clock
}

type clock interface {
	Now() time.Time
	Sleep(time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time      { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

func newBuckets() *buckets {
	return &buckets{state: make(map[string]*bucketState), clock: realClock{}}
}

// acquire blocks until bucket may issue a request, decrementing its known
// remaining count (spec §4.4: "The pre-call acquire(bucket) decrements
// remaining if known and positive; if zero and reset_at > now, sleeps
// until reset_at; if reset_at <= now, refreshes remaining := limit").
func (b *buckets) acquire(bucket string) {
	for {
		b.mu.Lock()
		now := b.clock.Now()

		if b.global {
			if now.Before(b.globalReset) {
				wait := b.globalReset.Sub(now)
				b.mu.Unlock()
				b.clock.Sleep(wait)
				continue
			}
			b.global = false
		}

		st, ok := b.state[bucket]
		if !ok {
			b.mu.Unlock()
			return
		}

		if !st.known {
			b.mu.Unlock()
			return
		}

		if st.remaining <= 0 {
			if now.Before(st.resetAt) {
				wait := st.resetAt.Sub(now)
				b.mu.Unlock()
				b.clock.Sleep(wait)
				continue
			}
			st.remaining = st.limit
		}

		st.remaining--
		b.mu.Unlock()
		return
	}
}

// updateFromHeaders refreshes bucket state from response headers, per
// spec §4.4's update_bucket algorithm. It reports whether the caller
// should sleep (and for how long) before retrying.
func (b *buckets) updateFromHeaders(bucket string, h headerView, status int) (retry bool, sleepFor time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock.Now()

	if h.globalFlag() {
		b.global = true
		wait := h.retryAfter()
		b.globalReset = now.Add(wait)
		return true, wait
	}

	if limit, remaining, reset, ok := h.rateLimitFields(); ok {
		st := b.state[bucket]
		if st == nil {
			st = &bucketState{}
			b.state[bucket] = st
		}
		st.limit = limit
		st.remaining = remaining
		st.resetAt = reset
		st.known = true

		if status == 429 && reset.After(now) {
			return true, reset.Sub(now)
		}
		return false, 0
	}

	if status == 429 {
		return true, time.Second
	}

	return false, 0
}

// headerView abstracts the subset of http.Header the bucket accounting
// needs, so it can be tested without constructing real HTTP responses.
type headerView interface {
	globalFlag() bool
	retryAfter() time.Duration
	rateLimitFields() (limit, remaining int, reset time.Time, ok bool)
}
