// Package cache implements the keyed, optionally size-bounded, in-memory
// store of typed records used by both the REST and gateway engines (spec
// §4.3). A Cache is a disposable, per-Context store rather than a
// process-wide singleton (Design Notes §9).
package cache

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Sentinel errors surfaced from cache operations (spec §7).
var (
	ErrDuplicateKey = errors.New("cache: key already present")
	ErrNotFound     = errors.New("cache: key not found")
)

// errReentrantMutation is a panic value raised when a mutator passed to
// Update/Patch calls back into the same Cache, which would deadlock (spec
// §4.3: "guarded by a reentry flag that panics to avoid deadlock").
type errReentrantMutation struct{ detail string }

func (e errReentrantMutation) Error() string {
	return "cache: mutator re-entered the cache it was called from: " + e.detail
}

// KeyFunc extracts the key a value would be stored under.
type KeyFunc[K comparable, V any] func(V) K

// SetKeyFunc stamps a key onto a freshly zero-valued record, used when
// Update/Patch synthesizes a new entry via putIfMissing.
type SetKeyFunc[K comparable, V any] func(*V, K)

// Cache is a generic, mutex-guarded keyed store. When limit > 0, Put
// evicts the oldest-inserted distinct entry once the store has received
// limit insertions, per a ring-buffer replacement policy.
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]V
	keyOf     KeyFunc[K, V]
	limit     int
	writeIdx  uint64
	slotKey   []K // slotKey[i] holds the key currently occupying ring slot i, when limit > 0
	slotUsed  []bool
	reentrant atomic.Bool
	setKey    SetKeyFunc[K, V]
}

// New creates an unbounded Cache. setKey may be nil if callers never use
// Update/Patch with putIfMissing=true.
func New[K comparable, V any](keyOf KeyFunc[K, V], setKey SetKeyFunc[K, V]) *Cache[K, V] {
	return NewBounded[K, V](keyOf, setKey, 0)
}

// NewBounded creates a Cache that evicts its oldest-inserted entry once
// limit insertions have occurred. limit <= 0 means unbounded.
func NewBounded[K comparable, V any](keyOf KeyFunc[K, V], setKey SetKeyFunc[K, V], limit int) *Cache[K, V] {
	c := &Cache[K, V]{
		entries: make(map[K]V),
		keyOf:   keyOf,
		setKey:  setKey,
		limit:   limit,
	}
	if limit > 0 {
		c.slotKey = make([]K, limit)
		c.slotUsed = make([]bool, limit)
	}
	return c
}

// enter panics if called while this goroutine is already inside a
// mutator callback for this Cache. It MUST run before Lock: sync.Mutex
// is not reentrant, so a mutator that calls back into its own Cache
// would otherwise block forever on Lock() and never reach this check
// (spec §4.3: "guarded by a reentry flag that panics to avoid
// deadlock" — a deadlock is exactly what the check exists to prevent).
func (c *Cache[K, V]) enter() {
	if c.reentrant.Load() {
		panic(errReentrantMutation{detail: "cache method called from within a mutator"})
	}
}

// Put inserts v. It fails with ErrDuplicateKey if an entry with the same
// key already exists, even when the cache is bounded.
func (c *Cache[K, V]) Put(v V) error {
	c.enter()
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.keyOf(v)
	if _, exists := c.entries[k]; exists {
		return ErrDuplicateKey
	}
	c.insertLocked(k, v)
	return nil
}

// insertLocked stores v under k, evicting the oldest ring slot first when
// the cache is bounded and full.
func (c *Cache[K, V]) insertLocked(k K, v V) {
	if c.limit > 0 {
		slot := int(c.writeIdx % uint64(c.limit))
		if c.slotUsed[slot] {
			delete(c.entries, c.slotKey[slot])
		}
		c.slotKey[slot] = k
		c.slotUsed[slot] = true
		c.writeIdx++
	}
	c.entries[k] = v
}

// Has reports whether k is present.
func (c *Cache[K, V]) Has(k K) bool {
	c.enter()
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[k]
	return ok
}

// Get returns the value stored under k.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.enter()
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[k]
	return v, ok
}

// Remove deletes k if present, reporting whether it was found.
func (c *Cache[K, V]) Remove(k K) bool {
	c.enter()
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[k]
	if ok {
		delete(c.entries, k)
	}
	return ok
}

// RemoveAll deletes every key in keys that is present, and returns the
// subset of keys that were NOT found.
func (c *Cache[K, V]) RemoveAll(keys []K) []K {
	c.enter()
	c.mu.Lock()
	defer c.mu.Unlock()

	var missing []K
	for _, k := range keys {
		if _, ok := c.entries[k]; ok {
			delete(c.entries, k)
		} else {
			missing = append(missing, k)
		}
	}
	return missing
}

// Update applies mutator to the entry stored under k. If the entry is
// absent and putIfMissing is true, a zero-valued V is synthesized (with its
// key stamped via the setKey func given to New/NewBounded, when non-nil,
// before mutator runs) and stored; if absent and putIfMissing is
// false, Update fails with ErrNotFound. The mutator must not call any
// method on this Cache.
func (c *Cache[K, V]) Update(k K, putIfMissing bool, mutator func(*V)) error {
	c.enter()
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[k]
	if !ok {
		if !putIfMissing {
			return ErrNotFound
		}
		var zero V
		if c.setKey != nil {
			c.setKey(&zero, k)
		}
		c.runMutator(func() { mutator(&zero) })
		c.insertLocked(k, zero)
		return nil
	}

	c.runMutator(func() { mutator(&v) })
	c.entries[k] = v
	return nil
}

// runMutator marks the cache reentrant for the duration of fn, clearing
// the flag afterward even if fn panics, so a panicking mutator doesn't
// leave the cache permanently refusing further calls.
func (c *Cache[K, V]) runMutator(fn func()) {
	c.reentrant.Store(true)
	defer c.reentrant.Store(false)
	fn()
}

// Patch copies fields from src into the stored entry via apply, which
// implements the nullable/array/reference copy rules of spec §4.3 for the
// concrete record type. It never clears a field to its zero value: apply
// is responsible for only copying fields that are actually set on src.
func (c *Cache[K, V]) Patch(k K, src V, putIfMissing bool, apply func(dst *V, src V)) error {
	return c.Update(k, putIfMissing, func(dst *V) {
		apply(dst, src)
	})
}

// Len returns the number of entries currently stored.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Range iterates over a snapshot of entries. It must only be called while
// no mutation is in progress (spec §4.3): Range takes the lock for the
// duration of the snapshot copy, then iterates outside the lock.
func (c *Cache[K, V]) Range(fn func(K, V) bool) {
	c.mu.Lock()
	snapshot := make(map[K]V, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}
	c.mu.Unlock()

	for k, v := range snapshot {
		if !fn(k, v) {
			return
		}
	}
}
