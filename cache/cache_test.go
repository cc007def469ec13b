package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID    int
	Name  string
	Count int
}

func newWidgetCache() *Cache[int, widget] {
	return New[int, widget](
		func(w widget) int { return w.ID },
		func(w *widget, k int) { w.ID = k },
	)
}

func TestPutDuplicateKeyFails(t *testing.T) {
	c := newWidgetCache()
	require.NoError(t, c.Put(widget{ID: 1, Name: "a"}))
	err := c.Put(widget{ID: 1, Name: "b"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestHasGetRemove(t *testing.T) {
	c := newWidgetCache()
	require.NoError(t, c.Put(widget{ID: 1, Name: "a"}))

	assert.True(t, c.Has(1))
	v, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "a", v.Name)

	assert.True(t, c.Remove(1))
	assert.False(t, c.Has(1))
	assert.False(t, c.Remove(1))
}

func TestRemoveAllReturnsMissing(t *testing.T) {
	c := newWidgetCache()
	require.NoError(t, c.Put(widget{ID: 1}))
	require.NoError(t, c.Put(widget{ID: 2}))

	missing := c.RemoveAll([]int{1, 2, 3})
	assert.Equal(t, []int{3}, missing)
	assert.Equal(t, 0, c.Len())
}

func TestUpdatePutIfMissingSynthesizesKey(t *testing.T) {
	c := newWidgetCache()
	err := c.Update(42, true, func(w *widget) {
		w.Name = "synth"
	})
	require.NoError(t, err)

	v, ok := c.Get(42)
	require.True(t, ok)
	assert.Equal(t, 42, v.ID)
	assert.Equal(t, "synth", v.Name)
}

func TestUpdateAbsentWithoutPutIfMissingFails(t *testing.T) {
	c := newWidgetCache()
	err := c.Update(1, false, func(w *widget) {})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMutatesExisting(t *testing.T) {
	c := newWidgetCache()
	require.NoError(t, c.Put(widget{ID: 1, Count: 1}))
	require.NoError(t, c.Update(1, false, func(w *widget) { w.Count++ }))

	v, _ := c.Get(1)
	assert.Equal(t, 2, v.Count)
}

func TestMutatorReentrancyPanics(t *testing.T) {
	c := newWidgetCache()
	require.NoError(t, c.Put(widget{ID: 1}))

	assert.Panics(t, func() {
		_ = c.Update(1, false, func(w *widget) {
			c.Has(1) // reentrant call into the same cache
		})
	})
}

func TestBoundedCacheEvictsOldestInsertion(t *testing.T) {
	c := NewBounded[int, widget](
		func(w widget) int { return w.ID },
		func(w *widget, k int) { w.ID = k },
		3,
	)

	require.NoError(t, c.Put(widget{ID: 1}))
	require.NoError(t, c.Put(widget{ID: 2}))
	require.NoError(t, c.Put(widget{ID: 3}))
	assert.Equal(t, 3, c.Len())

	// Fourth insertion overwrites slot 0, evicting key 1.
	require.NoError(t, c.Put(widget{ID: 4}))
	assert.Equal(t, 3, c.Len())
	assert.False(t, c.Has(1), "oldest insertion should have been evicted")
	assert.True(t, c.Has(2))
	assert.True(t, c.Has(3))
	assert.True(t, c.Has(4))
}

func TestPatchNeverClearsToZero(t *testing.T) {
	c := newWidgetCache()
	require.NoError(t, c.Put(widget{ID: 1, Name: "original", Count: 5}))

	patch := widget{ID: 1, Name: "", Count: 9} // empty Name must not clear the stored value
	err := c.Patch(1, patch, false, func(dst *widget, src widget) {
		if src.Name != "" {
			dst.Name = src.Name
		}
		dst.Count = src.Count
	})
	require.NoError(t, err)

	v, _ := c.Get(1)
	assert.Equal(t, "original", v.Name)
	assert.Equal(t, 9, v.Count)
}

func TestRangeIteratesSnapshot(t *testing.T) {
	c := newWidgetCache()
	require.NoError(t, c.Put(widget{ID: 1}))
	require.NoError(t, c.Put(widget{ID: 2}))

	seen := map[int]bool{}
	c.Range(func(k int, v widget) bool {
		seen[k] = true
		return true
	})
	assert.Len(t, seen, 2)
}
