// Package types models the server-modeled entities exchanged over both the
// gateway and REST transports (spec §3). Fields that are absent on the
// wire are distinguished from fields explicitly set to a zero value using
// Optional[T] (Design Notes §9: "Nullable<T> plus @optional collapses to a
// tagged either absent or value type").
package types

import "encoding/json"

// Optional represents a field that may be entirely absent from the wire
// payload, as opposed to present-but-zero. Deserialization leaves an
// Optional absent when its key is missing from the payload (or is null).
// JSON serialization does not omit an absent Optional: it is written as
// null, since `omitempty` never treats a struct value as empty.
type Optional[T any] struct {
	value T
	set   bool
}

// Some constructs a present Optional wrapping v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// IsSet reports whether the field was present on the wire.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// IsAbsent is the inverse of IsSet, used by the ETF struct encoder to skip
// absent fields (spec §4.1).
func (o Optional[T]) IsAbsent() bool {
	return !o.set
}

// Get returns the wrapped value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// OrZero returns the wrapped value, or the zero value of T if absent.
func (o Optional[T]) OrZero() T {
	return o.value
}

// MarshalJSON encodes the wrapped value, or null when absent. It does not
// remove the field from the enclosing object; no struct in this package
// skips absent Optional fields when marshaling to JSON.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON marks the field set when its key is present with a
// non-null value; an explicit null leaves it absent. encoding/json only
// invokes UnmarshalJSON for keys present in the payload.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		o.set = false
		var zero T
		o.value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.set = true
	return nil
}
