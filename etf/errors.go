package etf

import "errors"

// Sentinel errors surfaced from the codec's encode/decode boundary (spec §7,
// error kind "Codec").
var (
	// ErrBadVersion is returned when the leading version byte of a buffer is
	// not 131.
	ErrBadVersion = errors.New("etf: bad version byte")

	// ErrBadTag is returned when a leading type-tag byte is not one of the
	// tags this codec implements.
	ErrBadTag = errors.New("etf: unknown tag")

	// ErrShortBuffer is returned when a decode step needs more bytes than
	// remain in the buffer.
	ErrShortBuffer = errors.New("etf: short buffer")

	// ErrRangeError is returned when a decoded big integer does not fit the
	// target integer width.
	ErrRangeError = errors.New("etf: integer out of range")

	// ErrBufferResize is returned by a fixed-capacity Buffer when an encode
	// step would exceed its capacity.
	ErrBufferResize = errors.New("etf: buffer capacity exceeded")
)
