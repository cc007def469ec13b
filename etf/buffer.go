package etf

// BufferMode selects whether an encode Buffer may grow past its initial
// capacity.
type BufferMode int

const (
	// Resizable buffers grow as needed (the default for Encode).
	Resizable BufferMode = iota
	// Fixed buffers never grow; a write that would exceed capacity fails
	// with ErrBufferResize and leaves the buffer unchanged.
	Fixed
)

// Buffer accumulates encoded bytes. In Fixed mode a write either commits in
// full or fails before any byte is observably written, matching spec §4.1's
// "partial writes are not observable" requirement.
type Buffer struct {
	mode BufferMode
	buf  []byte
}

// NewBuffer returns a Resizable Buffer with the given initial capacity hint.
func NewBuffer(sizeHint int) *Buffer {
	return &Buffer{mode: Resizable, buf: make([]byte, 0, sizeHint)}
}

// NewFixedBuffer returns a Buffer that rejects writes beyond capacity.
func NewFixedBuffer(capacity int) *Buffer {
	return &Buffer{mode: Fixed, buf: make([]byte, 0, capacity)}
}

// Bytes returns the accumulated bytes.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Write appends p to the buffer. In Fixed mode, if p would not fit in the
// remaining capacity, the buffer is left untouched and ErrBufferResize is
// returned.
func (b *Buffer) Write(p []byte) error {
	if b.mode == Fixed && len(b.buf)+len(p) > cap(b.buf) {
		return ErrBufferResize
	}
	b.buf = append(b.buf, p...)
	return nil
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) error {
	return b.Write([]byte{c})
}
