package etf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncodeGolden checks the exact byte sequences spec §8 calls out.
func TestEncodeGolden(t *testing.T) {
	// encode("Hello World" as atom) = 83 73 0B "Hello World"
	data, err := Encode(Atom("Hello World"))
	require.NoError(t, err)
	want := append([]byte{Version, byte(TagSmallAtom), 0x0B}, []byte("Hello World")...)
	assert.Equal(t, want, data)

	// non-latin1 atom content uses the utf8-tagged small-atom form.
	data, err = Encode(Atom("日本語"))
	require.NoError(t, err)
	assert.Equal(t, byte(TagSmallAtomU8), data[1])
}

func TestEncodeBooleans(t *testing.T) {
	data, err := Encode(true)
	require.NoError(t, err)
	want := append([]byte{Version, byte(TagSmallAtom), 4}, []byte("true")...)
	assert.Equal(t, want, data)

	data, err = Encode(false)
	require.NoError(t, err)
	want = append([]byte{Version, byte(TagSmallAtom), 5}, []byte("false")...)
	assert.Equal(t, want, data)
}

func TestEncodeNilValue(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	want := append([]byte{Version, byte(TagSmallAtom), 3}, []byte("nil")...)
	assert.Equal(t, want, data)
}

func TestEncodeEmptySliceIsNilTag(t *testing.T) {
	data, err := Encode([]any{})
	require.NoError(t, err)
	assert.Equal(t, []byte{Version, byte(TagNil)}, data)
}

func TestEncodeSmallInt(t *testing.T) {
	data, err := Encode(200)
	require.NoError(t, err)
	assert.Equal(t, []byte{Version, byte(TagSmallInt), 200}, data)
}

func TestRoundTripIntegers(t *testing.T) {
	cases := []int64{0, 255, 256, -1, -128, 1 << 31, -(1 << 31), 1<<63 - 1, -(1 << 62)}
	for _, v := range cases {
		data, err := Encode(v)
		require.NoError(t, err)
		decoded, err := Decode(data)
		require.NoError(t, err)
		assert.EqualValues(t, v, decoded)
	}
}

func TestRoundTripString(t *testing.T) {
	data, err := Encode("héllo wörld 🎉")
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "héllo wörld 🎉", decoded)
}

func TestRoundTripFloat(t *testing.T) {
	data, err := Encode(3.14159)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.InDelta(t, 3.14159, decoded, 1e-12)
}

func TestRoundTripList(t *testing.T) {
	data, err := Encode([]any{int64(1), "two", 3.0})
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	items, ok := decoded.([]Term)
	require.True(t, ok)
	require.Len(t, items, 3)
	assert.EqualValues(t, 1, items[0])
	assert.Equal(t, "two", items[1])
	assert.Equal(t, 3.0, items[2])
}

func TestRoundTripTuple(t *testing.T) {
	data, err := Encode(Tuple{int64(1), int64(2)})
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	tup, ok := decoded.(Tuple)
	require.True(t, ok)
	assert.Equal(t, Tuple{int64(1), int64(2)}, tup)
}

func TestLargeTupleArity(t *testing.T) {
	items := make(Tuple, 300)
	for i := range items {
		items[i] = int64(i)
	}
	data, err := Encode(items)
	require.NoError(t, err)
	assert.Equal(t, byte(TagLargeTuple), data[1])
	decoded, err := Decode(data)
	require.NoError(t, err)
	tup, ok := decoded.(Tuple)
	require.True(t, ok)
	assert.Len(t, tup, 300)
}

func TestRoundTripMap(t *testing.T) {
	data, err := Encode(map[string]any{"a": int64(1), "b": "two"})
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	m, ok := decoded.(map[string]Term)
	require.True(t, ok)
	assert.EqualValues(t, 1, m["a"])
	assert.Equal(t, "two", m["b"])
}

func TestRoundTripBigInt(t *testing.T) {
	cases := []any{
		int64(1) << 62,
		-(int64(1) << 62),
	}
	for _, v := range cases {
		data, err := Encode(v)
		require.NoError(t, err)
		decoded, err := Decode(data)
		require.NoError(t, err)
		assert.EqualValues(t, v, decoded)
	}
}

func TestBadVersion(t *testing.T) {
	_, err := Decode([]byte{130, 97, 1})
	assert.ErrorIs(t, err, ErrBadVersion)
}

func TestBadTag(t *testing.T) {
	_, err := Decode([]byte{Version, 0xFC})
	assert.ErrorIs(t, err, ErrBadTag)
}

func TestShortBuffer(t *testing.T) {
	_, err := Decode([]byte{Version, byte(TagInt), 0, 0})
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestFixedBufferRejectsOverCapacity(t *testing.T) {
	buf := NewFixedBuffer(4)
	err := buf.Write([]byte{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, ErrBufferResize)
	assert.Equal(t, 0, buf.Len(), "partial write must not be observable")
}

func TestFixedBufferAllowsExactCapacity(t *testing.T) {
	buf := NewFixedBuffer(4)
	err := buf.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 4, buf.Len())
}

type customRecord struct {
	Value string
}

func (c customRecord) EncodeETF(buf *Buffer) error {
	return encodeAtom(buf, "custom:"+c.Value)
}

func TestCustomEncodeHookTakesPrecedence(t *testing.T) {
	data, err := Encode(customRecord{Value: "x"})
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, Atom("custom:x"), decoded)
}
