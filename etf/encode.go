package etf

import (
	"encoding/binary"
	"math"
	"math/big"
)

// Atom represents an ETF atom. Decoding yields Atom for atom-tagged terms
// other than true/false/nil, which decode to Go bool and nil; encoding any
// Atom value emits an atom (small-atom when its byte length fits a single
// byte, atom otherwise — with the latin1 tags for ASCII names and the UTF-8
// tags for anything wider, see isLatin1).
type Atom string

// Tuple represents an explicit ETF tuple. A plain Go slice always encodes
// as a list; wrap it in Tuple to force tuple encoding.
type Tuple []any

// Encoder lets a type take over its own ETF serialization. When a value
// passed to Encode implements Encoder, the hook is used in place of
// reflective struct-to-map emission (spec §4.1: "custom hooks take
// precedence over reflective field emission").
type Encoder interface {
	EncodeETF(buf *Buffer) error
}

// Encode serializes v into a versioned ETF byte string.
func Encode(v any) ([]byte, error) {
	buf := NewBuffer(64)
	if err := buf.WriteByte(Version); err != nil {
		return nil, err
	}
	if err := encodeValue(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeInto serializes v into buf, which must already hold (or be about
// to receive) the leading version byte via the caller. Used by callers that
// want a Fixed buffer so an over-capacity encode fails without corrupting
// partially-written output (spec §4.1 "Bounded buffer").
func EncodeInto(buf *Buffer, v any) error {
	start := len(buf.buf)
	if err := encodeValue(buf, v); err != nil {
		buf.buf = buf.buf[:start]
		return err
	}
	return nil
}

func encodeValue(buf *Buffer, v any) error {
	if v == nil {
		return encodeAtom(buf, "nil")
	}

	if enc, ok := v.(Encoder); ok {
		return enc.EncodeETF(buf)
	}

	switch t := v.(type) {
	case bool:
		if t {
			return encodeAtom(buf, "true")
		}
		return encodeAtom(buf, "false")
	case Atom:
		return encodeAtom(buf, string(t))
	case string:
		return encodeBinary(buf, []byte(t))
	case []byte:
		return encodeBinary(buf, t)
	case float32:
		return encodeFloat(buf, float64(t))
	case float64:
		return encodeFloat(buf, t)
	case int:
		return encodeInt(buf, int64(t))
	case int8:
		return encodeInt(buf, int64(t))
	case int16:
		return encodeInt(buf, int64(t))
	case int32:
		return encodeInt(buf, int64(t))
	case int64:
		return encodeInt(buf, t)
	case uint:
		return encodeUint(buf, uint64(t))
	case uint8:
		return encodeUint(buf, uint64(t))
	case uint16:
		return encodeUint(buf, uint64(t))
	case uint32:
		return encodeUint(buf, uint64(t))
	case uint64:
		return encodeUint(buf, t)
	case *big.Int:
		return encodeBigInt(buf, t)
	case Tuple:
		return encodeTuple(buf, t)
	case []any:
		return encodeList(buf, t)
	case map[string]any:
		return encodeMap(buf, t)
	default:
		return encodeReflect(buf, v)
	}
}

// isLatin1 reports whether name encodes identically under Latin-1 and
// UTF-8, i.e. every rune is ASCII. Such atoms use the
// latin1-tagged small-atom/atom forms (115/100); anything wider uses the
// utf8-tagged forms (119/118) (spec §4.1).
func isLatin1(name string) bool {
	for _, r := range name {
		if r > 0x7F {
			return false
		}
	}
	return true
}

func encodeAtom(buf *Buffer, name string) error {
	b := []byte(name)
	smallTag := TagSmallAtomU8
	wideTag := TagAtomUTF8
	if isLatin1(name) {
		smallTag = TagSmallAtom
		wideTag = TagAtom
	}
	if len(b) <= 255 {
		if err := buf.WriteByte(byte(smallTag)); err != nil {
			return err
		}
		if err := buf.WriteByte(byte(len(b))); err != nil {
			return err
		}
		return buf.Write(b)
	}
	if err := buf.WriteByte(byte(wideTag)); err != nil {
		return err
	}
	var lenBytes [2]byte
	binary.BigEndian.PutUint16(lenBytes[:], uint16(len(b)))
	if err := buf.Write(lenBytes[:]); err != nil {
		return err
	}
	return buf.Write(b)
}

func encodeBinary(buf *Buffer, b []byte) error {
	if err := buf.WriteByte(byte(TagBinary)); err != nil {
		return err
	}
	var lenBytes [4]byte
	binary.BigEndian.PutUint32(lenBytes[:], uint32(len(b)))
	if err := buf.Write(lenBytes[:]); err != nil {
		return err
	}
	return buf.Write(b)
}

func encodeFloat(buf *Buffer, f float64) error {
	if err := buf.WriteByte(byte(TagNewFloat)); err != nil {
		return err
	}
	var bits [8]byte
	binary.BigEndian.PutUint64(bits[:], math.Float64bits(f))
	return buf.Write(bits[:])
}

func encodeInt(buf *Buffer, v int64) error {
	if v >= 0 && v <= 255 {
		if err := buf.WriteByte(byte(TagSmallInt)); err != nil {
			return err
		}
		return buf.WriteByte(byte(v))
	}
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		if err := buf.WriteByte(byte(TagInt)); err != nil {
			return err
		}
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(int32(v)))
		return buf.Write(b[:])
	}
	return encodeBigInt(buf, big.NewInt(v))
}

func encodeUint(buf *Buffer, v uint64) error {
	if v <= math.MaxInt64 {
		return encodeInt(buf, int64(v))
	}
	return encodeBigInt(buf, new(big.Int).SetUint64(v))
}

// encodeBigInt writes a small-big or large-big term using a length-minimal
// sign-magnitude little-endian representation (spec §4.1).
func encodeBigInt(buf *Buffer, v *big.Int) error {
	sign := byte(0)
	mag := new(big.Int).Set(v)
	if v.Sign() < 0 {
		sign = 1
		mag.Neg(v)
	}

	be := mag.Bytes() // big-endian magnitude, minimal length
	n := len(be)
	le := make([]byte, n)
	for i, b := range be {
		le[n-1-i] = b
	}

	if n <= 255 {
		if err := buf.WriteByte(byte(TagSmallBig)); err != nil {
			return err
		}
		if err := buf.WriteByte(byte(n)); err != nil {
			return err
		}
	} else {
		if err := buf.WriteByte(byte(TagLargeBig)); err != nil {
			return err
		}
		var lenBytes [4]byte
		binary.BigEndian.PutUint32(lenBytes[:], uint32(n))
		if err := buf.Write(lenBytes[:]); err != nil {
			return err
		}
	}
	if err := buf.WriteByte(sign); err != nil {
		return err
	}
	return buf.Write(le)
}

func encodeTuple(buf *Buffer, items Tuple) error {
	if len(items) <= 255 {
		if err := buf.WriteByte(byte(TagSmallTuple)); err != nil {
			return err
		}
		if err := buf.WriteByte(byte(len(items))); err != nil {
			return err
		}
	} else {
		if err := buf.WriteByte(byte(TagLargeTuple)); err != nil {
			return err
		}
		var arity [4]byte
		binary.BigEndian.PutUint32(arity[:], uint32(len(items)))
		if err := buf.Write(arity[:]); err != nil {
			return err
		}
	}
	for _, item := range items {
		if err := encodeValue(buf, item); err != nil {
			return err
		}
	}
	return nil
}

// encodeNilTag writes the bare NIL tag (106), used both to represent an
// empty list and as the mandatory tail marker after a non-empty list (spec
// §4.1). This is distinct from the atom literally named "nil", which
// represents an absent/null scalar value.
func encodeNilTag(buf *Buffer) error {
	return buf.WriteByte(byte(TagNil))
}

func encodeList(buf *Buffer, items []any) error {
	if len(items) == 0 {
		return encodeNilTag(buf)
	}
	if err := buf.WriteByte(byte(TagList)); err != nil {
		return err
	}
	var lenBytes [4]byte
	binary.BigEndian.PutUint32(lenBytes[:], uint32(len(items)))
	if err := buf.Write(lenBytes[:]); err != nil {
		return err
	}
	for _, item := range items {
		if err := encodeValue(buf, item); err != nil {
			return err
		}
	}
	return encodeNilTag(buf)
}

func encodeMap(buf *Buffer, m map[string]any) error {
	if err := buf.WriteByte(byte(TagMap)); err != nil {
		return err
	}
	var arity [4]byte
	binary.BigEndian.PutUint32(arity[:], uint32(len(m)))
	if err := buf.Write(arity[:]); err != nil {
		return err
	}
	for k, v := range m {
		if err := encodeBinary(buf, []byte(k)); err != nil {
			return err
		}
		if err := encodeValue(buf, v); err != nil {
			return err
		}
	}
	return nil
}
