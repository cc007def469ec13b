package etf

import (
	"encoding/binary"
	"math"
	"math/big"
	"reflect"
)

// Term is the dynamic type produced by Decode. Its concrete type is one of:
// nil (the nil atom), bool (the true/false atoms), Atom, string
// (binary/string tags), int64, *big.Int (big integers that don't fit
// int64), float64, []Term (list), Tuple, map[string]Term.
type Term = any

// Decode parses a versioned ETF byte string into a generic Term tree.
func Decode(data []byte) (Term, error) {
	if len(data) < 1 {
		return nil, ErrShortBuffer
	}
	if data[0] != Version {
		return nil, ErrBadVersion
	}
	term, _, err := decodeTerm(data[1:])
	return term, err
}

func decodeTerm(data []byte) (Term, []byte, error) {
	if len(data) < 1 {
		return nil, nil, ErrShortBuffer
	}
	tag := Tag(data[0])
	data = data[1:]

	switch tag {
	case TagNewFloat:
		if len(data) < 8 {
			return nil, nil, ErrShortBuffer
		}
		bits := binary.BigEndian.Uint64(data[:8])
		return math.Float64frombits(bits), data[8:], nil

	case TagSmallInt:
		if len(data) < 1 {
			return nil, nil, ErrShortBuffer
		}
		return int64(data[0]), data[1:], nil

	case TagInt:
		if len(data) < 4 {
			return nil, nil, ErrShortBuffer
		}
		v := int32(binary.BigEndian.Uint32(data[:4]))
		return int64(v), data[4:], nil

	case TagAtom, TagAtomUTF8:
		if len(data) < 2 {
			return nil, nil, ErrShortBuffer
		}
		n := int(binary.BigEndian.Uint16(data[:2]))
		data = data[2:]
		if len(data) < n {
			return nil, nil, ErrShortBuffer
		}
		return atomTerm(string(data[:n])), data[n:], nil

	case TagSmallAtom, TagSmallAtomU8:
		if len(data) < 1 {
			return nil, nil, ErrShortBuffer
		}
		n := int(data[0])
		data = data[1:]
		if len(data) < n {
			return nil, nil, ErrShortBuffer
		}
		return atomTerm(string(data[:n])), data[n:], nil

	case TagSmallTuple:
		if len(data) < 1 {
			return nil, nil, ErrShortBuffer
		}
		arity := int(data[0])
		return decodeTupleElems(data[1:], arity)

	case TagLargeTuple:
		if len(data) < 4 {
			return nil, nil, ErrShortBuffer
		}
		arity := int(binary.BigEndian.Uint32(data[:4]))
		return decodeTupleElems(data[4:], arity)

	case TagNil:
		return []Term{}, data, nil

	case TagString:
		if len(data) < 2 {
			return nil, nil, ErrShortBuffer
		}
		n := int(binary.BigEndian.Uint16(data[:2]))
		data = data[2:]
		if len(data) < n {
			return nil, nil, ErrShortBuffer
		}
		return string(data[:n]), data[n:], nil

	case TagList:
		if len(data) < 4 {
			return nil, nil, ErrShortBuffer
		}
		n := int(binary.BigEndian.Uint32(data[:4]))
		data = data[4:]
		items := make([]Term, 0, n)
		for i := 0; i < n; i++ {
			var item Term
			var err error
			item, data, err = decodeTerm(data)
			if err != nil {
				return nil, nil, err
			}
			items = append(items, item)
		}
		// trailing tail marker, expected to be nil
		_, data, err := decodeTerm(data)
		if err != nil {
			return nil, nil, err
		}
		return items, data, nil

	case TagBinary:
		if len(data) < 4 {
			return nil, nil, ErrShortBuffer
		}
		n := int(binary.BigEndian.Uint32(data[:4]))
		data = data[4:]
		if len(data) < n {
			return nil, nil, ErrShortBuffer
		}
		return string(data[:n]), data[n:], nil

	case TagSmallBig:
		if len(data) < 1 {
			return nil, nil, ErrShortBuffer
		}
		n := int(data[0])
		return decodeBigInt(data[1:], n)

	case TagLargeBig:
		if len(data) < 4 {
			return nil, nil, ErrShortBuffer
		}
		n := int(binary.BigEndian.Uint32(data[:4]))
		return decodeBigInt(data[4:], n)

	case TagMap:
		if len(data) < 4 {
			return nil, nil, ErrShortBuffer
		}
		arity := int(binary.BigEndian.Uint32(data[:4]))
		data = data[4:]
		m := make(map[string]Term, arity)
		for i := 0; i < arity; i++ {
			var key, val Term
			var err error
			key, data, err = decodeTerm(data)
			if err != nil {
				return nil, nil, err
			}
			val, data, err = decodeTerm(data)
			if err != nil {
				return nil, nil, err
			}
			m[termToString(key)] = val
		}
		return m, data, nil

	default:
		return nil, nil, ErrBadTag
	}
}

func decodeTupleElems(data []byte, arity int) (Term, []byte, error) {
	items := make(Tuple, 0, arity)
	for i := 0; i < arity; i++ {
		var item Term
		var err error
		item, data, err = decodeTerm(data)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}
	return items, data, nil
}

func decodeBigInt(data []byte, n int) (Term, []byte, error) {
	if len(data) < 1+n {
		return nil, nil, ErrShortBuffer
	}
	sign := data[0]
	le := data[1 : 1+n]
	be := make([]byte, n)
	for i, b := range le {
		be[n-1-i] = b
	}
	mag := new(big.Int).SetBytes(be)
	if sign != 0 {
		mag.Neg(mag)
	}
	if mag.IsInt64() {
		return mag.Int64(), data[1+n:], nil
	}
	return mag, data[1+n:], nil
}

// atomTerm maps the well-known atoms true/false/nil to their Go values and
// otherwise returns a plain Atom.
func atomTerm(name string) Term {
	switch name {
	case "true":
		return true
	case "false":
		return false
	case "nil":
		return nil
	default:
		return Atom(name)
	}
}

func termToString(t Term) string {
	switch v := t.(type) {
	case string:
		return v
	case Atom:
		return string(v)
	default:
		return ""
	}
}

// assignScalar stores a decoded Term into a reflect.Value, widening
// integers and tolerating textual type substitution per spec §4.1's
// decoder tolerance rules.
func assignScalar(fv reflect.Value, term Term) error {
	if !fv.CanSet() {
		return nil
	}

	switch fv.Kind() {
	case reflect.Bool:
		b, ok := asBool(term)
		if !ok {
			return ErrBadTag
		}
		fv.SetBool(b)
		return nil

	case reflect.String:
		s, ok := asString(term)
		if !ok {
			return ErrBadTag
		}
		fv.SetString(s)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		iv, err := asInt64(term)
		if err != nil {
			return err
		}
		if fv.OverflowInt(iv) {
			return ErrRangeError
		}
		fv.SetInt(iv)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uv, err := asUint64(term)
		if err != nil {
			return err
		}
		if fv.OverflowUint(uv) {
			return ErrRangeError
		}
		fv.SetUint(uv)
		return nil

	case reflect.Float32, reflect.Float64:
		f, ok := term.(float64)
		if !ok {
			return ErrBadTag
		}
		fv.SetFloat(f)
		return nil

	case reflect.Slice:
		items, ok := term.([]Term)
		if !ok {
			if tup, isTup := term.(Tuple); isTup {
				items = []Term(tup)
			} else {
				return ErrBadTag
			}
		}
		out := reflect.MakeSlice(fv.Type(), len(items), len(items))
		for i, item := range items {
			if err := assignScalar(out.Index(i), item); err != nil {
				return err
			}
		}
		fv.Set(out)
		return nil

	case reflect.Ptr:
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		return assignScalar(fv.Elem(), term)

	default:
		if fv.Type().AssignableTo(reflect.TypeOf(term)) {
			fv.Set(reflect.ValueOf(term))
			return nil
		}
		return decodeTermInto(term, fv.Addr().Interface())
	}
}

func asBool(term Term) (bool, bool) {
	switch v := term.(type) {
	case bool:
		return v, true
	case Atom:
		switch v {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

func asString(term Term) (string, bool) {
	switch v := term.(type) {
	case string:
		return v, true
	case Atom:
		return string(v), true
	case nil:
		return "", true
	default:
		return "", false
	}
}

func asInt64(term Term) (int64, error) {
	switch v := term.(type) {
	case int64:
		return v, nil
	case *big.Int:
		if !v.IsInt64() {
			return 0, ErrRangeError
		}
		return v.Int64(), nil
	default:
		return 0, ErrBadTag
	}
}

func asUint64(term Term) (uint64, error) {
	switch v := term.(type) {
	case int64:
		if v < 0 {
			return 0, ErrRangeError
		}
		return uint64(v), nil
	case *big.Int:
		if v.Sign() < 0 || !v.IsUint64() {
			return 0, ErrRangeError
		}
		return v.Uint64(), nil
	default:
		return 0, ErrBadTag
	}
}
