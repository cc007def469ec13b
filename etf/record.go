package etf

import (
	"reflect"
	"strings"
)

// Decoder lets a type take over its own ETF deserialization. When a target
// passed to DecodeInto implements Decoder, the hook is used in place of
// reflective field population.
type Decoder interface {
	DecodeETF(t Term) error
}

// fieldName returns the wire name for a struct field, honoring an `etf:"name"`
// tag and falling back to the field's Go name. A tag of "-" skips the field.
func fieldName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("etf")
	if tag == "-" {
		return "", false
	}
	if tag == "" {
		return f.Name, true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, true
}

// encodeReflect encodes a struct value as an ETF map keyed by field name
// (spec §4.1: "Records: encoded as map with field names as binary keys").
func encodeReflect(buf *Buffer, v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return encodeAtom(buf, "nil")
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return encodeStruct(buf, rv)
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return encodeNilTag(buf)
		}
		items := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = rv.Index(i).Interface()
		}
		return encodeList(buf, items)
	case reflect.Map:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return encodeMap(buf, m)
	default:
		iv := rv.Interface()
		if reflect.TypeOf(iv) == reflect.TypeOf(v) {
			// A named scalar (e.g. snowflake.ID) is encoded by its underlying kind.
			switch rv.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				return encodeInt(buf, rv.Int())
			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				return encodeUint(buf, rv.Uint())
			case reflect.Float32, reflect.Float64:
				return encodeFloat(buf, rv.Float())
			case reflect.String:
				return encodeBinary(buf, []byte(rv.String()))
			}
		}
		return encodeValue(buf, iv)
	}
}

func encodeStruct(buf *Buffer, rv reflect.Value) error {
	rt := rv.Type()
	fields := make(map[string]any)
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name, ok := fieldName(f)
		if !ok {
			continue
		}
		fv := rv.Field(i)
		if skipper, ok := fv.Interface().(interface{ IsAbsent() bool }); ok && skipper.IsAbsent() {
			continue
		}
		fields[name] = fv.Interface()
	}
	return encodeMap(buf, fields)
}

// DecodeInto decodes a byte string into target, which must be a pointer. If
// target implements Decoder, the hook receives the parsed Term tree;
// otherwise reflective field population is used against a decoded map.
func DecodeInto(data []byte, target any) error {
	term, err := Decode(data)
	if err != nil {
		return err
	}
	return decodeTermInto(term, target)
}

func decodeTermInto(term Term, target any) error {
	if dec, ok := target.(Decoder); ok {
		return dec.DecodeETF(term)
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrBadTag
	}
	elem := rv.Elem()

	switch elem.Kind() {
	case reflect.Struct:
		m, ok := term.(map[string]Term)
		if !ok {
			if _, isNil := term.(Atom); isNil {
				return nil
			}
			return ErrBadTag
		}
		return decodeStructFields(elem, m)
	default:
		return assignScalar(elem, term)
	}
}

// decodeStructFields populates a struct's fields from a decoded ETF map.
// Unknown map entries are skipped; fields absent from the map keep their
// zero value (spec §4.1: "missing fields take their default").
func decodeStructFields(elem reflect.Value, m map[string]Term) error {
	rt := elem.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name, ok := fieldName(f)
		if !ok {
			continue
		}
		val, present := m[name]
		if !present {
			continue
		}
		fv := elem.Field(i)
		if fv.Kind() == reflect.Ptr && fv.Type().Elem().Kind() == reflect.Struct {
			if fv.IsNil() {
				fv.Set(reflect.New(fv.Type().Elem()))
			}
			if err := decodeTermInto(val, fv.Interface()); err != nil {
				return err
			}
			continue
		}
		if fv.Kind() == reflect.Struct {
			sub, ok := val.(map[string]Term)
			if ok {
				if err := decodeStructFields(fv, sub); err != nil {
					return err
				}
				continue
			}
		}
		if err := assignScalar(fv, val); err != nil {
			return err
		}
	}
	return nil
}
