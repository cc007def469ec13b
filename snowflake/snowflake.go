// Package snowflake implements the 64-bit identifier type shared by every
// entity in the gateway and REST wire formats.
package snowflake

import (
	"strconv"
)

// ID is a 64-bit identifier. It serializes as a decimal string in JSON. In
// ETF it has no encoding of its own: the etf package writes it as an
// ordinary integer term (small-int, int or little-endian small-big,
// whichever fits the value), not as a fixed-width big-endian field.
// Equality and hashing are by the numeric value, so ID is safe to use as a
// map key directly.
type ID uint64

// Parse converts a decimal string into an ID.
func Parse(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(v), nil
}

// String renders the ID as a decimal string, matching the JSON wire form.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// MarshalJSON encodes the ID as a quoted decimal string.
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(id.String())), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON
// number, since some gateway payloads send snowflakes unquoted.
func (id *ID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" || s == "" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*id = ID(v)
	return nil
}

// IsZero reports whether the ID is the zero value, used to distinguish an
// absent snowflake field from a present-but-unset one.
func (id ID) IsZero() bool {
	return id == 0
}
