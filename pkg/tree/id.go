package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

type idKind uint8

const (
	kindNone idKind = iota
	kindInt
	kindString
)

// ID identifies a record. It holds either an integer or a string, never both,
// and is comparable so it can key maps directly.
//
// The zero value is the "no id" sentinel: it is what a root record carries
// as its parent and it is rejected as a record's own identifier.
// IntID(1) and StrID("1") are different identifiers.
type ID struct {
	kind idKind
	num  int64
	str  string
}

// IntID returns an integer identifier.
func IntID(n int64) ID { return ID{kind: kindInt, num: n} }

// StrID returns a string identifier. The empty string yields the zero ID.
func StrID(s string) ID {
	if s == "" {
		return ID{}
	}
	return ID{kind: kindString, str: s}
}

// ParseID interprets text as an identifier: base-10 integers become integer
// ids, anything else a string id. Used for ids that arrive as text (URL
// paths, command-line arguments).
func ParseID(s string) ID {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntID(n)
	}
	return StrID(s)
}

// IDFrom converts a decoded scalar into an ID. It accepts nil (zero ID),
// ID, strings, all Go integer types, json.Number, and floats with an
// integral value, which is what JSON, TOML and YAML decoders produce.
func IDFrom(v any) (ID, error) {
	switch x := v.(type) {
	case nil:
		return ID{}, nil
	case ID:
		return x, nil
	case string:
		return StrID(x), nil
	case int:
		return IntID(int64(x)), nil
	case int8:
		return IntID(int64(x)), nil
	case int16:
		return IntID(int64(x)), nil
	case int32:
		return IntID(int64(x)), nil
	case int64:
		return IntID(x), nil
	case uint:
		return uintID(uint64(x))
	case uint8:
		return IntID(int64(x)), nil
	case uint16:
		return IntID(int64(x)), nil
	case uint32:
		return IntID(int64(x)), nil
	case uint64:
		return uintID(x)
	case float64:
		return floatID(x)
	case float32:
		return floatID(float64(x))
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return IntID(n), nil
		}
		f, err := x.Float64()
		if err != nil {
			return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, x.String())
		}
		return floatID(f)
	}
	return ID{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidID, v)
}

func uintID(n uint64) (ID, error) {
	if n > math.MaxInt64 {
		return ID{}, fmt.Errorf("%w: %d overflows int64", ErrInvalidID, n)
	}
	return IntID(int64(n)), nil
}

func floatID(f float64) (ID, error) {
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return ID{}, fmt.Errorf("%w: %v is not an integer", ErrInvalidID, f)
	}
	return IntID(int64(f)), nil
}

// IsZero reports whether id is the "no id" sentinel.
func (id ID) IsZero() bool { return id.kind == kindNone }

// IsInt reports whether id holds an integer.
func (id ID) IsInt() bool { return id.kind == kindInt }

// Int returns the integer value and true for integer ids.
func (id ID) Int() (int64, bool) { return id.num, id.kind == kindInt }

// String returns the textual form: the decimal integer, the string itself,
// or "" for the zero ID.
func (id ID) String() string {
	switch id.kind {
	case kindInt:
		return strconv.FormatInt(id.num, 10)
	case kindString:
		return id.str
	}
	return ""
}

// Value returns the id as a plain Go value (int64, string or nil), the
// shape used when records are flattened into maps.
func (id ID) Value() any {
	switch id.kind {
	case kindInt:
		return id.num
	case kindString:
		return id.str
	}
	return nil
}

// GoString makes integer and string ids distinguishable in %#v output.
func (id ID) GoString() string {
	switch id.kind {
	case kindInt:
		return "tree.IntID(" + strconv.FormatInt(id.num, 10) + ")"
	case kindString:
		return "tree.StrID(" + strconv.Quote(id.str) + ")"
	}
	return "tree.ID{}"
}

// MarshalJSON encodes integer ids as JSON numbers, string ids as JSON
// strings and the zero ID as null.
func (id ID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case kindInt:
		return strconv.AppendInt(nil, id.num, 10), nil
	case kindString:
		return json.Marshal(id.str)
	}
	return []byte("null"), nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (id *ID) UnmarshalJSON(data []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	parsed, err := IDFrom(v)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
