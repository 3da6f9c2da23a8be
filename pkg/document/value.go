// Package document provides the structured, insertion-ordered representation
// of an SU2 configuration used as the pivot between the text dialect, JSON
// persistence and schema validation.
package document

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind string

const (
	// KindString is a text value. The zero Value is an empty string.
	KindString Kind = "string"

	// KindBool is a YES/NO value.
	KindBool Kind = "bool"

	// KindInt is an integer value.
	KindInt Kind = "int"

	// KindFloat is a floating point value.
	KindFloat Kind = "float"

	// KindList is a parenthesized list of values, possibly nested.
	KindList Kind = "list"
)

// Value is a tagged union over the value shapes of the configuration dialect.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
}

// String returns a text value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns an integer value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Float returns a floating point value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// List returns a list value holding the given elements.
func List(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}

	return Value{kind: KindList, list: elems}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind {
	if v.kind == "" {
		return KindString
	}

	return v.kind
}

// IsList reports whether v is a list.
func (v Value) IsList() bool { return v.kind == KindList }

// IsNumber reports whether v is an integer or a float.
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

// Str returns the text of a string value and whether v is one.
func (v Value) Str() (string, bool) {
	return v.s, v.Kind() == KindString
}

// BoolValue returns the boolean held by v and whether v is a boolean.
func (v Value) BoolValue() (bool, bool) {
	return v.b, v.kind == KindBool
}

// IntValue returns the integer held by v and whether v is an integer.
func (v Value) IntValue() (int64, bool) {
	return v.i, v.kind == KindInt
}

// FloatValue returns the float held by v and whether v is a float.
func (v Value) FloatValue() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// Elems returns the elements of a list value. The slice is shared with v.
func (v Value) Elems() []Value {
	return v.list
}

// Equal reports deep equality. Floats compare by value, so NaN never equals
// itself.
func (v Value) Equal(o Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}

	switch v.Kind() {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}

		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}

		return true
	default:
		return v.s == o.s
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	if v.kind != KindList {
		return v
	}

	elems := make([]Value, len(v.list))
	for i, e := range v.list {
		elems[i] = e.Clone()
	}

	return List(elems...)
}

// String renders v the way the configuration dialect writes scalars.
// Booleans become YES/NO, floats always carry a fraction or exponent so they
// read back as floats, and lists render parenthesized without flattening.
func (v Value) String() string {
	switch v.Kind() {
	case KindBool:
		if v.b {
			return "YES"
		}

		return "NO"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return FormatFloat(v.f)
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}

		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return v.s
	}
}

// Any converts v to the plain Go representation used by JSON tooling:
// string, bool, int64, float64 or []any.
func (v Value) Any() any {
	switch v.Kind() {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Any()
		}

		return out
	default:
		return v.s
	}
}

// floatExpLow and floatExpHigh bound the decimal exponents rendered in
// positional notation; outside them scientific notation is used.
const (
	floatExpLow  = -4
	floatExpHigh = 16
)

// FormatFloat renders f in its shortest round-trippable form. The result
// always contains a '.' or an exponent, so parsing it again yields a float.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}

		return "0.0"
	}

	exp := int(math.Floor(math.Log10(math.Abs(f))))

	// Log10 can be off by one near powers of ten; the 'e' form is exact.
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	if idx := strings.IndexByte(sci, 'e'); idx >= 0 {
		if e, err := strconv.Atoi(sci[idx+1:]); err == nil {
			exp = e
		}
	}

	if exp < floatExpLow || exp >= floatExpHigh {
		return sci
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}
