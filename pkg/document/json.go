package document

import (
	"bytes"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

var (
	// ErrUnsupportedValue is returned when a JSON value has no counterpart in
	// the configuration dialect (objects, non-finite floats).
	ErrUnsupportedValue = errors.New("unsupported value")

	// ErrNotObject is returned when a JSON document's root is not an object.
	ErrNotObject = errors.New("document root is not an object")

	// ErrTrailingData is returned when a JSON document is followed by
	// anything other than whitespace.
	ErrTrailingData = errors.New("trailing data after document")
)

const (
	// DefaultJSONIndent is the indentation used when none is configured.
	DefaultJSONIndent = 2

	maxJSONIndent = 8
)

// jsonFloat keeps integral floats rendered with a fraction so that they read
// back as floats.
type jsonFloat float64

// MarshalJSON implements json.Marshaler.
func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, errors.Wrapf(ErrUnsupportedValue, "non-finite float %v", v)
	}

	return []byte(FormatFloat(v)), nil
}

func (v Value) jsonAny() any {
	switch v.Kind() {
	case KindFloat:
		return jsonFloat(v.f)
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.jsonAny()
		}

		return out
	default:
		return v.Any()
	}
}

// WriteJSON writes d as a JSON object with keys sorted alphabetically,
// indented by indent spaces. Non-ASCII and HTML characters are written
// unescaped.
func (d *Document) WriteJSON(w io.Writer, indent int) error {
	if indent <= 0 || indent > maxJSONIndent {
		indent = DefaultJSONIndent
	}

	tree := make(map[string]any, d.Len())
	d.Range(func(key string, value Value) bool {
		tree[key] = value.jsonAny()

		return true
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))

	if err := enc.Encode(tree); err != nil {
		return errors.Wrap(err, "encoding document as JSON")
	}

	return nil
}

// MarshalJSON renders d with sorted keys and default indentation.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteJSON(&buf, DefaultJSONIndent); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ReadJSON decodes a JSON object into a Document, keeping the key order of
// the input. Nulls become empty strings, which the text encoder omits.
func ReadJSON(r io.Reader) (*Document, error) {
	tree, keys, err := ReadJSONTree(r)
	if err != nil {
		return nil, err
	}

	return FromTree(tree, keys)
}

// ReadJSONTree decodes a JSON object into a plain tree (map[string]any,
// []any, string, bool, nil, int64, float64) and returns its top-level keys
// in input order.
func ReadJSONTree(r io.Reader) (map[string]any, []string, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading JSON")
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, ErrNotObject
	}

	obj, keys, err := readObject(dec)
	if err != nil {
		return nil, nil, err
	}

	if extra, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, nil, errors.Wrapf(ErrTrailingData, "%v", err)
		}

		return nil, nil, errors.Wrapf(ErrTrailingData, "unexpected %v", extra)
	}

	return obj, keys, nil
}

func readObject(dec *json.Decoder) (map[string]any, []string, error) {
	obj := make(map[string]any)

	var keys []string

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, errors.Wrap(err, "reading object key")
		}

		key, ok := tok.(string)
		if !ok {
			return nil, nil, errors.Newf("unexpected object key %v", tok)
		}

		val, err := readValue(dec)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "reading %q", key)
		}

		if _, seen := obj[key]; !seen {
			keys = append(keys, key)
		}

		obj[key] = val
	}

	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, nil, errors.Wrap(err, "reading object end")
	}

	return obj, keys, nil
}

func readValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "reading value")
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj, _, err := readObject(dec)

			return obj, err
		case '[':
			arr := []any{}

			for dec.More() {
				v, err := readValue(dec)
				if err != nil {
					return nil, err
				}

				arr = append(arr, v)
			}

			if _, err := dec.Token(); err != nil {
				return nil, errors.Wrap(err, "reading array end")
			}

			return arr, nil
		default:
			return nil, errors.Newf("unexpected delimiter %v", t)
		}
	case string, bool, nil:
		return t, nil
	case json.Number:
		return numberFromLiteral(t.String()), nil
	case float64:
		return t, nil
	default:
		return nil, errors.Newf("unexpected token %T", tok)
	}
}

// numberFromLiteral keeps integers integral and everything else float,
// following the same rule as the text dialect.
func numberFromLiteral(lit string) any {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return i
		}
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return lit
	}

	return f
}

// FromTree converts a decoded JSON object into a Document. When keys is nil
// the fields are inserted in sorted order.
func FromTree(tree map[string]any, keys []string) (*Document, error) {
	if keys == nil {
		keys = make([]string, 0, len(tree))
		for k := range tree {
			keys = append(keys, k)
		}

		sort.Strings(keys)
	}

	d := New()

	for _, key := range keys {
		raw, ok := tree[key]
		if !ok {
			continue
		}

		v, err := ValueOf(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", key)
		}

		d.Set(key, v)
	}

	return d, nil
}

// ValueOf converts a plain Go value into a Value.
func ValueOf(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return String(""), nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return String(strconv.FormatUint(t, 10)), nil
		}

		return Int(int64(t)), nil
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return Value{}, errors.Wrapf(ErrUnsupportedValue, "non-finite float %v", t)
		}

		return Float(t), nil
	case json.Number:
		return ValueOf(numberFromLiteral(t.String()))
	case []any:
		elems := make([]Value, len(t))

		for i, e := range t {
			v, err := ValueOf(e)
			if err != nil {
				return Value{}, errors.Wrapf(err, "index %d", i)
			}

			elems[i] = v
		}

		return List(elems...), nil
	case []string:
		elems := make([]Value, len(t))
		for i, e := range t {
			elems[i] = String(e)
		}

		return List(elems...), nil
	default:
		return Value{}, errors.Wrapf(ErrUnsupportedValue, "%T", raw)
	}
}
