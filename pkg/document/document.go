package document

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Document is an insertion-ordered mapping from field name to Value.
// Setting an existing key replaces its value in place; the key keeps the
// position of its first insertion.
type Document struct {
	fields *orderedmap.OrderedMap[string, Value]
}

// New creates an empty Document.
func New() *Document {
	return &Document{fields: orderedmap.New[string, Value]()}
}

// Field is a single key/value pair of a Document.
type Field struct {
	Key   string
	Value Value
}

// FromFields builds a Document from fields in order.
func FromFields(fields ...Field) *Document {
	d := New()
	for _, f := range fields {
		d.Set(f.Key, f.Value)
	}

	return d
}

// Len returns the number of fields.
func (d *Document) Len() int {
	if d == nil || d.fields == nil {
		return 0
	}

	return d.fields.Len()
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (Value, bool) {
	if d == nil || d.fields == nil {
		return Value{}, false
	}

	return d.fields.Get(key)
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.Get(key)

	return ok
}

// Set stores value under key.
func (d *Document) Set(key string, value Value) {
	if d.fields == nil {
		d.fields = orderedmap.New[string, Value]()
	}

	d.fields.Set(key, value)
}

// Delete removes key and reports whether it was present.
func (d *Document) Delete(key string) bool {
	if d == nil || d.fields == nil {
		return false
	}

	_, ok := d.fields.Delete(key)

	return ok
}

// Keys returns the field names in insertion order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, d.Len())
	d.Range(func(key string, _ Value) bool {
		keys = append(keys, key)

		return true
	})

	return keys
}

// Fields returns the fields in insertion order.
func (d *Document) Fields() []Field {
	fields := make([]Field, 0, d.Len())
	d.Range(func(key string, value Value) bool {
		fields = append(fields, Field{Key: key, Value: value})

		return true
	})

	return fields
}

// Range calls fn for each field in insertion order until fn returns false.
func (d *Document) Range(fn func(key string, value Value) bool) {
	if d == nil || d.fields == nil {
		return
	}

	for pair := d.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Clone returns an independent deep copy of d.
func (d *Document) Clone() *Document {
	out := New()
	d.Range(func(key string, value Value) bool {
		out.Set(key, value.Clone())

		return true
	})

	return out
}

// Equal reports whether both documents hold the same fields in the same order.
func (d *Document) Equal(o *Document) bool {
	if d.Len() != o.Len() {
		return false
	}

	a, b := d.Fields(), o.Fields()
	for i := range a {
		if a[i].Key != b[i].Key || !a[i].Value.Equal(b[i].Value) {
			return false
		}
	}

	return true
}

// Map converts d to a plain map of JSON-compatible values, the shape the
// schema validator consumes.
func (d *Document) Map() map[string]any {
	out := make(map[string]any, d.Len())
	d.Range(func(key string, value Value) bool {
		out[key] = value.Any()

		return true
	})

	return out
}
