// Package schema validates structured documents against JSON Schema
// (draft-07 by default) and edits schema documents.
package schema

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/su2gui/su2cfg/pkg/document"
)

// ErrInvalidSchema is returned when the schema itself violates its
// meta-schema. Documents are never validated against such a schema.
var ErrInvalidSchema = errors.New("invalid schema")

// resourceURL is the in-memory location the schema is registered under.
const resourceURL = "mem:///su2cfg/schema.json"

// ValidationError is a single document violation.
type ValidationError struct {
	// Path holds the keys (string) and indices (int) leading from the
	// document root to the offending value. Empty means the root.
	Path []any

	// Message describes the violation.
	Message string

	// Value is the offending value.
	Value any

	// Keyword is the schema keyword that failed, e.g. "type" or "anyOf".
	Keyword string

	// Expected is the failing keyword's schema value, when resolvable.
	Expected any
}

// PathString renders Path as "A -> 0", or "root" for the document root.
func (e ValidationError) PathString() string {
	if len(e.Path) == 0 {
		return "root"
	}

	parts := make([]string, len(e.Path))
	for i, p := range e.Path {
		parts[i] = fmt.Sprint(p)
	}

	return strings.Join(parts, " -> ")
}

// Error implements error.
func (e ValidationError) Error() string {
	return e.PathString() + ": " + e.Message
}

// Validator validates documents against one compiled schema.
type Validator struct {
	compiled *jsonschema.Schema
	raw      map[string]any
}

// Compile checks schema against its meta-schema and compiles it. The draft
// is taken from "$schema" and defaults to draft-07.
func Compile(schema map[string]any) (*Validator, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSchema, "encoding schema: %v", err)
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7

	if err := c.AddResource(resourceURL, bytes.NewReader(data)); err != nil {
		return nil, errors.Wrapf(ErrInvalidSchema, "loading schema: %v", err)
	}

	compiled, err := c.Compile(resourceURL)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSchema, "compiling schema: %v", err)
	}

	return &Validator{compiled: compiled, raw: schema}, nil
}

// Validate checks doc and returns every violation found. A nil result means
// the document is valid.
func (v *Validator) Validate(doc *document.Document) []ValidationError {
	return v.ValidateValue(doc.Map())
}

// ValidateValue checks a plain JSON tree (map[string]any, []any, string,
// bool, nil, int64, float64).
func (v *Validator) ValidateValue(instance any) []ValidationError {
	err := v.compiled.Validate(instance)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []ValidationError{{Message: err.Error(), Value: instance}}
	}

	var leaves []*jsonschema.ValidationError

	collectLeaves(ve, &leaves)

	out := make([]ValidationError, 0, len(leaves))
	for _, leaf := range leaves {
		out = append(out, v.convert(leaf, instance))
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].PathString(), out[j].PathString()
		if pi != pj {
			return pi < pj
		}

		return out[i].Keyword < out[j].Keyword
	})

	return out
}

// collectLeaves flattens the error tree. Failed anyOf/oneOf groups are
// reported as one error at their own location rather than one per branch.
func collectLeaves(ve *jsonschema.ValidationError, out *[]*jsonschema.ValidationError) {
	if len(ve.Causes) == 0 || isGroupKeyword(lastSegment(ve.KeywordLocation)) {
		*out = append(*out, ve)

		return
	}

	for _, cause := range ve.Causes {
		collectLeaves(cause, out)
	}
}

func isGroupKeyword(keyword string) bool {
	return keyword == "anyOf" || keyword == "oneOf"
}

func (v *Validator) convert(ve *jsonschema.ValidationError, instance any) ValidationError {
	path, value := resolveInstance(instance, ve.InstanceLocation)
	keyword := lastSegment(ve.KeywordLocation)

	msg := ve.Message
	if isGroupKeyword(keyword) {
		msg = fmt.Sprintf("%s is not valid under %s of the given schemas", describe(value), groupWord(keyword))
	}

	return ValidationError{
		Path:     path,
		Message:  msg,
		Value:    value,
		Keyword:  keyword,
		Expected: v.expected(ve.AbsoluteKeywordLocation),
	}
}

func groupWord(keyword string) string {
	if keyword == "oneOf" {
		return "exactly one"
	}

	return "any"
}

func describe(value any) string {
	switch t := value.(type) {
	case string:
		return strconv.Quote(t)
	case map[string]any:
		return "object"
	default:
		return fmt.Sprint(value)
	}
}

// expected resolves the keyword's value inside the raw schema from the
// fragment of its absolute location. References into other documents are
// not followed.
func (v *Validator) expected(absLocation string) any {
	idx := strings.IndexByte(absLocation, '#')
	if idx < 0 || !strings.HasPrefix(absLocation, resourceURL) {
		return nil
	}

	var cur any = v.raw

	for _, seg := range splitPointer(absLocation[idx+1:]) {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}

			cur = node[i]
		default:
			return nil
		}
	}

	return cur
}

// resolveInstance walks a JSON pointer through instance, returning the typed
// path (ints for array indices) and the value found there.
func resolveInstance(instance any, pointer string) ([]any, any) {
	segs := splitPointer(pointer)
	path := make([]any, 0, len(segs))
	cur := instance

	for _, seg := range segs {
		switch node := cur.(type) {
		case map[string]any:
			path = append(path, seg)
			cur = node[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				path = append(path, seg)
				cur = nil

				continue
			}

			path = append(path, i)
			cur = node[i]
		default:
			path = append(path, seg)
			cur = nil
		}
	}

	return path, cur
}

// splitPointer splits an RFC 6901 JSON pointer into unescaped segments.
func splitPointer(pointer string) []string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return nil
	}

	segs := strings.Split(pointer, "/")
	for i, s := range segs {
		s = strings.ReplaceAll(s, "~1", "/")
		segs[i] = strings.ReplaceAll(s, "~0", "~")
	}

	return segs
}

func lastSegment(pointer string) string {
	segs := splitPointer(pointer)
	if len(segs) == 0 {
		return ""
	}

	return segs[len(segs)-1]
}
