package compat

import (
	"github.com/cockroachdb/errors"
	"github.com/mitchellh/copystructure"
)

// FixSchema returns a deep copy of schema widened for legacy documents. The
// input is never modified. Only properties already present are patched.
func FixSchema(schema map[string]any) (map[string]any, error) {
	copied, err := copystructure.Copy(schema)
	if err != nil {
		return nil, errors.Wrap(err, "copying schema")
	}

	out, ok := copied.(map[string]any)
	if !ok {
		return nil, errors.Newf("copied schema has type %T", copied)
	}

	props, ok := out["properties"].(map[string]any)
	if !ok {
		return out, nil
	}

	for _, name := range ArraySchemaProperties {
		orig, present := props[name]
		if !present {
			continue
		}

		items := any(map[string]any{})
		if def, isObj := orig.(map[string]any); isObj {
			if it, hasItems := def["items"]; hasItems {
				items = it
			}
		}

		props[name] = map[string]any{
			"anyOf": []any{
				map[string]any{"type": "array", "items": items},
				orig,
			},
		}
	}

	for _, name := range IterationCountFields {
		if _, present := props[name]; present {
			props[name] = map[string]any{
				"anyOf": []any{
					map[string]any{"type": "string"},
					map[string]any{"type": "number"},
				},
			}
		}
	}

	patchEnum(props, TimeMarchingLegacy.Field, TimeMarchingLegacy.From)

	for name, override := range TypeOverrides {
		if _, present := props[name]; present {
			props[name] = override()
		}
	}

	return out, nil
}

// patchEnum appends literal to the enum of property name when the property
// has an enum that lacks it.
func patchEnum(props map[string]any, name, literal string) {
	def, ok := props[name].(map[string]any)
	if !ok {
		return
	}

	enum, ok := def["enum"].([]any)
	if !ok {
		return
	}

	for _, v := range enum {
		if s, isStr := v.(string); isStr && s == literal {
			return
		}
	}

	def["enum"] = append(enum, literal)
}
