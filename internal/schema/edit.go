package schema

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

var (
	// ErrPropertyNotFound is returned when removing a property the schema
	// does not define.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrInvalidProperty is returned when a property definition cannot be
	// built from its inputs.
	ErrInvalidProperty = errors.New("invalid property")
)

// PropertyTypes lists the JSON types a new property may declare.
var PropertyTypes = []string{"string", "number", "integer", "boolean", "array", "object"}

// PropertySpec describes a property to add to a schema.
type PropertySpec struct {
	Name        string
	Type        string
	Description string

	// Default is the raw default text, converted according to Type.
	// Empty means no default.
	Default string

	// Enum is a comma separated list of allowed values; only honored for
	// string properties.
	Enum string
}

// NewProperty builds the schema definition for ps.
func NewProperty(ps PropertySpec) (map[string]any, error) {
	if strings.TrimSpace(ps.Name) == "" {
		return nil, errors.WithMessage(ErrInvalidProperty, "property name cannot be empty")
	}

	if !slices.Contains(PropertyTypes, ps.Type) {
		return nil, errors.Wrapf(ErrInvalidProperty, "unknown type %q", ps.Type)
	}

	prop := map[string]any{
		"type":        ps.Type,
		"description": ps.Description,
	}

	if strings.TrimSpace(ps.Default) != "" {
		def, err := convertDefault(ps.Type, ps.Default)
		if err != nil {
			return nil, errors.Wrapf(
				ErrInvalidProperty,
				"invalid default value for type %s: %v",
				ps.Type,
				err,
			)
		}

		prop["default"] = def
	}

	if strings.TrimSpace(ps.Enum) != "" && ps.Type == "string" {
		var enum []any
		for _, v := range strings.Split(ps.Enum, ",") {
			enum = append(enum, strings.TrimSpace(v))
		}

		prop["enum"] = enum
	}

	return prop, nil
}

func convertDefault(typ, raw string) (any, error) {
	switch typ {
	case "number":
		return strconv.ParseFloat(strings.TrimSpace(raw), 64)
	case "integer":
		return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	case "boolean":
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1", "yes":
			return true, nil
		default:
			return false, nil
		}
	case "array", "object":
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, err
		}

		return v, nil
	default:
		return raw, nil
	}
}

// AddProperty sets properties[name] = prop, creating "properties" if the
// schema has none. An existing property of the same name is replaced.
func AddProperty(schema map[string]any, name string, prop map[string]any) {
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		props = map[string]any{}
		schema["properties"] = props
	}

	props[name] = prop
}

// RemoveProperty deletes properties[name].
func RemoveProperty(schema map[string]any, name string) error {
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		return errors.Wrapf(ErrPropertyNotFound, "%s", name)
	}

	if _, exists := props[name]; !exists {
		return errors.Wrapf(ErrPropertyNotFound, "%s", name)
	}

	delete(props, name)

	return nil
}

// PropertySummary is one row of a schema's property listing.
type PropertySummary struct {
	Name        string
	Type        string
	Description string
	Default     any
}

// Properties lists the schema's properties sorted by name.
func Properties(schema map[string]any) []PropertySummary {
	props, _ := schema["properties"].(map[string]any)

	out := make([]PropertySummary, 0, len(props))

	for name, raw := range props {
		def, _ := raw.(map[string]any)

		summary := PropertySummary{Name: name, Default: def["default"]}
		summary.Description, _ = def["description"].(string)

		switch t := def["type"].(type) {
		case string:
			summary.Type = t
		case []any:
			parts := make([]string, 0, len(t))
			for _, p := range t {
				if s, isStr := p.(string); isStr {
					parts = append(parts, s)
				}
			}

			summary.Type = strings.Join(parts, "|")
		default:
			if _, hasAnyOf := def["anyOf"]; hasAnyOf {
				summary.Type = "anyOf"
			} else if _, hasEnum := def["enum"]; hasEnum {
				summary.Type = "enum"
			}
		}

		out = append(out, summary)
	}

	slices.SortFunc(out, func(a, b PropertySummary) int {
		return strings.Compare(a.Name, b.Name)
	})

	return out
}
