// Package compat widens SU2 configuration documents and their JSON schema
// so that historically inconsistent field representations validate. Both
// sides are patched in memory only; persisted files are never altered.
package compat

// ArrayDocumentFields must always hold a list; a single scalar is wrapped.
var ArrayDocumentFields = []string{
	"SST_OPTIONS",
	"SA_OPTIONS",
	"SPECIFIC_HEAT_CP",
	"MU_CONSTANT",
	"MU_REF",
	"MU_T_REF",
	"SUTHERLAND_CONSTANT",
	"THERMAL_CONDUCTIVITY_CONSTANT",
	"CONV_FIELD",
	"OBJECTIVE_FUNCTION",
	"DV_KIND",
}

// ArraySchemaProperties accept either an array or their original scalar
// shape. The reference-origin and design-variable values are widened in the
// schema only.
var ArraySchemaProperties = append(append([]string{}, ArrayDocumentFields...),
	"REF_ORIGIN_MOMENT_X",
	"REF_ORIGIN_MOMENT_Y",
	"REF_ORIGIN_MOMENT_Z",
	"DV_VALUE",
)

// IterationCountFields are iteration and restart counters that the schema
// types as strings while configuration files write them as numbers.
var IterationCountFields = []string{
	"CONV_STARTITER",
	"CONV_CAUCHY_ELEMS",
	"DEFORM_NONLINEAR_ITER",
	"DEFORM_LINEAR_SOLVER_ITER",
	"INNER_ITER",
	"TIME_ITER",
	"RESTART_ITER",
}

// LegacyLiteral is a one-to-one value substitution for a single field.
type LegacyLiteral struct {
	Field string
	From  string
	To    string
}

// TimeMarchingLegacy rewrites the retired second-order dual time stepping
// literal to the closest supported value, and is also the literal injected
// into the schema enum.
var TimeMarchingLegacy = LegacyLiteral{
	Field: "TIME_MARCHING",
	From:  "DUAL_TIME_STEPPING-2ND_ORDER",
	To:    "TIME_STEPPING",
}

// heterogeneousArray accepts arrays mixing strings, numbers and arrays.
func heterogeneousArray() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"anyOf": []any{
				map[string]any{"type": "string"},
				map[string]any{"type": "number"},
				map[string]any{"type": "array"},
			},
		},
	}
}

// TypeOverrides replace a property's schema outright.
var TypeOverrides = map[string]func() map[string]any{
	"DV_MARKER":     heterogeneousArray,
	"DEFINITION_DV": heterogeneousArray,
	"MATH_PROBLEM": func() map[string]any {
		return map[string]any{"type": "string"}
	},
}
