package schema

import (
	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"

	"github.com/su2gui/su2cfg/pkg/config"
)

const (
	settingsSchemaURI = "https://json-schema.org/draft/2020-12/schema"
	settingsTitle     = "su2cfg settings"

	// SettingsSchemaFilename is the file name schema-gen writes the settings
	// schema to.
	SettingsSchemaFilename = "su2cfg-settings.schema.json"
)

// SettingsSchema produces a JSON Schema of the settings file from config.Config.
func SettingsSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	s := r.Reflect(&config.Config{})
	s.Version = settingsSchemaURI
	s.Title = settingsTitle

	return s
}

// SettingsSchemaJSON produces the settings schema as bytes.
// When indent is true, the output is pretty-printed.
func SettingsSchemaJSON(indent bool) ([]byte, error) {
	s := SettingsSchema()

	var (
		data []byte
		err  error
	)

	if indent {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}

	if err != nil {
		return nil, errors.Wrap(err, "marshaling settings schema to JSON")
	}

	// Append trailing newline for file output.
	return append(data, '\n'), nil
}
