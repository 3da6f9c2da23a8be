package config

const (
	// DefaultJSONIndent is the default indentation of JSON documents.
	DefaultJSONIndent = 2

	// DefaultCfgHeader is the default header line of written configuration files.
	DefaultCfgHeader = "SU2 configuration file written by su2cfg"

	// FormatJSON persists documents as JSON.
	FormatJSON = "json"

	// FormatYAML persists documents as YAML.
	FormatYAML = "yaml"
)

// OutputConfig controls how converted files are written.
type OutputConfig struct {
	// JSONIndent is the number of spaces used to indent JSON documents.
	// Default: 2
	JSONIndent *int `json:"json_indent,omitempty" jsonschema:"enum=2,enum=4" koanf:"json_indent" toml:"json_indent,omitempty"`

	// CfgHeader is written as a comment at the top of configuration files.
	// Default: "SU2 configuration file written by su2cfg"
	CfgHeader *string `json:"cfg_header,omitempty" koanf:"cfg_header" toml:"cfg_header,omitempty"`

	// Format is the document format produced by decode: "json" or "yaml".
	// Default: "json"
	Format string `json:"format,omitempty" jsonschema:"enum=json,enum=yaml" koanf:"format" toml:"format,omitempty"`
}

// GetJSONIndent returns the JSON indentation, using default if not set.
func (o *OutputConfig) GetJSONIndent() int {
	if o == nil || o.JSONIndent == nil {
		return DefaultJSONIndent
	}

	return *o.JSONIndent
}

// GetCfgHeader returns the configuration header, using default if not set.
func (o *OutputConfig) GetCfgHeader() string {
	if o == nil || o.CfgHeader == nil {
		return DefaultCfgHeader
	}

	return *o.CfgHeader
}

// GetFormat returns the document format, using default if not set.
func (o *OutputConfig) GetFormat() string {
	if o == nil || o.Format == "" {
		return FormatJSON
	}

	return o.Format
}
