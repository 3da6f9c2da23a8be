package schema

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"

	"github.com/su2gui/su2cfg/internal/fsutil"
)

// FileIndent is the indentation of schema files written by su2cfg.
const FileIndent = "  "

// exportSuffix is appended to the file stem of an exported schema.
const exportSuffix = "_exported"

// LoadFile reads a schema document. A missing file matches
// fsutil.ErrNotFound and malformed JSON matches fsutil.ErrDecode.
func LoadFile(path string) (map[string]any, error) {
	data, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Decode(data)
}

// Decode parses a schema document from JSON.
func Decode(data []byte) (map[string]any, error) {
	var schema map[string]any

	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, errors.Wrapf(fsutil.ErrDecode, "parsing schema JSON: %v", err)
	}

	if schema == nil {
		return nil, errors.Wrap(fsutil.ErrDecode, "schema is not a JSON object")
	}

	return schema, nil
}

// Encode renders schema as indented JSON with a trailing newline.
func Encode(schema map[string]any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", FileIndent)

	if err := enc.Encode(schema); err != nil {
		return nil, errors.Wrap(err, "encoding schema")
	}

	return buf.Bytes(), nil
}

// SaveFile writes schema to path atomically.
func SaveFile(path string, schema map[string]any) error {
	data, err := Encode(schema)
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, data, fsutil.FilePerm)
}

// ExportPath returns the path an exported copy of the schema at path is
// written to: "<stem>_exported.json" next to the original.
func ExportPath(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		ext = ".json"
	}

	return strings.TrimSuffix(path, filepath.Ext(path)) + exportSuffix + ext
}
