package variables

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/su2gui/su2cfg/internal/fsutil"
)

// fileFormat is the on-disk layout of a variables file:
//
//	variables:
//	  - name: __WIDTH__
//	    value: 0.055
//	    description: channel width
type fileFormat struct {
	Variables []Variable `yaml:"variables"`
}

// LoadFile reads a YAML variables file.
func LoadFile(path string) (*Set, error) {
	data, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	set, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}

	return set, nil
}

// Decode parses a variables document. Numeric values keep their literal text.
func Decode(data []byte) (*Set, error) {
	var f fileFormat

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(fsutil.ErrDecode, "parsing variables YAML: %v", err)
	}

	set := NewSet()

	for i, v := range f.Variables {
		if err := set.Add(v.Name, v.Value, v.Description); err != nil {
			return nil, errors.Wrapf(err, "entry %d", i+1)
		}
	}

	return set, nil
}

// Encode renders s in the variables file layout.
func Encode(s *Set) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(fileFormat{Variables: s.Variables()}); err != nil {
		return nil, errors.Wrap(err, "encoding variables")
	}

	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "flushing variables")
	}

	return buf.Bytes(), nil
}
