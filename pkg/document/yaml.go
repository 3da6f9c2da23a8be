package document

import (
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// MarshalYAML renders d as a mapping that keeps insertion order.
func (d *Document) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	d.Range(func(key string, value Value) bool {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			yamlNode(value),
		)

		return true
	})

	return node, nil
}

func yamlNode(v Value) *yaml.Node {
	switch v.Kind() {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v.String()}
	case KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: v.String()}
	case KindList:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for _, e := range v.list {
			seq.Content = append(seq.Content, yamlNode(e))
		}

		return seq
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}
	}
}

// WriteYAML writes d as a YAML mapping in insertion order.
func (d *Document) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(d); err != nil {
		return errors.Wrap(err, "encoding document as YAML")
	}

	return errors.Wrap(enc.Close(), "flushing YAML")
}

// ReadYAML decodes a YAML mapping into a Document, keeping the key order of
// the input. Scalars keep their YAML type; nulls become empty strings and
// nested mappings are rejected.
func ReadYAML(r io.Reader) (*Document, error) {
	var root yaml.Node

	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return New(), nil
		}

		return nil, errors.Wrap(err, "reading YAML")
	}

	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	if node.Kind != yaml.MappingNode {
		return nil, ErrNotObject
	}

	d := New()

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value

		var raw any
		if err := node.Content[i+1].Decode(&raw); err != nil {
			return nil, errors.Wrapf(err, "field %s", key)
		}

		v, err := ValueOf(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", key)
		}

		d.Set(key, v)
	}

	return d, nil
}
