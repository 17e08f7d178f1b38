package recordkit

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML document and parses it into a record of d. Mapping
// order is kept the same way ParseJSON keeps object order.
func ParseYAML(data []byte, d *Descriptor, opts ...ParseOpt) (*Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	tree, err := yamlTree(&doc, Root())
	if err != nil {
		return nil, err
	}
	return Parse(tree, d, opts...)
}

func yamlTree(n *yaml.Node, at PathRef) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlTree(n.Content[0], at)
	case yaml.AliasNode:
		return yamlTree(n.Alias, at)
	case yaml.SequenceNode:
		items := make([]any, len(n.Content))
		for i, c := range n.Content {
			v, err := yamlTree(c, at.Index(i))
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil
	case yaml.MappingNode:
		om := orderedmap.New[string, any]()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if _, dup := om.Get(key); dup {
				return nil, fmt.Errorf("%w: %s: duplicate key", ErrMalformedInput, at.Field(key).Pointer())
			}
			v, err := yamlTree(n.Content[i+1], at.Field(key))
			if err != nil {
				return nil, err
			}
			om.Set(key, v)
		}
		return om, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, at.Pointer(), err)
		}
		return v, nil
	}
}

// normalizeYAML converts generic YAML decoding output into a raw value tree
// with string-keyed maps.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeYAML(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalizeYAML(e)
		}
		return t
	default:
		return v
	}
}
