package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SerializeYAML encodes fields as a YAML mapping without delimiters.
//
// The encoder emits map keys in sorted order at every level, so equal mappings
// encode to equal bytes. An empty mapping encodes to nothing.
func SerializeYAML(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	err := enc.Encode(stringKeys(fields))
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// stringKeys rewrites mappings with non-string keys so every mapping in the
// output is keyed by strings.
func stringKeys(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, val := range vv {
			out[k] = stringKeys(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(vv))
		for k, val := range vv {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []any:
		out := make([]any, len(vv))
		for i, item := range vv {
			out[i] = stringKeys(item)
		}
		return out
	default:
		return v
	}
}
