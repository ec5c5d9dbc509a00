package spec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Components holds the specification's components in document order. The
// document form may be either an ordered list of components carrying their
// own "id" field, or a mapping of id to component body; both normalize to
// the list form, with a mapping key taking precedence over an inline id.
type Components []Component

// Load parses a specification document. YAML and JSON are both accepted.
func Load(data []byte) (*Specification, error) {
	var s Specification
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing specification document: %w", err)
	}
	return &s, nil
}

// UnmarshalYAML implements yaml.Unmarshaler, normalizing mapping-form
// components to the list form while preserving document order.
func (cs *Components) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []Component
		if err := node.Decode(&list); err != nil {
			return err
		}
		*cs = list
		return nil
	case yaml.MappingNode:
		out := make(Components, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var c Component
			if err := node.Content[i+1].Decode(&c); err != nil {
				return fmt.Errorf("component %q: %w", node.Content[i].Value, err)
			}
			c.ID = node.Content[i].Value
			out = append(out, c)
		}
		*cs = out
		return nil
	default:
		return fmt.Errorf("components must be a list or a mapping")
	}
}

// UnmarshalJSON accepts the same two document forms as UnmarshalYAML. For
// the mapping form a token decoder keeps the key order of the document.
func (cs *Components) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return fmt.Errorf("components must be a list or a mapping")
	}
	if trimmed[0] == '[' {
		var list []Component
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*cs = list
		return nil
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("components must be a list or a mapping")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // consume '{'
		return err
	}
	var out Components
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		id, _ := keyTok.(string)
		var c Component
		if err := dec.Decode(&c); err != nil {
			return fmt.Errorf("component %q: %w", id, err)
		}
		c.ID = id
		out = append(out, c)
	}
	*cs = out
	return nil
}
