package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Strings is a sequence that also accepts a single scalar in the source
// document, which becomes a sequence of length one.
type Strings []string

// Bools is the boolean counterpart of Strings. Entries follow loose
// truthiness: non-zero numbers and non-empty strings other than "0" are true.
type Bools []bool

// Panels is an ordered id-keyed collection of panels.
type Panels []Panel

// Sections is an ordered id-keyed collection of sections.
type Sections []Section

// Colors is an ordered id-keyed collection of color definitions.
type Colors []ColorDefinition

func (s *Strings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = nil
		return nil
	case len(data) > 0 && data[0] == '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make(Strings, 0, len(raw))
		for _, r := range raw {
			v, err := jsonString(r)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		*s = out
		return nil
	default:
		v, err := jsonString(data)
		if err != nil {
			return err
		}
		*s = Strings{v}
		return nil
	}
}

func (s *Strings) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	switch value.Kind {
	case yaml.SequenceNode:
		out := make(Strings, 0, len(value.Content))
		for _, n := range value.Content {
			out = append(out, yamlString(n))
		}
		*s = out
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*s = nil
			return nil
		}
		*s = Strings{value.Value}
	default:
		return fmt.Errorf("line %d: expected string or list of strings", value.Line)
	}
	return nil
}

func (b *Bools) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make(Bools, 0, len(raw))
		for _, r := range raw {
			out = append(out, truthy(r))
		}
		*b = out
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*b = nil
		return nil
	}
	*b = Bools{truthy(v)}
	return nil
}

func (b *Bools) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	switch value.Kind {
	case yaml.SequenceNode:
		out := make(Bools, 0, len(value.Content))
		for _, n := range value.Content {
			var v any
			if err := n.Decode(&v); err != nil {
				return err
			}
			out = append(out, truthy(v))
		}
		*b = out
	case yaml.ScalarNode:
		var v any
		if err := value.Decode(&v); err != nil {
			return err
		}
		if v == nil {
			*b = nil
			return nil
		}
		*b = Bools{truthy(v)}
	default:
		return fmt.Errorf("line %d: expected boolean or list of booleans", value.Line)
	}
	return nil
}

func (p *Panels) UnmarshalJSON(data []byte) error {
	*p = nil
	return eachJSONEntry(data, func(id string, raw json.RawMessage) error {
		var panel Panel
		if err := json.Unmarshal(raw, &panel); err != nil {
			return fmt.Errorf("panel %q: %w", id, err)
		}
		panel.ID = id
		*p = upsert(*p, panel, func(v Panel) string { return v.ID })
		return nil
	})
}

func (p *Panels) UnmarshalYAML(value *yaml.Node) error {
	*p = nil
	return eachYAMLEntry(value, func(id string, n *yaml.Node) error {
		var panel Panel
		if err := n.Decode(&panel); err != nil {
			return fmt.Errorf("panel %q: %w", id, err)
		}
		panel.ID = id
		*p = upsert(*p, panel, func(v Panel) string { return v.ID })
		return nil
	})
}

func (s *Sections) UnmarshalJSON(data []byte) error {
	*s = nil
	return eachJSONEntry(data, func(id string, raw json.RawMessage) error {
		var section Section
		if err := json.Unmarshal(raw, &section); err != nil {
			return fmt.Errorf("section %q: %w", id, err)
		}
		section.ID = id
		*s = upsert(*s, section, func(v Section) string { return v.ID })
		return nil
	})
}

func (s *Sections) UnmarshalYAML(value *yaml.Node) error {
	*s = nil
	return eachYAMLEntry(value, func(id string, n *yaml.Node) error {
		var section Section
		if err := n.Decode(&section); err != nil {
			return fmt.Errorf("section %q: %w", id, err)
		}
		section.ID = id
		*s = upsert(*s, section, func(v Section) string { return v.ID })
		return nil
	})
}

func (c *Colors) UnmarshalJSON(data []byte) error {
	*c = nil
	return eachJSONEntry(data, func(id string, raw json.RawMessage) error {
		var color ColorDefinition
		if err := json.Unmarshal(raw, &color); err != nil {
			return fmt.Errorf("color %q: %w", id, err)
		}
		color.ID = id
		*c = upsert(*c, color, func(v ColorDefinition) string { return v.ID })
		return nil
	})
}

func (c *Colors) UnmarshalYAML(value *yaml.Node) error {
	*c = nil
	return eachYAMLEntry(value, func(id string, n *yaml.Node) error {
		var color ColorDefinition
		if err := n.Decode(&color); err != nil {
			return fmt.Errorf("color %q: %w", id, err)
		}
		color.ID = id
		*c = upsert(*c, color, func(v ColorDefinition) string { return v.ID })
		return nil
	})
}

// eachJSONEntry walks a JSON object in document order. Lists are accepted
// too and keyed by their index.
func eachJSONEntry(data []byte, fn func(id string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for i := 0; dec.More(); i++ {
		id := strconv.Itoa(i)
		if delim == '{' {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := keyTok.(string)
			if !ok {
				return fmt.Errorf("expected object key, got %v", keyTok)
			}
			id = key
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(id, raw); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}

func eachYAMLEntry(value *yaml.Node, fn func(id string, n *yaml.Node) error) error {
	value = resolveAlias(value)
	switch value.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			if err := fn(value.Content[i].Value, value.Content[i+1]); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for i, n := range value.Content {
			if err := fn(strconv.Itoa(i), n); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		if value.Tag != "!!null" {
			return fmt.Errorf("line %d: expected mapping", value.Line)
		}
	default:
		return fmt.Errorf("line %d: expected mapping", value.Line)
	}
	return nil
}

// upsert replaces an entry with the same id in place, or appends.
func upsert[T any](items []T, v T, idOf func(T) string) []T {
	id := idOf(v)
	for i := range items {
		if idOf(items[i]) == id {
			items[i] = v
			return items
		}
	}
	return append(items, v)
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func jsonString(data json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("expected string, got %s", string(data))
	}
}

func yamlString(n *yaml.Node) string {
	n = resolveAlias(n)
	if n.Tag == "!!null" {
		return ""
	}
	return n.Value
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		return t != "" && t != "0"
	default:
		return true
	}
}
