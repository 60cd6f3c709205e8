package theme

import (
	"strings"

	"themepainter/model"
)

const importantSuffix = "!important"

// CompileRules returns the CSS rules def produces for value, in selector
// order. A color still at its default produces no rules.
func CompileRules(def model.ColorDefinition, value string) ([]string, error) {
	if value == def.Default {
		return nil, nil
	}
	return buildRules(def, value)
}

// CompileColor is CompileRules joined into one string.
func CompileColor(def model.ColorDefinition, value string) (string, error) {
	rules, err := CompileRules(def, value)
	if err != nil {
		return "", err
	}
	return strings.Join(rules, ""), nil
}

// buildRules renders every selector of def without the default check.
func buildRules(def model.ColorDefinition, value string) ([]string, error) {
	if err := checkLengths(def); err != nil {
		return nil, err
	}

	rules := make([]string, 0, len(def.Selectors))
	for i, selector := range def.Selectors {
		v := value
		if set := def.SetValues.At(i); set != "" {
			v = set
		}
		rules = append(rules, BuildRule(selector, def.Attributes[i], v, def.Queries.At(i), def.Important.At(i)))
	}
	return rules, nil
}

// BuildRule renders one selector{attribute:value} rule, optionally flagged
// !important and wrapped in query.
func BuildRule(selector, attribute, value, query string, important bool) string {
	if important {
		value += importantSuffix
	}

	var b strings.Builder
	b.Grow(len(query) + len(selector) + len(attribute) + len(value) + 5)
	if query != "" {
		b.WriteString(query)
		b.WriteByte('{')
	}
	b.WriteString(selector)
	b.WriteByte('{')
	b.WriteString(attribute)
	b.WriteByte(':')
	b.WriteString(value)
	b.WriteByte('}')
	if query != "" {
		b.WriteByte('}')
	}
	return b.String()
}

func checkLengths(def model.ColorDefinition) error {
	n := len(def.Selectors)
	if len(def.Attributes) < n {
		return &DefinitionError{ColorID: def.ID, Field: "attributes", Index: len(def.Attributes), Err: ErrFieldMismatch}
	}
	optional := []struct {
		name string
		size int
	}{
		{"queries", len(def.Queries)},
		{"important", len(def.Important)},
		{"set_values", len(def.SetValues)},
	}
	for _, f := range optional {
		if f.size > 0 && f.size < n {
			return &DefinitionError{ColorID: def.ID, Field: f.name, Index: f.size, Err: ErrFieldMismatch}
		}
	}
	return nil
}
