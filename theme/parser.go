package theme

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// ParsedRule is one declaration read back from a compiled stylesheet.
type ParsedRule struct {
	Query     string
	Selector  string
	Property  string
	Value     string
	Important bool
}

// ParseRules reads a compiled stylesheet back into flat declarations. It is
// an authoring aid for lint and tests; compilation never parses CSS.
func ParseRules(stylesheet string) ([]ParsedRule, error) {
	sheet, err := parser.Parse(stylesheet)
	if err != nil {
		return nil, fmt.Errorf("parse stylesheet: %w", err)
	}

	var out []ParsedRule
	for _, rule := range sheet.Rules {
		out = appendRule(out, "", rule)
	}
	return out, nil
}

func appendRule(out []ParsedRule, query string, rule *css.Rule) []ParsedRule {
	if rule.Kind == css.AtRule {
		q := strings.TrimSpace(rule.Name + " " + rule.Prelude)
		for _, nested := range rule.Rules {
			out = appendRule(out, q, nested)
		}
		return out
	}
	for _, sel := range rule.Selectors {
		for _, decl := range rule.Declarations {
			out = append(out, ParsedRule{
				Query:     query,
				Selector:  sel,
				Property:  decl.Property,
				Value:     decl.Value,
				Important: decl.Important,
			})
		}
	}
	return out
}
