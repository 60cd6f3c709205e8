package theme

import (
	"strings"

	"themepainter/model"
)

// Placeholder stands in for the color value inside preview templates.
const Placeholder = "%value%"

// Templates maps color ids to rule templates containing Placeholder.
type Templates struct {
	ids       []string
	templates map[string]string
}

// BuildPreviewTemplates compiles every color of set with Placeholder as its
// value. Colors at their default are included.
func BuildPreviewTemplates(set *ColorSet) (*Templates, error) {
	t := &Templates{templates: make(map[string]string, set.Len())}
	for _, def := range set.All() {
		tmpl, err := PreviewTemplate(def)
		if err != nil {
			return nil, err
		}
		t.ids = append(t.ids, def.ID)
		t.templates[def.ID] = tmpl
	}
	return t, nil
}

// PreviewTemplate returns the template for a single color.
func PreviewTemplate(def model.ColorDefinition) (string, error) {
	rules, err := buildRules(def, Placeholder)
	if err != nil {
		return "", err
	}
	return strings.Join(rules, ""), nil
}

// Get returns the template for a color id.
func (t *Templates) Get(colorID string) (string, bool) {
	tmpl, ok := t.templates[colorID]
	return tmpl, ok
}

// Len returns the number of templates.
func (t *Templates) Len() int { return len(t.ids) }

// IDs returns the color ids in flatten order.
func (t *Templates) IDs() []string { return append([]string(nil), t.ids...) }

// Export re-keys the templates by setting key, the form the live preview
// client consumes.
func (t *Templates) Export() map[string]string {
	out := make(map[string]string, len(t.ids))
	for _, id := range t.ids {
		out[SettingKey(id)] = t.templates[id]
	}
	return out
}

// ApplyPreview substitutes value for every Placeholder in template.
func ApplyPreview(template, value string) string {
	return strings.ReplaceAll(template, Placeholder, value)
}
