package model

// DefaultCapability is used when neither the tree nor a node declares one.
const DefaultCapability = "edit_theme_options"

// ConfigTree is the declarative color configuration supplied by a theme.
type ConfigTree struct {
	Capability string   `json:"capability,omitempty" yaml:"capability,omitempty"`
	Stylesheet string   `json:"stylesheet,omitempty" yaml:"stylesheet,omitempty"`
	LibURL     string   `json:"lib_url,omitempty" yaml:"lib_url,omitempty"`
	Panels     Panels   `json:"panels,omitempty" yaml:"panels,omitempty"`
	Sections   Sections `json:"sections,omitempty" yaml:"sections,omitempty"`
	Colors     Colors   `json:"colors,omitempty" yaml:"colors,omitempty"`
}

// Panel groups sections in the host customization UI.
type Panel struct {
	ID          string   `json:"-" yaml:"-"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Priority    int      `json:"priority,omitempty" yaml:"priority,omitempty"`
	Capability  string   `json:"capability,omitempty" yaml:"capability,omitempty"`
	Sections    Sections `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// Section groups colors in the host customization UI.
type Section struct {
	ID          string `json:"-" yaml:"-"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Priority    int    `json:"priority,omitempty" yaml:"priority,omitempty"`
	Capability  string `json:"capability,omitempty" yaml:"capability,omitempty"`
	Panel       string `json:"panel,omitempty" yaml:"panel,omitempty"`
	Colors      Colors `json:"colors,omitempty" yaml:"colors,omitempty"`
}

// ColorDefinition maps one adjustable color to the CSS rules it drives.
//
// Selectors, Attributes, Queries, Important and SetValues are paired by index.
type ColorDefinition struct {
	ID          string  `json:"-" yaml:"-"`
	Label       string  `json:"label,omitempty" yaml:"label,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Section     string  `json:"section,omitempty" yaml:"section,omitempty"`
	Priority    int     `json:"priority,omitempty" yaml:"priority,omitempty"`
	Capability  string  `json:"capability,omitempty" yaml:"capability,omitempty"`
	Transport   string  `json:"transport,omitempty" yaml:"transport,omitempty"`
	Default     string  `json:"default" yaml:"default"`
	Selectors   Strings `json:"selectors" yaml:"selectors"`
	Attributes  Strings `json:"attributes" yaml:"attributes"`
	Queries     Strings `json:"queries,omitempty" yaml:"queries,omitempty"`
	Important   Bools   `json:"important,omitempty" yaml:"important,omitempty"`
	SetValues   Strings `json:"set_values,omitempty" yaml:"set_values,omitempty"`
}

// Empty reports whether the tree declares nothing that could hold a color.
func (t *ConfigTree) Empty() bool {
	return t == nil || (len(t.Panels) == 0 && len(t.Sections) == 0 && len(t.Colors) == 0)
}

// At returns the i-th entry, or "" when the sequence is too short.
func (s Strings) At(i int) string {
	if i < 0 || i >= len(s) {
		return ""
	}
	return s[i]
}

// At returns the i-th entry, or false when the sequence is too short.
func (b Bools) At(i int) bool {
	if i < 0 || i >= len(b) {
		return false
	}
	return b[i]
}
