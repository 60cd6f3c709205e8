package customizer

// Manifest is a Registrar that records registrations so they can be sent to
// a browser-side panel as JSON. Re-registering an id replaces the entry.
type Manifest struct {
	Panels   []PanelEntry   `json:"panels"`
	Sections []SectionEntry `json:"sections"`
	Settings []SettingEntry `json:"settings"`
	Controls []ControlEntry `json:"controls"`
}

type PanelEntry struct {
	ID string `json:"id"`
	PanelArgs
}

type SectionEntry struct {
	ID string `json:"id"`
	SectionArgs
}

type SettingEntry struct {
	ID string `json:"id"`
	SettingArgs
}

type ControlEntry struct {
	ID string `json:"id"`
	ControlArgs
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		Panels:   []PanelEntry{},
		Sections: []SectionEntry{},
		Settings: []SettingEntry{},
		Controls: []ControlEntry{},
	}
}

func (m *Manifest) AddPanel(id string, args PanelArgs) error {
	m.Panels = put(m.Panels, PanelEntry{ID: id, PanelArgs: args}, func(e PanelEntry) string { return e.ID })
	return nil
}

func (m *Manifest) AddSection(id string, args SectionArgs) error {
	m.Sections = put(m.Sections, SectionEntry{ID: id, SectionArgs: args}, func(e SectionEntry) string { return e.ID })
	return nil
}

func (m *Manifest) AddSetting(id string, args SettingArgs) error {
	m.Settings = put(m.Settings, SettingEntry{ID: id, SettingArgs: args}, func(e SettingEntry) string { return e.ID })
	return nil
}

func (m *Manifest) AddControl(id string, args ControlArgs) error {
	m.Controls = put(m.Controls, ControlEntry{ID: id, ControlArgs: args}, func(e ControlEntry) string { return e.ID })
	return nil
}

// Setting returns the setting registered under id.
func (m *Manifest) Setting(id string) (SettingArgs, bool) {
	for _, s := range m.Settings {
		if s.ID == id {
			return s.SettingArgs, true
		}
	}
	return SettingArgs{}, false
}

func put[T any](entries []T, e T, idOf func(T) string) []T {
	for i := range entries {
		if idOf(entries[i]) == idOf(e) {
			entries[i] = e
			return entries
		}
	}
	return append(entries, e)
}
