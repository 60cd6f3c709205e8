// Package customizer registers a color configuration tree with a host
// customization panel. The host is reached only through the Registrar
// interface, so the same tree can feed a real admin UI or a JSON manifest.
package customizer

import (
	"fmt"

	"themepainter/model"
	"themepainter/theme"
)

const (
	// DefaultSection receives colors declared outside any section.
	DefaultSection = "colors"
	// DefaultTransport lets the host refresh the preview without a reload.
	DefaultTransport = "postMessage"

	panelPrefix   = "panel_"
	sectionPrefix = "section_"
)

// PanelArgs describes a panel for the host.
type PanelArgs struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority,omitempty"`
	Capability  string `json:"capability"`
}

// SectionArgs describes a section for the host.
type SectionArgs struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority,omitempty"`
	Capability  string `json:"capability"`
	Panel       string `json:"panel,omitempty"`
}

// SettingArgs describes the stored value behind a control.
type SettingArgs struct {
	Default    string                       `json:"default"`
	Transport  string                       `json:"transport"`
	Capability string                       `json:"capability"`
	Sanitize   func(string) (string, error) `json:"-"`
}

// ControlArgs describes the color picker shown for a setting.
type ControlArgs struct {
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	Section     string `json:"section"`
	Priority    int    `json:"priority,omitempty"`
	Capability  string `json:"capability"`
}

// Registrar is the host customization panel.
type Registrar interface {
	AddPanel(id string, args PanelArgs) error
	AddSection(id string, args SectionArgs) error
	AddSetting(id string, args SettingArgs) error
	AddControl(id string, args ControlArgs) error
}

// PanelID returns the host id of a panel.
func PanelID(id string) string { return panelPrefix + theme.SanitizeKey(id) }

// SectionID returns the host id of a section.
func SectionID(id string) string { return sectionPrefix + theme.SanitizeKey(id) }

// Register adds every panel, section and color of tree to reg. Panels
// without sections and sections without colors are skipped. Capabilities
// cascade from the tree down to each color.
func Register(tree *model.ConfigTree, reg Registrar) error {
	if tree.Empty() {
		return nil
	}

	capability := tree.Capability
	if capability == "" {
		capability = model.DefaultCapability
	}

	for _, panel := range tree.Panels {
		if len(panel.Sections) == 0 {
			continue
		}
		if panel.Capability == "" {
			panel.Capability = capability
		}
		err := reg.AddPanel(PanelID(panel.ID), PanelArgs{
			Title:       panel.Title,
			Description: panel.Description,
			Priority:    panel.Priority,
			Capability:  panel.Capability,
		})
		if err != nil {
			return fmt.Errorf("add panel %q: %w", panel.ID, err)
		}
		if err := registerSections(reg, panel.Sections, panel.ID, panel.Capability); err != nil {
			return err
		}
	}

	if err := registerSections(reg, tree.Sections, "", capability); err != nil {
		return err
	}
	return registerColors(reg, tree.Colors, "", capability)
}

func registerSections(reg Registrar, sections model.Sections, panelID, capability string) error {
	for _, section := range sections {
		if len(section.Colors) == 0 {
			continue
		}
		if section.Panel == "" && panelID != "" {
			section.Panel = PanelID(panelID)
		}
		if section.Capability == "" {
			section.Capability = capability
		}
		err := reg.AddSection(SectionID(section.ID), SectionArgs{
			Title:       section.Title,
			Description: section.Description,
			Priority:    section.Priority,
			Capability:  section.Capability,
			Panel:       section.Panel,
		})
		if err != nil {
			return fmt.Errorf("add section %q: %w", section.ID, err)
		}
		if err := registerColors(reg, section.Colors, section.ID, section.Capability); err != nil {
			return err
		}
	}
	return nil
}

func registerColors(reg Registrar, colors model.Colors, sectionID, capability string) error {
	for _, color := range colors {
		switch {
		case color.Section == "" && sectionID != "":
			color.Section = SectionID(sectionID)
		case color.Section == "":
			color.Section = DefaultSection
		}
		if color.Capability == "" {
			color.Capability = capability
		}
		transport := color.Transport
		if transport == "" {
			transport = DefaultTransport
		}

		id := theme.SettingKey(color.ID)
		err := reg.AddSetting(id, SettingArgs{
			Default:    color.Default,
			Transport:  transport,
			Capability: color.Capability,
			Sanitize:   theme.SanitizeHexColor,
		})
		if err != nil {
			return fmt.Errorf("add setting %q: %w", color.ID, err)
		}
		err = reg.AddControl(id, ControlArgs{
			Label:       color.Label,
			Description: color.Description,
			Section:     color.Section,
			Priority:    color.Priority,
			Capability:  color.Capability,
		})
		if err != nil {
			return fmt.Errorf("add control %q: %w", color.ID, err)
		}
	}
	return nil
}
