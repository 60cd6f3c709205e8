package theme

import "themepainter/model"

// Flatten collects every color of tree into one set. Panel sections come
// first, then top-level sections, then top-level colors; a later source
// overrides an earlier definition with the same id.
func Flatten(tree *model.ConfigTree) *ColorSet {
	set := NewColorSet()
	if tree.Empty() {
		return set
	}

	for _, panel := range tree.Panels {
		if len(panel.Sections) == 0 {
			continue
		}
		addSections(set, panel.Sections)
	}
	addSections(set, tree.Sections)
	for _, def := range tree.Colors {
		set.Put(def)
	}

	return set
}

func addSections(set *ColorSet, sections model.Sections) {
	for _, section := range sections {
		for _, def := range section.Colors {
			set.Put(def)
		}
	}
}
