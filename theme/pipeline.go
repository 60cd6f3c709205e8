package theme

import (
	"fmt"

	"github.com/jinzhu/copier"

	"themepainter/model"
)

// PanelFilter rewrites a panel before registration and flattening.
type PanelFilter func(model.Panel) model.Panel

// SectionFilter rewrites a section before registration and flattening.
type SectionFilter func(model.Section) model.Section

// ColorFilter rewrites a color definition before registration and flattening.
type ColorFilter func(model.ColorDefinition) model.ColorDefinition

// Pipeline is the ordered set of definition filters an integrator supplies.
// Panel filters run before the section filters of that panel, which run
// before the color filters of each section.
type Pipeline struct {
	Panels   []PanelFilter
	Sections []SectionFilter
	Colors   []ColorFilter
}

// Empty reports whether the pipeline has no filters.
func (p *Pipeline) Empty() bool {
	return p == nil || (len(p.Panels) == 0 && len(p.Sections) == 0 && len(p.Colors) == 0)
}

// Apply returns a filtered deep copy of tree. tree itself is not modified.
func (p *Pipeline) Apply(tree *model.ConfigTree) (*model.ConfigTree, error) {
	if tree == nil {
		return &model.ConfigTree{}, nil
	}

	out := &model.ConfigTree{}
	if err := copier.CopyWithOption(out, tree, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copy config tree: %w", err)
	}
	if p.Empty() {
		return out, nil
	}

	for i := range out.Panels {
		for _, f := range p.Panels {
			out.Panels[i] = f(out.Panels[i])
		}
		p.applySections(out.Panels[i].Sections)
	}
	p.applySections(out.Sections)
	p.applyColors(out.Colors)

	return out, nil
}

func (p *Pipeline) applySections(sections model.Sections) {
	for i := range sections {
		for _, f := range p.Sections {
			sections[i] = f(sections[i])
		}
		p.applyColors(sections[i].Colors)
	}
}

func (p *Pipeline) applyColors(colors model.Colors) {
	for i := range colors {
		for _, f := range p.Colors {
			colors[i] = f(colors[i])
		}
	}
}
