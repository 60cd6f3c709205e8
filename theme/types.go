package theme

import "themepainter/model"

// ColorSet is the flattened, ordered id → definition mapping.
type ColorSet struct {
	ids  []string
	defs map[string]model.ColorDefinition
}

// NewColorSet returns an empty set.
func NewColorSet() *ColorSet {
	return &ColorSet{defs: make(map[string]model.ColorDefinition)}
}

// Put stores def under def.ID. An existing id keeps its position and takes
// the new definition.
func (s *ColorSet) Put(def model.ColorDefinition) {
	if _, exists := s.defs[def.ID]; !exists {
		s.ids = append(s.ids, def.ID)
	}
	s.defs[def.ID] = def
}

// Get returns the definition for id.
func (s *ColorSet) Get(id string) (model.ColorDefinition, bool) {
	if s == nil {
		return model.ColorDefinition{}, false
	}
	def, ok := s.defs[id]
	return def, ok
}

// Len returns the number of colors.
func (s *ColorSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns the color ids in flatten order.
func (s *ColorSet) IDs() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.ids...)
}

// All returns the definitions in flatten order.
func (s *ColorSet) All() []model.ColorDefinition {
	if s == nil {
		return nil
	}
	out := make([]model.ColorDefinition, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.defs[id])
	}
	return out
}

// ValueStore persists user-chosen color values.
type ValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// CacheStore holds the compiled stylesheet between requests.
type CacheStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
