package theme

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"themepainter/model"
)

// Manager ties a configuration tree to its stores: it owns the flattened
// color set, the style cache and the save-event handling.
type Manager struct {
	mu       sync.RWMutex
	tree     *model.ConfigTree
	set      *ColorSet
	pipeline *Pipeline
	values   ValueStore
	cache    *StyleCache
	logger   *log.Logger

	// saveMu is held exclusively by save events and shared by stylesheet
	// compiles, so a compile never stores output older than the last save.
	saveMu sync.RWMutex
}

// NewManager creates a manager and loads tree through pipeline.
func NewManager(tree *model.ConfigTree, values ValueStore, cache CacheStore, pipeline *Pipeline) (*Manager, error) {
	if values == nil || cache == nil {
		return nil, errors.New("theme: value and cache stores are required")
	}
	m := &Manager{
		pipeline: pipeline,
		values:   values,
		cache:    NewStyleCache(cache),
		logger:   log.WithPrefix("theme"),
	}
	if err := m.Load(tree); err != nil {
		return nil, fmt.Errorf("load config tree: %w", err)
	}
	return m, nil
}

// Load replaces the configuration tree and busts the compiled stylesheet.
func (m *Manager) Load(tree *model.ConfigTree) error {
	filtered, err := m.pipeline.Apply(tree)
	if err != nil {
		return err
	}
	set := Flatten(filtered)

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	m.tree = filtered
	m.set = set
	m.mu.Unlock()

	m.logger.Info("loaded colors", "panels", len(filtered.Panels), "sections", len(filtered.Sections), "colors", set.Len())
	return m.cache.Invalidate()
}

// Tree returns the filtered configuration tree. Callers must not modify it.
func (m *Manager) Tree() *model.ConfigTree {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree
}

// Colors returns the flattened color set.
func (m *Manager) Colors() *ColorSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set
}

// Handle returns the stylesheet handle compiled styles attach to, or "".
func (m *Manager) Handle() string {
	return m.Tree().Stylesheet
}

// Stylesheet returns the compiled stylesheet through the style cache.
func (m *Manager) Stylesheet() (string, error) {
	m.saveMu.RLock()
	defer m.saveMu.RUnlock()
	return m.cache.GetOrCompile(m.Colors(), m.values)
}

// Head returns the compiled stylesheet rendered for the page head.
func (m *Manager) Head() (string, error) {
	css, err := m.Stylesheet()
	if err != nil {
		return "", err
	}
	return Render(m.Handle(), css), nil
}

// PreviewTemplates builds the live preview templates. The cache is not used.
func (m *Manager) PreviewTemplates() (*Templates, error) {
	return BuildPreviewTemplates(m.Colors())
}

// Preview renders the rules of colorID for an unsaved value.
func (m *Manager) Preview(colorID, value string) (string, error) {
	def, ok := m.Colors().Get(colorID)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, colorID)
	}
	value, err := SanitizeHexColor(value)
	if err != nil {
		return "", err
	}
	if value == "" {
		value = def.Default
	}
	tmpl, err := PreviewTemplate(def)
	if err != nil {
		return "", err
	}
	return ApplyPreview(tmpl, value), nil
}

// Value resolves the current value of colorID.
func (m *Manager) Value(colorID string) (string, error) {
	def, ok := m.Colors().Get(colorID)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, colorID)
	}
	return Resolve(m.values, def)
}

// Values resolves every color, keyed by color id.
func (m *Manager) Values() (map[string]string, error) {
	set := m.Colors()
	out := make(map[string]string, set.Len())
	for _, def := range set.All() {
		v, err := Resolve(m.values, def)
		if err != nil {
			return nil, err
		}
		out[def.ID] = v
	}
	return out, nil
}

// SetValue sanitizes and persists value for colorID, then fires the save
// event. An empty value removes the override.
func (m *Manager) SetValue(colorID, value string) error {
	if _, ok := m.Colors().Get(colorID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColor, colorID)
	}
	clean, err := SanitizeHexColor(value)
	if err != nil {
		return err
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	if clean == "" {
		return m.resetLocked(colorID)
	}

	key := SettingKey(colorID)
	if err := m.values.Set(key, clean); err != nil {
		return &ResolveError{ColorID: colorID, Key: key, Err: err}
	}
	m.logger.Info("saved color", "id", colorID, "value", clean)
	return m.cache.Invalidate()
}

// ResetValue removes the override of colorID and fires the save event.
func (m *Manager) ResetValue(colorID string) error {
	if _, ok := m.Colors().Get(colorID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColor, colorID)
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	return m.resetLocked(colorID)
}

func (m *Manager) resetLocked(colorID string) error {
	key := SettingKey(colorID)
	if err := m.values.Delete(key); err != nil {
		return &ResolveError{ColorID: colorID, Key: key, Err: err}
	}
	m.logger.Info("reset color", "id", colorID)
	return m.cache.Invalidate()
}

// Saved handles a configuration save event by busting the style cache. It
// waits for in-flight compiles so none of them can store a stale stylesheet
// after the entry is dropped.
func (m *Manager) Saved() error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	return m.cache.Invalidate()
}
