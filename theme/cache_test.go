package theme

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"themepainter/model"
)

type mapStore struct {
	mu      sync.Mutex
	rows    map[string]string
	gets    int
	failGet error
	failSet error
	failDel error
}

func newMapStore() *mapStore {
	return &mapStore{rows: map[string]string{}}
}

func (s *mapStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.failGet != nil {
		return "", false, s.failGet
	}
	v, ok := s.rows[key]
	return v, ok, nil
}

func (s *mapStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSet != nil {
		return s.failSet
	}
	s.rows[key] = value
	return nil
}

func (s *mapStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDel != nil {
		return s.failDel
	}
	delete(s.rows, key)
	return nil
}

func sampleSet() *ColorSet {
	return Flatten(&model.ConfigTree{
		Colors: model.Colors{
			{ID: "text", Default: "#000000", Selectors: model.Strings{"a", "b"}, Attributes: model.Strings{"color", "background"}},
			{ID: "link", Default: "#000", Selectors: model.Strings{"a"}, Attributes: model.Strings{"color"}, Important: model.Bools{true}},
		},
	})
}

func TestGetOrCompile(t *testing.T) {
	t.Parallel()

	values := newMapStore()
	values.rows[SettingKey("text")] = "#ffffff"
	values.rows[SettingKey("link")] = "#000"
	cache := NewStyleCache(newMapStore())

	css, err := cache.GetOrCompile(sampleSet(), values)
	require.NoError(t, err)
	assert.Equal(t, "a{color:#ffffff}b{background:#ffffff}", css)
}

func TestGetOrCompileIdempotent(t *testing.T) {
	t.Parallel()

	values := newMapStore()
	values.rows[SettingKey("link")] = "#fff"
	cache := NewStyleCache(newMapStore())
	set := sampleSet()

	first, err := cache.GetOrCompile(set, values)
	require.NoError(t, err)
	second, err := cache.GetOrCompile(set, values)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "a{color:#fff!important}", first)
}

func TestGetOrCompileReturnsStaleUntilInvalidated(t *testing.T) {
	t.Parallel()

	values := newMapStore()
	values.rows[SettingKey("link")] = "#fff"
	cache := NewStyleCache(newMapStore())
	set := sampleSet()

	before, err := cache.GetOrCompile(set, values)
	require.NoError(t, err)

	values.rows[SettingKey("link")] = "#123"
	stale, err := cache.GetOrCompile(set, values)
	require.NoError(t, err)
	assert.Equal(t, before, stale)

	require.NoError(t, cache.Invalidate())
	fresh, err := cache.GetOrCompile(set, values)
	require.NoError(t, err)
	assert.Equal(t, "a{color:#123!important}", fresh)
}

func TestGetOrCompileEmptySet(t *testing.T) {
	t.Parallel()

	store := newMapStore()
	cache := NewStyleCache(store)

	css, err := cache.GetOrCompile(NewColorSet(), newMapStore())
	require.NoError(t, err)
	assert.Empty(t, css)
	assert.Zero(t, store.gets)
}

func TestGetOrCompileStoreFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	values := newMapStore()
	values.failGet = boom
	_, err := NewStyleCache(newMapStore()).GetOrCompile(sampleSet(), values)
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.ErrorIs(t, err, boom)

	var re *ResolveError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "text", re.ColorID)

	cacheStore := newMapStore()
	cacheStore.failGet = boom
	_, err = NewStyleCache(cacheStore).GetOrCompile(sampleSet(), newMapStore())
	require.ErrorIs(t, err, ErrStoreUnavailable)

	cacheStore = newMapStore()
	cacheStore.failSet = boom
	_, err = NewStyleCache(cacheStore).GetOrCompile(sampleSet(), newMapStore())
	require.ErrorIs(t, err, boom)

	cacheStore = newMapStore()
	cacheStore.failDel = boom
	require.ErrorIs(t, NewStyleCache(cacheStore).Invalidate(), ErrStoreUnavailable)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	def := model.ColorDefinition{ID: "Header-BG", Default: "#000"}
	store := newMapStore()

	v, err := Resolve(store, def)
	require.NoError(t, err)
	assert.Equal(t, "#000", v)

	store.rows["setting_header-bg"] = "#abcdef"
	v, err = Resolve(store, def)
	require.NoError(t, err)
	assert.Equal(t, "#abcdef", v)

	store.rows["setting_header-bg"] = "not validated"
	v, err = Resolve(store, def)
	require.NoError(t, err)
	assert.Equal(t, "not validated", v)
}

func TestSettingKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "setting_link", SettingKey("link"))
	assert.Equal(t, "setting_site_title-color", SettingKey("site_title-color"))
	assert.Equal(t, "setting_headerbg", SettingKey("Header BG"))
}
