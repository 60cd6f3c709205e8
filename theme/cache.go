package theme

import (
	"strings"

	"github.com/charmbracelet/log"
)

// CacheKey is the fixed cache-store key of the compiled stylesheet.
const CacheKey = "compiled_styles"

// StyleCache memoizes the compiled stylesheet in a CacheStore. The entry
// lives until Invalidate is called; there is no expiry.
type StyleCache struct {
	store  CacheStore
	logger *log.Logger
}

// NewStyleCache creates a cache backed by store.
func NewStyleCache(store CacheStore) *StyleCache {
	return &StyleCache{
		store:  store,
		logger: log.WithPrefix("cache"),
	}
}

// GetOrCompile returns the cached stylesheet, compiling and storing it first
// when the cache is empty. A cached entry is returned as is, even if values
// changed since it was stored.
func (c *StyleCache) GetOrCompile(set *ColorSet, values ValueStore) (string, error) {
	if set.Len() == 0 {
		return "", nil
	}

	cached, ok, err := c.store.Get(CacheKey)
	if err != nil {
		return "", &ResolveError{Key: CacheKey, Err: err}
	}
	if ok {
		return cached, nil
	}

	css, err := CompileStylesheet(set, values)
	if err != nil {
		return "", err
	}

	if err := c.store.Set(CacheKey, css); err != nil {
		return "", &ResolveError{Key: CacheKey, Err: err}
	}
	c.logger.Debug("compiled stylesheet", "colors", set.Len(), "bytes", len(css))
	return css, nil
}

// Invalidate drops the cached stylesheet. Call it on every configuration save.
func (c *StyleCache) Invalidate() error {
	if err := c.store.Delete(CacheKey); err != nil {
		return &ResolveError{Key: CacheKey, Err: err}
	}
	c.logger.Debug("invalidated stylesheet")
	return nil
}

// CompileStylesheet resolves and compiles every color of set, bypassing any
// cache. Rules are concatenated without a separator.
func CompileStylesheet(set *ColorSet, values ValueStore) (string, error) {
	var b strings.Builder
	for _, def := range set.All() {
		value, err := Resolve(values, def)
		if err != nil {
			return "", err
		}
		rules, err := CompileRules(def, value)
		if err != nil {
			return "", err
		}
		for _, rule := range rules {
			b.WriteString(rule)
		}
	}
	return b.String(), nil
}
