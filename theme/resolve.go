package theme

import (
	"strings"

	"themepainter/model"
)

// SettingPrefix is prepended to a sanitized color id to form its store key.
const SettingPrefix = "setting_"

// SettingKey returns the value-store key for a color id.
func SettingKey(colorID string) string {
	return SettingPrefix + SanitizeKey(colorID)
}

// SanitizeKey lowercases key and drops everything except a-z, 0-9, '_' and '-'.
func SanitizeKey(key string) string {
	key = strings.ToLower(key)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return -1
		}
	}, key)
}

// Resolve returns the persisted value for def, or def.Default when the store
// has none. Values are not validated here.
func Resolve(store ValueStore, def model.ColorDefinition) (string, error) {
	key := SettingKey(def.ID)
	if store == nil {
		return def.Default, nil
	}
	value, ok, err := store.Get(key)
	if err != nil {
		return "", &ResolveError{ColorID: def.ID, Key: key, Err: err}
	}
	if !ok {
		return def.Default, nil
	}
	return value, nil
}
