package theme

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable marks a failed read or write against a value or
	// cache store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrFieldMismatch is returned when a paired sequence is shorter than the
	// selector list it pairs with.
	ErrFieldMismatch = errors.New("paired field shorter than selectors")
	// ErrInvalidColor is returned by SanitizeHexColor for values that are not
	// empty, #rgb or #rrggbb.
	ErrInvalidColor = errors.New("invalid hex color")
	// ErrUnknownColor is returned when a color id is not in the flattened set.
	ErrUnknownColor = errors.New("unknown color")
)

// ResolveError reports a store failure while resolving or persisting a color.
type ResolveError struct {
	ColorID string
	Key     string
	Err     error
}

func (e *ResolveError) Error() string {
	if e.ColorID == "" {
		return fmt.Sprintf("%s: key %q: %v", ErrStoreUnavailable, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: color %q (key %q): %v", ErrStoreUnavailable, e.ColorID, e.Key, e.Err)
}

func (e *ResolveError) Unwrap() []error { return []error{ErrStoreUnavailable, e.Err} }

// DefinitionError reports a color definition that cannot be compiled.
type DefinitionError struct {
	ColorID string
	Field   string
	Index   int
	Err     error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("color %q: %s[%d]: %v", e.ColorID, e.Field, e.Index, e.Err)
}

func (e *DefinitionError) Unwrap() error { return e.Err }
