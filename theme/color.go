package theme

import (
	"fmt"
	"math"
	"regexp"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DarkLimit is the default brightness threshold used by IsColorDark.
const DarkLimit = 130

var hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{3}){1,2}$`)

// SanitizeHexColor accepts "", #rgb and #rrggbb. The empty string clears an
// override.
func SanitizeHexColor(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if !hexColorPattern.MatchString(value) {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, value)
	}
	return value, nil
}

// IsColorDark reports whether the perceived brightness of hex is below limit,
// on a 0-255 scale. Themes use it to pick contrasting text colors.
func IsColorDark(hex string, limit float64) (bool, error) {
	if _, err := SanitizeHexColor(hex); err != nil || hex == "" {
		return false, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	r, g, b := c.RGB255()
	rf, gf, bf := float64(r), float64(g), float64(b)
	contrast := math.Sqrt(rf*rf*.241 + gf*gf*.691 + bf*bf*.068)
	return contrast < limit, nil
}
