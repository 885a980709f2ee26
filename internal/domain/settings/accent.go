package settings

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned for colors that are not #RRGGBB hex
var ErrInvalidColor = errors.New("accent color must be a #RRGGBB hex value")

// pressedShadeOffset is subtracted from each channel for the pressed shade
const pressedShadeOffset = 50

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// NormalizeColor validates a #RRGGBB color and returns it upper-cased
func NormalizeColor(hex string) (string, error) {
	hex = strings.TrimSpace(hex)
	if !hexColorPattern.MatchString(hex) {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return strings.ToUpper(hex), nil
}

// AccentDark derives the pressed shade of an accent color by subtracting 50
// from each channel, clamped at zero, formatted as "rgb(r, g, b)".
func AccentDark(hex string) (string, error) {
	normalized, err := NormalizeColor(hex)
	if err != nil {
		return "", err
	}
	c, err := colorful.Hex(normalized)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}

	r, g, b := c.RGB255()
	return fmt.Sprintf("rgb(%d, %d, %d)", darken(r), darken(g), darken(b)), nil
}

func darken(channel uint8) int {
	return max(0, int(channel)-pressedShadeOffset)
}
