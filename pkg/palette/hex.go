package palette

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// EncodeHex formats c as eight uppercase hex digits, RRGGBBAA.
func EncodeHex(c color.RGBA) string {
	return fmt.Sprintf("%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// DecodeHex parses an HTML-style hex color with an optional leading '#'.
// RGB, RGBA, RRGGBB and RRGGBBAA are accepted; short forms repeat each digit
// and missing alpha is opaque. Malformed input yields transparent black.
func DecodeHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		return color.RGBA{}
	}
	return c
}

// ParseHex is DecodeHex with the parse error reported.
func ParseHex(s string) (color.RGBA, error) {
	digits := strings.TrimPrefix(s, "#")

	var width int
	switch len(digits) {
	case 3, 4:
		width = 1
	case 6, 8:
		width = 2
	default:
		return color.RGBA{}, fmt.Errorf("parse color %q: want 3, 4, 6 or 8 hex digits", s)
	}

	channels := [4]uint8{0, 0, 0, 255}
	for i := 0; i*width < len(digits); i++ {
		part := digits[i*width : (i+1)*width]
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		if width == 1 {
			v *= 0x11
		}
		channels[i] = uint8(v)
	}

	return color.RGBA{channels[0], channels[1], channels[2], channels[3]}, nil
}
