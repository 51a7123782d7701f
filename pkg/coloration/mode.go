package coloration

import (
	"fmt"
	"strings"
)

// Mode selects how LOD bands are visualized.
type Mode int

const (
	// Performance tags every renderer once per Generate with its band color.
	Performance Mode = iota
	// Quality re-tags the renderers of each group's selected band every
	// frame.
	Quality
	// SafeMode leaves renderers untouched and draws overlay copies of the
	// selected band's meshes every frame.
	SafeMode
)

// Modes lists every mode in order.
var Modes = []Mode{Performance, Quality, SafeMode}

// String returns the display name.
func (m Mode) String() string {
	switch m {
	case Performance:
		return "Performance"
	case Quality:
		return "Quality"
	case SafeMode:
		return "SafeMode"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= Performance && m <= SafeMode
}

// ParseMode parses a mode name, ignoring case, dashes and spaces.
func ParseMode(s string) (Mode, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	switch key {
	case "performance":
		return Performance, nil
	case "quality":
		return Quality, nil
	case "safemode", "safe":
		return SafeMode, nil
	}
	return Performance, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
