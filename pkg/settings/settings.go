package settings

import (
	"fmt"
	"strconv"

	"github.com/taigrr/lodviz/pkg/coloration"
	"github.com/taigrr/lodviz/pkg/palette"
)

const (
	// KeyMode holds the mode as an int.
	KeyMode = "lodviz.mode"

	colorKeyPrefix = "lodviz.color."
)

// ColorKey returns the key holding palette entry i as RRGGBBAA.
func ColorKey(i int) string {
	return colorKeyPrefix + strconv.Itoa(i)
}

// Settings is the persisted selection.
type Settings struct {
	Mode   coloration.Mode
	Colors palette.Palette // nil when no color was ever stored
}

// Load reads the mode and the first length palette entries. A missing or
// unknown mode reads as Performance. Colors is nil unless at least one
// entry is stored; missing or malformed entries read as transparent black.
// A negative length reads no colors.
func Load(p Prefs, length int) Settings {
	var s Settings
	if p.HasKey(KeyMode) {
		m := coloration.Mode(p.Int(KeyMode, int(coloration.Performance)))
		if m.Valid() {
			s.Mode = m
		} else {
			coloration.Logger().Debug("unknown stored mode", "mode", int(m))
		}
	}

	length = max(length, 0)
	colors := make(palette.Palette, length)
	found := false
	for i := range colors {
		key := ColorKey(i)
		if !p.HasKey(key) {
			continue
		}
		found = true
		raw := p.String(key, "")
		c, err := palette.ParseHex(raw)
		if err != nil {
			coloration.Logger().Debug("stored color", "key", key, "err", fmt.Errorf("%w: %v", coloration.ErrMalformedColor, err))
		}
		colors[i] = c
	}
	if found {
		s.Colors = colors
	}
	return s
}

// Save writes mode and colors and flushes the store.
func Save(p Prefs, mode coloration.Mode, colors palette.Palette) error {
	if !mode.Valid() {
		return fmt.Errorf("save settings: %w: %d", coloration.ErrInvalidMode, int(mode))
	}
	p.SetInt(KeyMode, int(mode))
	for i, c := range colors {
		p.SetString(ColorKey(i), palette.EncodeHex(c))
	}
	if err := p.Save(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Reset restores Performance and the default palette, removing stored
// entries beyond its length up to length.
func Reset(p Prefs, length int) (Settings, error) {
	def := palette.Default()
	for i := len(def); i < length; i++ {
		p.DeleteKey(ColorKey(i))
	}
	if err := Save(p, coloration.Performance, def); err != nil {
		return Settings{}, fmt.Errorf("reset settings: %w", err)
	}
	return Settings{Mode: coloration.Performance, Colors: def}, nil
}

// Store adapts a Prefs to coloration.SettingsStore.
type Store struct {
	Prefs Prefs
}

// Save implements coloration.SettingsStore.
func (s Store) Save(mode coloration.Mode, colors palette.Palette) error {
	return Save(s.Prefs, mode, colors)
}
