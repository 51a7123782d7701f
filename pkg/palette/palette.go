// Package palette holds the band colors of the LOD overlay and their
// persisted hex form.
package palette

import (
	"image/color"
	"slices"
)

// Palette is an ordered list of colors, one per LOD band index. Its length
// need not match any group's band count.
type Palette []color.RGBA

// Default returns the stock palette: grey for band 0, then red, green, blue,
// cyan, magenta, yellow and black.
func Default() Palette {
	return Palette{
		{128, 128, 128, 255},
		{255, 0, 0, 255},
		{0, 255, 0, 255},
		{0, 0, 255, 255},
		{0, 255, 255, 255},
		{255, 0, 255, 255},
		{255, 235, 4, 255},
		{0, 0, 0, 255},
	}
}

// At returns the color for band i. ok is false when i is outside the
// palette; callers skip the band rather than substitute a color.
func (p Palette) At(i int) (c color.RGBA, ok bool) {
	if i < 0 || i >= len(p) {
		return color.RGBA{}, false
	}
	return p[i], true
}

// Clamp returns the color for band i, using the nearest end of the palette
// when i is out of range. ok is false only for an empty palette.
func (p Palette) Clamp(i int) (c color.RGBA, ok bool) {
	if len(p) == 0 {
		return color.RGBA{}, false
	}
	return p[min(max(i, 0), len(p)-1)], true
}

// Clone returns a copy that shares no storage with p.
func (p Palette) Clone() Palette {
	return slices.Clone(p)
}

// Equal reports whether p and q hold the same colors in the same order.
func (p Palette) Equal(q Palette) bool {
	return slices.Equal(p, q)
}
