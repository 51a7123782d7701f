package coloration

import (
	"github.com/taigrr/lodviz/pkg/render"
	"github.com/taigrr/lodviz/pkg/scene"
)

// performanceStart tags every renderer of every band with that band's
// color, clamped to the palette. It returns the number of renderers tagged.
func performanceStart(snap *Snapshot) int {
	tagged := 0
	for _, entry := range snap.Groups {
		for level, band := range entry.Bands {
			c, ok := snap.Palette.Clamp(level)
			if !ok {
				continue
			}
			for _, r := range band.Renderers {
				if !scene.Live(r) {
					Logger().Debug("skip renderer", "group", entry.Group.Name(), "group_id", entry.Group.ID(), "band", level, "err", ErrStaleReference)
					continue
				}
				r.SetOverride(render.ColorProperty, c)
				tagged++
			}
		}
	}
	return tagged
}
