package coloration

import (
	"github.com/taigrr/lodviz/pkg/lod"
	"github.com/taigrr/lodviz/pkg/render"
	"github.com/taigrr/lodviz/pkg/scene"
)

// qualityUpdate tags the renderers of each group's selected band. Other
// bands keep whatever tag they had.
func qualityUpdate(snap *Snapshot, c lod.Classifier, cam lod.Camera) FrameStats {
	var stats FrameStats
	for _, entry := range snap.Groups {
		level, ok := entry.classify(c, cam)
		if !ok {
			stats.Stale++
			continue
		}
		stats.Groups++

		color, ok := snap.Palette.At(level)
		if !ok {
			Logger().Debug("skip group", "group", entry.Group.Name(), "group_id", entry.Group.ID(), "band", level, "err", ErrPaletteIndex)
			stats.Skipped++
			continue
		}
		for _, r := range entry.Bands[level].Renderers {
			if !scene.Live(r) {
				stats.Stale++
				continue
			}
			r.SetOverride(render.ColorProperty, color)
			stats.Tagged++
		}
	}
	return stats
}
