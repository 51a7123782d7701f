package coloration

import (
	"github.com/taigrr/lodviz/pkg/lod"
	"github.com/taigrr/lodviz/pkg/render"
	"github.com/taigrr/lodviz/pkg/scene"
)

const unclassified = -2

// safeModeUpdate refreshes moved sources, classifies each group once and
// draws the entities whose band is the selected one.
func safeModeUpdate(snap *Snapshot, c lod.Classifier, cam lod.Camera, d Drawer, mat *render.Material) FrameStats {
	var stats FrameStats

	for i := range snap.Sources {
		src := &snap.Sources[i]
		if scene.Live(src.Transform) && src.Transform.ConsumeChanged() {
			src.Matrix = worldMatrix(src.Transform)
		}
	}

	levels := make([]int, len(snap.Groups))
	for i := range levels {
		levels[i] = unclassified
	}

	for _, ent := range snap.Entities {
		level := levels[ent.Group]
		if level == unclassified {
			var ok bool
			if level, ok = snap.Groups[ent.Group].classify(c, cam); !ok {
				level = -1
			} else {
				stats.Groups++
			}
			levels[ent.Group] = level
		}
		if level < 0 {
			stats.Stale++
			continue
		}
		if level != ent.Level {
			continue
		}
		if !scene.Live(snap.Sources[ent.Source].Transform) {
			stats.Stale++
			continue
		}

		color, ok := snap.Palette.At(level)
		if !ok {
			g := snap.Groups[ent.Group].Group
			Logger().Debug("skip entity", "group", g.Name(), "group_id", g.ID(), "band", level, "err", ErrPaletteIndex)
			stats.Skipped++
			continue
		}
		d.DrawMesh(ent.Mesh, snap.Sources[ent.Source].Matrix, mat, render.PropertyBlock{render.ColorProperty: color})
		stats.Drawn++
	}
	return stats
}
