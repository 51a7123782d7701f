package coloration

import (
	"errors"

	"github.com/taigrr/lodviz/pkg/lod"
	"github.com/taigrr/lodviz/pkg/math3d"
	"github.com/taigrr/lodviz/pkg/models"
	"github.com/taigrr/lodviz/pkg/palette"
	"github.com/taigrr/lodviz/pkg/scene"
)

// GroupEntry is one discovered LOD group with its bands as they were at
// discovery time.
type GroupEntry struct {
	Group      *scene.LODGroup
	Bands      []scene.Band
	Thresholds []float64
}

// Source is a transform drawn by SafeMode entities and its cached
// local-to-world matrix.
type Source struct {
	Transform *scene.Transform
	Matrix    math3d.Mat4
}

// Entity is the cached drawable state of one (group, band, renderer) triple.
type Entity struct {
	Mesh   *models.Mesh
	Group  int // Index into Snapshot.Groups
	Level  int // Band index the renderer belongs to
	Source int // Index into Snapshot.Sources
}

// Snapshot is the engine's view of the scene. It is rebuilt wholesale by
// Generate and never patched.
type Snapshot struct {
	Mode     Mode
	Palette  palette.Palette
	Groups   []GroupEntry
	Sources  []Source
	Entities []Entity
}

// discover builds a snapshot from the groups the scene reports. Destroyed
// groups and groups without bands are left out.
func discover(mode Mode, colors palette.Palette, groups []*scene.LODGroup) *Snapshot {
	snap := &Snapshot{Mode: mode, Palette: colors}
	for _, g := range groups {
		if !scene.Live(g) || !scene.Live(g.Transform()) {
			Logger().Debug("skip group", "err", ErrStaleReference)
			continue
		}
		bands := g.Bands()
		thresholds := g.Thresholds()
		if err := lod.Validate(lod.Group{Thresholds: thresholds}); err != nil {
			if errors.Is(err, lod.ErrNoBands) {
				Logger().Debug("skip group", "group", g.Name(), "group_id", g.ID(), "err", err)
				continue
			}
			Logger().Debug("group thresholds out of order", "group", g.Name(), "group_id", g.ID(), "thresholds", thresholds)
		}
		snap.Groups = append(snap.Groups, GroupEntry{Group: g, Bands: bands, Thresholds: thresholds})
	}
	return snap
}

// flatten adds an entity for every live renderer with a mesh. Renderers
// sharing a transform share one Source.
func (s *Snapshot) flatten() {
	sources := make(map[*scene.Transform]int)
	for gi, entry := range s.Groups {
		for level, band := range entry.Bands {
			for _, r := range band.Renderers {
				if !scene.Live(r) || !scene.Live(r.Transform()) {
					continue
				}
				mesh := r.Mesh()
				if mesh == nil {
					continue
				}
				t := r.Transform()
				src, ok := sources[t]
				if !ok {
					src = len(s.Sources)
					sources[t] = src
					s.Sources = append(s.Sources, Source{Transform: t, Matrix: worldMatrix(t)})
				}
				s.Entities = append(s.Entities, Entity{Mesh: mesh, Group: gi, Level: level, Source: src})
			}
		}
	}
}

// worldMatrix composes the world position, rotation and lossy scale.
func worldMatrix(t *scene.Transform) math3d.Mat4 {
	return math3d.TRS(t.Position(), t.Rotation(), t.LossyScale())
}

// classify returns the band the host would select for entry, or false when
// the group or its transform is gone.
func (e GroupEntry) classify(c lod.Classifier, cam lod.Camera) (int, bool) {
	if !scene.Live(e.Group) || !scene.Live(e.Group.Transform()) {
		return 0, false
	}
	return c.SelectBand(cam, e.Group.Classification(e.Thresholds)), true
}
