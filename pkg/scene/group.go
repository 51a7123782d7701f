package scene

import (
	"github.com/google/uuid"
	"github.com/taigrr/lodviz/pkg/lod"
	"github.com/taigrr/lodviz/pkg/math3d"
)

// Band is one LOD level of a group.
type Band struct {
	ScreenRelativeHeight float64
	Renderers            []*Renderer
}

// LODGroup switches between bands of renderers by screen size.
type LODGroup struct {
	base

	transform *Transform
	reference math3d.Vec3 // Local reference point
	size      float64
	bands     []Band
}

// ID returns the group's identity.
func (g *LODGroup) ID() uuid.UUID { return g.id }

// Alive reports whether the group exists.
func (g *LODGroup) Alive() bool { return g != nil && !g.destroyed }

// Name returns the group's name.
func (g *LODGroup) Name() string { return g.name }

// Transform returns the group's transform.
func (g *LODGroup) Transform() *Transform { return g.transform }

// LocalReferencePoint returns the point distances are measured to, in the
// group's local space.
func (g *LODGroup) LocalReferencePoint() math3d.Vec3 { return g.reference }

// SetLocalReferencePoint moves the reference point.
func (g *LODGroup) SetLocalReferencePoint(p math3d.Vec3) { g.reference = p }

// Size returns the configured local size.
func (g *LODGroup) Size() float64 { return g.size }

// SetSize changes the configured local size.
func (g *LODGroup) SetSize(s float64) { g.size = s }

// BandCount returns the number of bands.
func (g *LODGroup) BandCount() int { return len(g.bands) }

// Bands returns a copy of the bands.
func (g *LODGroup) Bands() []Band {
	out := make([]Band, len(g.bands))
	for i, b := range g.bands {
		out[i] = Band{
			ScreenRelativeHeight: b.ScreenRelativeHeight,
			Renderers:            append([]*Renderer(nil), b.Renderers...),
		}
	}
	return out
}

// SetBands replaces the bands. It is a structural change.
func (g *LODGroup) SetBands(bands []Band) {
	g.bands = nil
	for _, b := range bands {
		g.bands = append(g.bands, Band{
			ScreenRelativeHeight: b.ScreenRelativeHeight,
			Renderers:            append([]*Renderer(nil), b.Renderers...),
		})
	}
	g.scene.notify()
}

// Thresholds returns the band thresholds in order.
func (g *LODGroup) Thresholds() []float64 {
	out := make([]float64, len(g.bands))
	for i, b := range g.bands {
		out[i] = b.ScreenRelativeHeight
	}
	return out
}

// Classification returns the group in world space for the given
// thresholds. The transform must be live.
func (g *LODGroup) Classification(thresholds []float64) lod.Group {
	return lod.Group{
		ReferencePoint: g.transform.TransformPoint(g.reference),
		LossyScale:     g.transform.LossyScale(),
		Size:           g.size,
		Thresholds:     thresholds,
	}
}
