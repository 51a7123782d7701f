// Package lod selects which level-of-detail band a group displays for a given
// camera, using the screen-relative height heuristic of the host renderer.
package lod

import (
	"errors"
	"math"

	"github.com/taigrr/lodviz/pkg/math3d"
)

var (
	// ErrNoBands is returned by Validate for a group without bands.
	ErrNoBands = errors.New("lod: group has no bands")
	// ErrThresholdOrder is returned by Validate when a band threshold is
	// larger than the one before it.
	ErrThresholdOrder = errors.New("lod: thresholds are not non-increasing")
)

// Camera is the per-call camera state used for classification.
type Camera struct {
	Position         math3d.Vec3
	FieldOfView      float64 // Vertical field of view in degrees
	Orthographic     bool
	OrthographicSize float64 // Half of the vertical view height
}

// Group is the world-space view of a LOD group needed to classify it.
type Group struct {
	ReferencePoint math3d.Vec3 // World-space reference point
	LossyScale     math3d.Vec3 // World-space scale of the group transform
	Size           float64     // Configured local size
	Thresholds     []float64   // Screen-relative heights, band 0 first
}

// Validate reports whether g can be classified.
func Validate(g Group) error {
	if len(g.Thresholds) == 0 {
		return ErrNoBands
	}
	for i := 1; i < len(g.Thresholds); i++ {
		if g.Thresholds[i] > g.Thresholds[i-1] {
			return ErrThresholdOrder
		}
	}
	return nil
}

// Classifier mirrors the host's LOD selection. Bias is the host's global LOD
// quality multiplier; values above 1 keep detailed bands longer. It goes
// through the host arithmetic unchanged: a zero or negative bias makes the
// height non-positive and selects the last band.
type Classifier struct {
	Bias float64
}

// NewClassifier creates a classifier with the given LOD bias.
func NewClassifier(bias float64) Classifier {
	return Classifier{Bias: bias}
}

// SelectBand returns the index of the first band whose threshold is at or
// below the group's relative height, or the last band when none is. It
// returns -1 for a group without bands.
func (c Classifier) SelectBand(cam Camera, g Group) int {
	n := len(g.Thresholds)
	if n == 0 {
		return -1
	}

	h, ok := relativeHeight(cam, g, c.Bias)
	if !ok {
		// Camera on the reference point or a degenerate ortho size
		return 0
	}

	for i, threshold := range g.Thresholds {
		if h >= threshold {
			return i
		}
	}
	return n - 1
}

// RelativeHeight returns the projected height of g as a fraction of the view
// height. Degenerate inputs report +Inf, which selects the first band.
func RelativeHeight(cam Camera, g Group, bias float64) float64 {
	h, ok := relativeHeight(cam, g, bias)
	if !ok {
		return math.Inf(1)
	}
	return h
}

func relativeHeight(cam Camera, g Group, bias float64) (float64, bool) {
	// Scale by the dominant axis so non-uniform transforms stay conservative
	size := g.Size * g.LossyScale.MaxAbs()

	if cam.Orthographic {
		if cam.OrthographicSize <= 0 {
			return 0, false
		}
		return size * 0.5 / cam.OrthographicSize, true
	}

	distance := g.ReferencePoint.Distance(cam.Position)
	if !(distance > 0) {
		return 0, false
	}
	halfAngle := math.Tan(cam.FieldOfView * math.Pi / 180 * 0.5)
	return size * 0.5 / ((distance / bias) * halfAngle), true
}
