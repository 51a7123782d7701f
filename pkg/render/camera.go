package render

import (
	"math"

	"github.com/taigrr/lodviz/pkg/math3d"
)

// Camera represents a 3D camera with position and orientation.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation (Euler angles in radians)
	Pitch float64 // Rotation around X axis (look up/down)
	Yaw   float64 // Rotation around Y axis (look left/right)

	// Projection parameters
	FOV              float64 // Vertical field of view in radians
	AspectRatio      float64 // Width / Height
	Near             float64 // Near clipping plane
	Far              float64 // Far clipping plane
	Orthographic     bool    // Parallel projection instead of perspective
	OrthographicSize float64 // Half of the visible height in orthographic mode

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	viewProjStale  bool
}

// NewCamera creates a new perspective camera with default settings.
func NewCamera() *Camera {
	return &Camera{
		Position:         math3d.V3(0, 10, 0),
		FOV:              math.Pi / 3, // 60 degrees
		AspectRatio:      16.0 / 9.0,
		Near:             0.1,
		Far:              1000,
		OrthographicSize: 5,
		viewDirty:        true,
		projDirty:        true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetFOV sets the field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// FieldOfViewDegrees returns the vertical field of view in degrees.
func (c *Camera) FieldOfViewDegrees() float64 {
	return c.FOV * 180 / math.Pi
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// SetOrthographic switches between perspective and orthographic projection.
// size is half of the visible height.
func (c *Camera) SetOrthographic(ortho bool, size float64) {
	c.Orthographic = ortho
	c.OrthographicSize = size
	c.projDirty = true
}

// Forward returns the forward direction vector.
func (c *Camera) Forward() math3d.Vec3 {
	// Forward is -Z in camera space, rotated by yaw and pitch
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.computeViewMatrix()
		c.viewDirty = false
		c.viewProjStale = true
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.computeProjectionMatrix()
		c.projDirty = false
		c.viewProjStale = true
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	proj, view := c.ProjectionMatrix(), c.ViewMatrix()
	if c.viewProjStale {
		c.viewProjMatrix = proj.Mul(view)
		c.viewProjStale = false
	}
	return c.viewProjMatrix
}

func (c *Camera) computeViewMatrix() {
	// View = Rotation * Translation(-position)
	rot := math3d.RotateX(-c.Pitch).Mul(math3d.RotateY(-c.Yaw))
	trans := math3d.Translate(c.Position.Negate())
	c.viewMatrix = rot.Mul(trans)
}

func (c *Camera) computeProjectionMatrix() {
	if c.Orthographic {
		h := c.OrthographicSize
		w := h * c.AspectRatio
		c.projMatrix = math3d.Orthographic(-w, w, -h, h, c.Near, c.Far)
		return
	}
	c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
}

// LookAt makes the camera look at a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()

	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)

	c.viewDirty = true
}
