// Package sceneview is the host viewport: it renders a scene through a
// software camera, honors the replacement shader of the active camera mode
// and draws queued overlay meshes on top.
package sceneview

import (
	"github.com/taigrr/lodviz/pkg/coloration"
	"github.com/taigrr/lodviz/pkg/lod"
	"github.com/taigrr/lodviz/pkg/math3d"
	"github.com/taigrr/lodviz/pkg/models"
	"github.com/taigrr/lodviz/pkg/render"
	"github.com/taigrr/lodviz/pkg/scene"
)

// ShadedMode is the default camera mode.
const ShadedMode = "Shaded"

// overlayDepthBias lets overlay copies win against the coplanar surfaces
// they were drawn from.
const overlayDepthBias = 1e-5

// CameraModes lists the modes the view cycles through.
func CameraModes() []string {
	return []string{ShadedMode, coloration.ViewModeName}
}

type overlayDraw struct {
	mesh     *models.Mesh
	matrix   math3d.Mat4
	material *render.Material
	block    render.PropertyBlock
}

// Stats describes the last frame.
type Stats struct {
	Renderers int // Scene renderers drawn
	Overlays  int // Overlay meshes drawn
	Engine    coloration.FrameStats
}

// View renders a scene. It implements coloration.View and coloration.Drawer.
type View struct {
	Scene      *scene.Scene
	Camera3D   *render.Camera
	Background render.Color
	LightDir   math3d.Vec3

	fb         *render.Framebuffer
	rasterizer *render.Rasterizer

	cameraMode  string
	replacement *render.Shader
	overlay     []overlayDraw
	repaint     bool
	stats       Stats
}

// New creates a view of s with a width x height framebuffer.
func New(s *scene.Scene, cam *render.Camera, width, height int) *View {
	v := &View{
		Scene:      s,
		Camera3D:   cam,
		Background: render.RGB(30, 30, 40),
		LightDir:   math3d.V3(0.5, 1, 0.3).Normalize(),
		cameraMode: ShadedMode,
	}
	v.Resize(width, height)
	return v
}

// Resize replaces the framebuffer and updates the camera aspect ratio.
func (v *View) Resize(width, height int) {
	v.fb = render.NewFramebuffer(width, height)
	v.rasterizer = render.NewRasterizer(v.Camera3D, v.fb)
	if height > 0 {
		v.Camera3D.SetAspectRatio(float64(width) / float64(height))
	}
}

// Framebuffer returns the target of the last frame.
func (v *View) Framebuffer() *render.Framebuffer { return v.fb }

// Stats returns counters for the last frame.
func (v *View) Stats() Stats { return v.stats }

// CameraMode implements coloration.View.
func (v *View) CameraMode() string { return v.cameraMode }

// SetCameraMode switches the camera mode. Unknown names are accepted; the
// engine only reacts to coloration.ViewModeName.
func (v *View) SetCameraMode(mode string) {
	v.cameraMode = mode
	v.repaint = true
}

// CycleCameraMode advances to the next entry of CameraModes and returns it.
func (v *View) CycleCameraMode() string {
	modes := CameraModes()
	next := modes[0]
	for i, m := range modes {
		if m == v.cameraMode {
			next = modes[(i+1)%len(modes)]
			break
		}
	}
	v.SetCameraMode(next)
	return next
}

// Camera implements coloration.View.
func (v *View) Camera() lod.Camera {
	c := v.Camera3D
	return lod.Camera{
		Position:         c.Position,
		FieldOfView:      c.FieldOfViewDegrees(),
		Orthographic:     c.Orthographic,
		OrthographicSize: c.OrthographicSize,
	}
}

// ReplacementShader returns the shader set by the engine, if any.
func (v *View) ReplacementShader() *render.Shader { return v.replacement }

// SetReplacementShader implements coloration.View.
func (v *View) SetReplacementShader(s *render.Shader) {
	v.replacement = s
	v.repaint = true
}

// Repaint implements coloration.View.
func (v *View) Repaint() { v.repaint = true }

// TakeRepaint reports and clears a pending repaint request.
func (v *View) TakeRepaint() bool {
	r := v.repaint
	v.repaint = false
	return r
}

// DrawMesh implements coloration.Drawer. Draws are queued and rendered
// after the scene in the current frame.
func (v *View) DrawMesh(mesh *models.Mesh, matrix math3d.Mat4, material *render.Material, block render.PropertyBlock) {
	if mesh == nil {
		return
	}
	v.overlay = append(v.overlay, overlayDraw{mesh: mesh, matrix: matrix, material: material, block: block})
}

// Frame renders one frame. engine may be nil.
func (v *View) Frame(engine *coloration.Engine) Stats {
	v.stats = Stats{}
	v.fb.Clear(v.Background)
	v.rasterizer.ClearDepth()
	v.rasterizer.InvalidateFrustum()
	v.rasterizer.ResetCullingStats()

	if engine != nil {
		v.stats.Engine = engine.OnSceneView(v, v)
	}

	v.drawScene()
	v.flushOverlay()
	return v.stats
}

// drawScene draws every renderer outside LOD groups plus the band each
// group currently selects.
func (v *View) drawScene() {
	hidden := make(map[*scene.Renderer]bool)
	classifier := lod.NewClassifier(v.Scene.LODBias())
	cam := v.Camera()

	for _, g := range v.Scene.FindGroups() {
		if !scene.Live(g.Transform()) {
			continue
		}
		selected := classifier.SelectBand(cam, g.Classification(g.Thresholds()))
		for i, band := range g.Bands() {
			if i == selected {
				continue
			}
			for _, r := range band.Renderers {
				hidden[r] = true
			}
		}
	}

	var mat *render.Material
	if v.replacement != nil {
		mat = render.NewMaterial(v.replacement)
	}
	for _, r := range v.Scene.Renderers() {
		if hidden[r] || r.Mesh() == nil || !scene.Live(r.Transform()) {
			continue
		}
		v.rasterizer.DrawMeshMaterial(r.Mesh(), r.Transform().LocalToWorld(), mat, r.PropertyBlock(), r.BaseColor(), v.LightDir)
		v.stats.Renderers++
	}
}

func (v *View) flushOverlay() {
	if len(v.overlay) == 0 {
		return
	}
	v.rasterizer.DepthBias = overlayDepthBias
	for _, d := range v.overlay {
		v.rasterizer.DrawMeshMaterial(d.mesh, d.matrix, d.material, d.block, render.ColorWhite, v.LightDir)
		v.stats.Overlays++
	}
	v.rasterizer.DepthBias = 0
	clear(v.overlay)
	v.overlay = v.overlay[:0]
}
