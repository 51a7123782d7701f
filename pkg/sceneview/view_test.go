package sceneview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/lodviz/pkg/coloration"
	"github.com/taigrr/lodviz/pkg/math3d"
	"github.com/taigrr/lodviz/pkg/models"
	"github.com/taigrr/lodviz/pkg/palette"
	"github.com/taigrr/lodviz/pkg/render"
	"github.com/taigrr/lodviz/pkg/scene"
)

func newTestView(t *testing.T) (*View, *scene.Scene, *scene.LODGroup) {
	t.Helper()
	s := scene.New()
	root := s.NewTransform("group")
	var bands []scene.Band
	for _, h := range []float64{0.5, 0.2, 0} {
		r := s.NewRenderer("cube", root, models.NewCube(2), render.ColorGray)
		bands = append(bands, scene.Band{ScreenRelativeHeight: h, Renderers: []*scene.Renderer{r}})
	}
	g := s.NewLODGroup("group", root, 10, bands...)

	cam := render.NewCamera()
	cam.SetPosition(math3d.V3(0, 0, 20))
	cam.LookAt(math3d.Vec3{})
	return New(s, cam, 64, 64), s, g
}

func newEngine(t *testing.T, s *scene.Scene, mode coloration.Mode) *coloration.Engine {
	t.Helper()
	e := coloration.New(coloration.Config{Scene: s, Shaders: render.DefaultShaderLibrary()})
	require.NoError(t, e.Generate(mode, palette.Default()))
	return e
}

func TestCycleCameraMode(t *testing.T) {
	v, _, _ := newTestView(t)
	assert.Equal(t, ShadedMode, v.CameraMode())
	assert.Equal(t, coloration.ViewModeName, v.CycleCameraMode())
	assert.Equal(t, ShadedMode, v.CycleCameraMode())

	v.SetCameraMode("Wireframe")
	assert.Equal(t, ShadedMode, v.CycleCameraMode(), "unknown modes restart the cycle")
}

func TestCameraConversion(t *testing.T) {
	v, _, _ := newTestView(t)
	c := v.Camera()
	assert.Equal(t, math3d.V3(0, 0, 20), c.Position)
	assert.InDelta(t, 60, c.FieldOfView, 1e-9)
	assert.False(t, c.Orthographic)

	v.Camera3D.SetOrthographic(true, 7)
	c = v.Camera()
	assert.True(t, c.Orthographic)
	assert.Equal(t, 7.0, c.OrthographicSize)
}

func TestFrameDrawsSelectedBand(t *testing.T) {
	v, _, _ := newTestView(t)
	stats := v.Frame(nil)

	assert.Equal(t, 1, stats.Renderers, "only the selected band is drawn")
	assert.Zero(t, stats.Overlays)
	bg := v.Framebuffer().CountColor(v.Background)
	assert.Less(t, bg, 64*64, "the cube covers some pixels")
}

func TestFrameSafeModeOverlay(t *testing.T) {
	v, s, _ := newTestView(t)
	e := newEngine(t, s, coloration.SafeMode)

	stats := v.Frame(e)
	assert.Zero(t, stats.Overlays, "shaded mode has no overlay")
	assert.False(t, v.TakeRepaint())

	v.SetCameraMode(coloration.ViewModeName)
	stats = v.Frame(e)
	require.NotNil(t, v.ReplacementShader())
	assert.Equal(t, render.LODColorationShaderName, v.ReplacementShader().Name)
	assert.Equal(t, 1, stats.Engine.Drawn)
	assert.Equal(t, 1, stats.Overlays)
	assert.True(t, v.TakeRepaint())
	assert.False(t, v.TakeRepaint())

	stats = v.Frame(e)
	assert.Equal(t, 1, stats.Overlays, "queue is flushed each frame")

	v.SetCameraMode(ShadedMode)
	v.Frame(e)
	assert.Nil(t, v.ReplacementShader())
}

func TestFrameQualityTagsBeforeDrawing(t *testing.T) {
	v, s, g := newTestView(t)
	e := newEngine(t, s, coloration.Quality)

	v.SetCameraMode(coloration.ViewModeName)
	stats := v.Frame(e)
	assert.Equal(t, 1, stats.Engine.Tagged)
	assert.Equal(t, 1, stats.Renderers)

	c, ok := g.Bands()[1].Renderers[0].Override(render.ColorProperty)
	require.True(t, ok)
	assert.Equal(t, palette.Default()[1], c)

	// The tagged cube is lit red: no pixel keeps a green or blue component.
	fb := v.Framebuffer()
	red := 0
	for _, p := range fb.Pixels {
		if p != v.Background && p.R > 0 && p.G == 0 && p.B == 0 {
			red++
		}
	}
	assert.Positive(t, red)
}
