package coloration

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/lodviz/pkg/lod"
	"github.com/taigrr/lodviz/pkg/math3d"
	"github.com/taigrr/lodviz/pkg/models"
	"github.com/taigrr/lodviz/pkg/palette"
	"github.com/taigrr/lodviz/pkg/render"
	"github.com/taigrr/lodviz/pkg/scene"
)

type fakeStore struct {
	saves []Mode
	err   error
}

func (s *fakeStore) Save(mode Mode, _ palette.Palette) error {
	s.saves = append(s.saves, mode)
	return s.err
}

type draw struct {
	mesh  *models.Mesh
	at    math3d.Vec3
	color render.Color
}

type fakeDrawer struct {
	draws []draw
}

func (d *fakeDrawer) DrawMesh(mesh *models.Mesh, m math3d.Mat4, _ *render.Material, block render.PropertyBlock) {
	c, _ := block.Get(render.ColorProperty)
	d.draws = append(d.draws, draw{mesh: mesh, at: m.Translation(), color: c})
}

type fakeView struct {
	mode     string
	cam      lod.Camera
	shader   *render.Shader
	repaints int
}

func (v *fakeView) CameraMode() string                    { return v.mode }
func (v *fakeView) Camera() lod.Camera                    { return v.cam }
func (v *fakeView) SetReplacementShader(s *render.Shader) { v.shader = s }
func (v *fakeView) Repaint()                              { v.repaints++ }

// threeBandGroup builds a group at pos with thresholds 0.5, 0.2, 0 and one
// renderer per band on its own child transform.
func threeBandGroup(s *scene.Scene, name string, pos math3d.Vec3) *scene.LODGroup {
	root := s.NewTransform(name)
	root.SetLocalPosition(pos)
	var bands []scene.Band
	for i, h := range []float64{0.5, 0.2, 0} {
		child := s.NewTransform(name)
		if err := child.SetParent(root); err != nil {
			panic(err)
		}
		r := s.NewRenderer(name, child, models.NewCube(float64(i+1)), render.ColorGray)
		bands = append(bands, scene.Band{ScreenRelativeHeight: h, Renderers: []*scene.Renderer{r}})
	}
	return s.NewLODGroup(name, root, 10, bands...)
}

func newTestEngine(s *scene.Scene, store SettingsStore) *Engine {
	return New(Config{
		Scene:    s,
		Shaders:  render.DefaultShaderLibrary(),
		Settings: store,
	})
}

// At 20 units with a 60 degree field of view a size 10 group has a
// relative height of about 0.433.
func camAt(z float64) lod.Camera {
	return lod.Camera{Position: math3d.V3(0, 0, z), FieldOfView: 60}
}

func overrides(g *scene.LODGroup) []bool {
	var out []bool
	for _, b := range g.Bands() {
		_, ok := b.Renderers[0].Override(render.ColorProperty)
		out = append(out, ok)
	}
	return out
}

func TestGeneratePerformanceTagsEveryBand(t *testing.T) {
	s := scene.New()
	g := threeBandGroup(s, "g", math3d.Vec3{})
	pal := palette.Palette{render.RGB(255, 0, 0), render.RGB(0, 255, 0)}

	e := newTestEngine(s, nil)
	require.NoError(t, e.Generate(Performance, pal))

	bands := g.Bands()
	for level, want := range []render.Color{pal[0], pal[1], pal[1]} {
		got, ok := bands[level].Renderers[0].Override(render.ColorProperty)
		require.True(t, ok, "band %d", level)
		assert.Equal(t, want, got, "band %d clamps to the palette", level)
	}

	stats := e.Tick(camAt(20), &fakeDrawer{})
	assert.Equal(t, FrameStats{}, stats, "no per-frame work")
}

func TestGenerateIsIdempotent(t *testing.T) {
	s := scene.New()
	threeBandGroup(s, "a", math3d.Vec3{})
	threeBandGroup(s, "b", math3d.V3(5, 0, 0))

	e := newTestEngine(s, nil)
	require.NoError(t, e.Generate(SafeMode, palette.Default()))
	first := e.Snapshot()
	require.NoError(t, e.Generate(SafeMode, palette.Default()))
	second := e.Snapshot()

	assert.NotSame(t, first, second)
	assert.Len(t, second.Groups, 2)
	assert.Len(t, second.Entities, len(first.Entities))
	assert.Len(t, second.Sources, len(first.Sources))

	d1, d2 := &fakeDrawer{}, &fakeDrawer{}
	e.Tick(camAt(20), d1)
	e.Tick(camAt(20), d2)
	assert.Equal(t, d1.draws, d2.draws)
}

func TestGenerateMissingShader(t *testing.T) {
	s := scene.New()
	g := threeBandGroup(s, "g", math3d.Vec3{})
	store := &fakeStore{}

	e := New(Config{
		Scene:    s,
		Shaders:  render.NewShaderLibrary(render.StandardShader),
		Settings: store,
		Mode:     Quality,
	})
	err := e.Generate(Performance, palette.Default())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResourceUnavailable))

	assert.False(t, e.Active())
	assert.Equal(t, Quality, e.Mode(), "selection unchanged")
	assert.Empty(t, store.saves, "nothing persisted")
	assert.Equal(t, []bool{false, false, false}, overrides(g))
}

func TestGenerateInvalidMode(t *testing.T) {
	e := newTestEngine(scene.New(), nil)
	err := e.Generate(Mode(9), palette.Default())
	assert.ErrorIs(t, err, ErrInvalidMode)
	assert.False(t, e.Active())
}

func TestGeneratePersists(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	e := newTestEngine(scene.New(), store)

	require.NoError(t, e.Generate(Quality, palette.Default()), "save errors are logged, not returned")
	assert.Equal(t, []Mode{Quality}, store.saves)
	assert.True(t, e.Active())
}

func TestQualityTagsSelectedBand(t *testing.T) {
	s := scene.New()
	g := threeBandGroup(s, "g", math3d.Vec3{})

	e := newTestEngine(s, nil)
	require.NoError(t, e.Generate(Quality, palette.Default()))
	assert.Equal(t, []bool{false, false, false}, overrides(g), "nothing tagged before a frame")

	stats := e.Tick(camAt(20), &fakeDrawer{})
	assert.Equal(t, FrameStats{Groups: 1, Tagged: 1}, stats)
	assert.Equal(t, []bool{false, true, false}, overrides(g))

	got, _ := g.Bands()[1].Renderers[0].Override(render.ColorProperty)
	assert.Equal(t, palette.Default()[1], got)

	// Moving away selects the last band; band 1 keeps its tag.
	e.Tick(camAt(1000), &fakeDrawer{})
	assert.Equal(t, []bool{false, true, true}, overrides(g))
}

func TestQualitySkipsMissingPaletteEntry(t *testing.T) {
	s := scene.New()
	root := s.NewTransform("g")
	var bands []scene.Band
	for i := range 8 {
		r := s.NewRenderer("r", root, models.NewCube(1), render.ColorGray)
		bands = append(bands, scene.Band{ScreenRelativeHeight: 0.9 - 0.1*float64(i), Renderers: []*scene.Renderer{r}})
	}
	g := s.NewLODGroup("g", root, 1, bands...)

	pal := palette.Default()[:4]
	cam := camAt(10000)
	require.Equal(t, 7, lod.NewClassifier(1).SelectBand(cam, g.Classification(g.Thresholds())))

	for _, mode := range []Mode{Quality, SafeMode} {
		t.Run(mode.String(), func(t *testing.T) {
			e := newTestEngine(s, nil)
			require.NoError(t, e.Generate(mode, pal))
			d := &fakeDrawer{}
			stats := e.Tick(cam, d)
			assert.Equal(t, 1, stats.Skipped)
			assert.Zero(t, stats.Tagged)
			assert.Empty(t, d.draws)
			_, ok := g.Bands()[7].Renderers[0].Override(render.ColorProperty)
			assert.False(t, ok)
		})
	}
}

func TestSkipLogsGroupID(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	s := scene.New()
	g := threeBandGroup(s, "g", math3d.Zero3())
	e := newTestEngine(s, nil)
	require.NoError(t, e.Generate(Quality, palette.Default()[:1]))

	stats := e.Tick(camAt(10000), &fakeDrawer{})
	require.Equal(t, 1, stats.Skipped)
	assert.Contains(t, buf.String(), "group_id="+g.ID().String())
}

func TestSafeModeDrawsSelectedBand(t *testing.T) {
	s := scene.New()
	g := threeBandGroup(s, "g", math3d.Vec3{})

	e := newTestEngine(s, nil)
	require.NoError(t, e.Generate(SafeMode, palette.Default()))
	assert.Len(t, e.Snapshot().Entities, 3)

	d := &fakeDrawer{}
	stats := e.Tick(camAt(20), d)
	assert.Equal(t, FrameStats{Groups: 1, Drawn: 1}, stats)
	require.Len(t, d.draws, 1)
	assert.Same(t, g.Bands()[1].Renderers[0].Mesh(), d.draws[0].mesh)
	assert.Equal(t, palette.Default()[1], d.draws[0].color)

	assert.Equal(t, []bool{false, false, false}, overrides(g), "renderers untouched")
}

func TestSafeModeFollowsMovedTransform(t *testing.T) {
	s := scene.New()
	g := threeBandGroup(s, "g", math3d.Vec3{})

	e := newTestEngine(s, nil)
	require.NoError(t, e.Generate(SafeMode, palette.Default()))
	snap := e.Snapshot()

	g.Transform().SetLocalPosition(math3d.V3(0, 0, -5))

	d := &fakeDrawer{}
	e.Tick(camAt(20), d)
	require.Len(t, d.draws, 1)
	assert.InDelta(t, -5, d.draws[0].at.Z, 1e-9)
	assert.Same(t, snap, e.Snapshot(), "no rediscovery")
}

func TestSafeModeSharedTransform(t *testing.T) {
	s := scene.New()
	root := s.NewTransform("g")
	shared := s.NewTransform("shared")
	require.NoError(t, shared.SetParent(root))
	var bands []scene.Band
	for _, h := range []float64{0.5, 0} {
		r1 := s.NewRenderer("a", shared, models.NewCube(1), render.ColorGray)
		r2 := s.NewRenderer("b", shared, models.NewCube(2), render.ColorGray)
		bands = append(bands, scene.Band{ScreenRelativeHeight: h, Renderers: []*scene.Renderer{r1, r2}})
	}
	s.NewLODGroup("g", root, 1, bands...)

	e := newTestEngine(s, nil)
	require.NoError(t, e.Generate(SafeMode, palette.Default()))
	assert.Len(t, e.Snapshot().Sources, 1)
	assert.Len(t, e.Snapshot().Entities, 4)

	shared.SetLocalPosition(math3d.V3(3, 0, 0))
	d := &fakeDrawer{}
	e.Tick(camAt(1000), d)
	require.Len(t, d.draws, 2)
	for _, dr := range d.draws {
		assert.InDelta(t, 3, dr.at.X, 1e-9, "both entities see the move")
	}
}

func TestStaleReferencesAreSkipped(t *testing.T) {
	for _, mode := range []Mode{Quality, SafeMode} {
		t.Run(mode.String(), func(t *testing.T) {
			s := scene.New()
			g := threeBandGroup(s, "g", math3d.Vec3{})
			other := threeBandGroup(s, "other", math3d.V3(0, 5, 0))

			e := newTestEngine(s, nil)
			require.NoError(t, e.Generate(mode, palette.Default()))

			s.Destroy(g.Bands()[1].Renderers[0].Transform())
			s.Destroy(other)

			d := &fakeDrawer{}
			var stats FrameStats
			assert.NotPanics(t, func() { stats = e.Tick(camAt(20), d) })
			assert.Positive(t, stats.Stale)
			assert.Empty(t, d.draws)
			assert.Zero(t, stats.Tagged)
		})
	}
}

func TestLiveUpdate(t *testing.T) {
	s := scene.New()
	threeBandGroup(s, "a", math3d.Vec3{})

	e := New(Config{
		Scene:      s,
		Shaders:    render.DefaultShaderLibrary(),
		Mode:       SafeMode,
		LiveUpdate: true,
	})
	cancel := s.OnHierarchyChanged(e.OnHierarchyChanged)
	defer cancel()

	threeBandGroup(s, "b", math3d.V3(5, 0, 0))
	require.True(t, e.Active())
	assert.Len(t, e.Snapshot().Groups, 2)

	s.SetPlaying(true)
	threeBandGroup(s, "c", math3d.V3(10, 0, 0))
	assert.Len(t, e.Snapshot().Groups, 2, "ignored while playing")

	s.SetPlaying(false)
	e.SetLiveUpdate(false)
	threeBandGroup(s, "d", math3d.V3(15, 0, 0))
	assert.Len(t, e.Snapshot().Groups, 2, "ignored with live update off")
}

func TestOnSceneViewSwitchesShader(t *testing.T) {
	s := scene.New()
	threeBandGroup(s, "g", math3d.Vec3{})
	e := newTestEngine(s, nil)
	require.NoError(t, e.Generate(SafeMode, palette.Default()))

	v := &fakeView{mode: "Shaded", cam: camAt(20)}
	d := &fakeDrawer{}

	e.OnSceneView(v, d)
	assert.Nil(t, v.shader)
	assert.Empty(t, d.draws)
	assert.Zero(t, v.repaints)

	v.mode = ViewModeName
	stats := e.OnSceneView(v, d)
	require.NotNil(t, v.shader)
	assert.Equal(t, render.LODColorationShaderName, v.shader.Name)
	assert.Equal(t, 1, stats.Drawn)
	assert.Equal(t, 1, v.repaints)

	v.mode = "Shaded"
	e.OnSceneView(v, d)
	assert.Nil(t, v.shader)
}

func TestSelectionAppliesAtGenerate(t *testing.T) {
	s := scene.New()
	g := threeBandGroup(s, "g", math3d.Vec3{})
	e := newTestEngine(s, nil)
	require.NoError(t, e.Generate(Quality, palette.Default()))

	e.SetMode(SafeMode)
	assert.Equal(t, SafeMode, e.Mode())
	assert.Equal(t, Quality, e.Snapshot().Mode)

	e.Tick(camAt(20), &fakeDrawer{})
	assert.Equal(t, []bool{false, true, false}, overrides(g), "still Quality until regenerated")

	e.Reset()
	assert.False(t, e.Active())
	assert.Equal(t, FrameStats{}, e.Tick(camAt(20), &fakeDrawer{}))
}
