package coloration

import (
	"github.com/taigrr/lodviz/pkg/lod"
	"github.com/taigrr/lodviz/pkg/math3d"
	"github.com/taigrr/lodviz/pkg/models"
	"github.com/taigrr/lodviz/pkg/palette"
	"github.com/taigrr/lodviz/pkg/render"
	"github.com/taigrr/lodviz/pkg/scene"
)

// ViewModeName is the camera mode under which the overlay is shown.
const ViewModeName = "LOD Coloration"

// SceneQuery is the host scene as the engine sees it.
type SceneQuery interface {
	// FindGroups returns every LOD group currently in the scene.
	FindGroups() []*scene.LODGroup
	// LODBias returns the host's global LOD quality multiplier.
	LODBias() float64
	// Playing reports whether the host is in play mode.
	Playing() bool
}

// SettingsStore persists the selected mode and palette.
type SettingsStore interface {
	Save(mode Mode, colors palette.Palette) error
}

// ShaderFinder looks up shaders by name.
type ShaderFinder interface {
	Find(name string) (*render.Shader, bool)
}

// View is a viewport that can show the diagnostic camera mode.
type View interface {
	CameraMode() string
	Camera() lod.Camera
	// SetReplacementShader renders every renderer with s; nil restores
	// normal shading.
	SetReplacementShader(s *render.Shader)
	Repaint()
}

// Drawer queues an immediate draw outside the scene graph.
type Drawer interface {
	DrawMesh(mesh *models.Mesh, matrix math3d.Mat4, material *render.Material, block render.PropertyBlock)
}
