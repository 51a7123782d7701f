package render

import (
	"testing"

	"github.com/taigrr/lodviz/pkg/math3d"
)

func TestShaderLibrary(t *testing.T) {
	lib := DefaultShaderLibrary()

	s, ok := lib.Find(LODColorationShaderName)
	if !ok || s != LODColorationShader {
		t.Fatalf("Find(%q) = %v, %v", LODColorationShaderName, s, ok)
	}

	if got := lib.Names(); len(got) != 2 || got[0] != LODColorationShaderName || got[1] != "Standard" {
		t.Errorf("Names() = %v, want sorted built-ins", got)
	}

	standardOnly := NewShaderLibrary(StandardShader, nil)
	if _, ok := standardOnly.Find(LODColorationShaderName); ok {
		t.Error("unregistered shader found")
	}
	if got := standardOnly.Names(); len(got) != 1 || got[0] != "Standard" {
		t.Errorf("Names() = %v, want [Standard]", got)
	}
}

func TestLODColorationShader(t *testing.T) {
	in := ShadeInput{
		Normal:   math3d.V3(0, 0, -1),
		LightDir: math3d.V3(0, 0, 1),
		Base:     ColorWhite,
	}

	if got := LODColorationShader.Shade(in); got != ColorBlack {
		t.Errorf("no override = %v, want black", got)
	}

	in.Block = PropertyBlock{ColorProperty: RGB(0, 255, 0)}
	if got := LODColorationShader.Shade(in); got != RGB(0, 255, 0) {
		t.Errorf("head-on override = %v, want green", got)
	}

	in.Normal = math3d.V3(1, 0, 0)
	if got := LODColorationShader.Shade(in); got.G >= 255 || got.G == 0 {
		t.Errorf("grazing override = %v, want ambient-dimmed green", got)
	}
}

func TestPropertyBlockClone(t *testing.T) {
	var nilBlock PropertyBlock
	if _, ok := nilBlock.Get(ColorProperty); ok {
		t.Error("nil block should have no entries")
	}

	b := nilBlock.Clone()
	b.Set(ColorProperty, ColorGray)
	c := b.Clone()
	c.Set(ColorProperty, ColorWhite)

	if got, _ := b.Get(ColorProperty); got != ColorGray {
		t.Errorf("clone mutated source: %v", got)
	}
}

func TestCameraOrthographicProjection(t *testing.T) {
	cam := NewCamera()
	cam.SetAspectRatio(2)
	cam.SetOrthographic(true, 4)

	p := cam.ProjectionMatrix()
	if p[5] != 0.25 || p[0] != 0.125 {
		t.Errorf("ortho scale = (%v, %v), want (0.125, 0.25)", p[0], p[5])
	}

	cam.SetOrthographic(false, 4)
	if cam.ProjectionMatrix()[11] != -1 {
		t.Error("perspective projection should put -1 in the w row")
	}
}

func TestCameraViewProjectionTracksMoves(t *testing.T) {
	cam := NewCamera()
	before := cam.ViewProjectionMatrix()
	cam.SetPosition(math3d.V3(3, 4, 5))
	if cam.ViewProjectionMatrix() == before {
		t.Error("view-projection should change after SetPosition")
	}
}
