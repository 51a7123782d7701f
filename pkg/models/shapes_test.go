package models

import (
	"math"
	"testing"

	"github.com/taigrr/lodviz/pkg/math3d"
)

// outwardCW reports whether every face winds clockwise seen from outside,
// i.e. its cross product points toward the mesh center.
func outwardCW(m *Mesh) bool {
	center := m.Center()
	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		mid := v0.Add(v1).Add(v2).Scale(1.0 / 3)
		if n.Dot(mid.Sub(center)) >= 0 {
			return false
		}
	}
	return true
}

func TestNewCube(t *testing.T) {
	c := NewCube(2)
	if c.VertexCount() != 8 || c.TriangleCount() != 12 {
		t.Errorf("cube has %d vertices and %d triangles", c.VertexCount(), c.TriangleCount())
	}
	if c.Extent() != 2 {
		t.Errorf("extent = %v, want 2", c.Extent())
	}
	if !outwardCW(c) {
		t.Error("cube faces should wind clockwise from outside")
	}
}

func TestNewUVSphere(t *testing.T) {
	s, err := NewUVSphere(1, 6, 8)
	if err != nil {
		t.Fatalf("NewUVSphere: %v", err)
	}
	// Pole rows contribute one triangle per slice, inner rows two.
	if want := 2*8 + 2*8*(6-2); s.TriangleCount() != want {
		t.Errorf("triangles = %d, want %d", s.TriangleCount(), want)
	}
	if math.Abs(s.Extent()-2) > 1e-9 {
		t.Errorf("extent = %v, want 2", s.Extent())
	}
	if !outwardCW(s) {
		t.Error("sphere faces should wind clockwise from outside")
	}

	if _, err := NewUVSphere(1, 1, 8); err == nil {
		t.Error("expected error for a single stack")
	}
}

func TestLODChain(t *testing.T) {
	chain := LODChain(0.5, 3)
	if len(chain) != 3 {
		t.Fatalf("chain length = %d", len(chain))
	}
	for i := 1; i < len(chain); i++ {
		if chain[i].TriangleCount() >= chain[i-1].TriangleCount() {
			t.Errorf("level %d is not coarser than level %d", i, i-1)
		}
	}
	if chain[2].Name != "cube" {
		t.Errorf("last level = %q, want cube", chain[2].Name)
	}
}

func TestMeshCloneIsDeep(t *testing.T) {
	c := NewCube(1)
	clone := c.Clone()
	clone.Transform(math3d.Translate(math3d.V3(5, 0, 0)))

	if c.Vertices[0].Position.X != -0.5 {
		t.Error("transforming the clone changed the source")
	}
	if clone.Center().X != 5 {
		t.Errorf("clone center = %v, want x=5", clone.Center())
	}
}
