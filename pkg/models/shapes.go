package models

import (
	"fmt"
	"math"

	"github.com/taigrr/lodviz/pkg/math3d"
)

// NewCube creates an axis-aligned cube centered on the origin.
func NewCube(size float64) *Mesh {
	h := size / 2
	m := NewMesh("cube")

	corners := [8]math3d.Vec3{
		{X: -h, Y: -h, Z: -h}, // 0: left-bottom-back
		{X: +h, Y: -h, Z: -h}, // 1: right-bottom-back
		{X: +h, Y: +h, Z: -h}, // 2: right-top-back
		{X: -h, Y: +h, Z: -h}, // 3: left-top-back
		{X: -h, Y: -h, Z: +h}, // 4: left-bottom-front
		{X: +h, Y: -h, Z: +h}, // 5: right-bottom-front
		{X: +h, Y: +h, Z: +h}, // 6: right-top-front
		{X: -h, Y: +h, Z: +h}, // 7: left-top-front
	}
	for _, c := range corners {
		m.Vertices = append(m.Vertices, MeshVertex{Position: c})
	}

	quads := [6][4]int{
		{0, 1, 2, 3}, // Back
		{5, 4, 7, 6}, // Front
		{4, 0, 3, 7}, // Left
		{1, 5, 6, 2}, // Right
		{3, 2, 6, 7}, // Top
		{4, 5, 1, 0}, // Bottom
	}
	for _, q := range quads {
		m.Faces = append(m.Faces,
			Face{V: [3]int{q[0], q[1], q[2]}},
			Face{V: [3]int{q[0], q[2], q[3]}},
		)
	}

	m.CalculateNormals()
	m.CalculateBounds()
	return m
}

// NewUVSphere creates a sphere of the given radius from stacks rings of
// slices segments. stacks must be at least 2 and slices at least 3.
func NewUVSphere(radius float64, stacks, slices int) (*Mesh, error) {
	if stacks < 2 || slices < 3 {
		return nil, fmt.Errorf("sphere needs at least 2 stacks and 3 slices, got %d and %d", stacks, slices)
	}
	return uvSphere(radius, stacks, slices), nil
}

func uvSphere(radius float64, stacks, slices int) *Mesh {
	m := NewMesh(fmt.Sprintf("sphere_%dx%d", stacks, slices))

	// Rows run from the north pole (theta = 0) to the south pole.
	for i := 0; i <= stacks; i++ {
		theta := math.Pi * float64(i) / float64(stacks)
		st, ct := math.Sincos(theta)
		for j := 0; j <= slices; j++ {
			phi := 2 * math.Pi * float64(j) / float64(slices)
			sp, cp := math.Sincos(phi)
			n := math3d.V3(st*cp, ct, st*sp)
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: n.Scale(radius),
				Normal:   n,
				UV:       math3d.V2(float64(j)/float64(slices), float64(i)/float64(stacks)),
			})
		}
	}

	row := slices + 1
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := i*row + j
			b := (i+1)*row + j
			c := (i+1)*row + j + 1
			d := i*row + j + 1
			if i > 0 {
				m.Faces = append(m.Faces, Face{V: [3]int{a, c, d}})
			}
			if i < stacks-1 {
				m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}})
			}
		}
	}

	m.CalculateBounds()
	return m
}

// LODChain returns count meshes of decreasing detail suitable for the bands
// of one LOD group: spheres with halving tessellation, ending in a cube.
func LODChain(radius float64, count int) []*Mesh {
	chain := make([]*Mesh, 0, count)
	stacks, slices := 12, 16
	for i := 0; i < count; i++ {
		if i == count-1 && count > 1 {
			chain = append(chain, NewCube(radius*2))
			break
		}
		chain = append(chain, uvSphere(radius, max(stacks, 2), max(slices, 3)))
		stacks /= 2
		slices /= 2
	}
	return chain
}
