package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/taigrr/lodviz/pkg/math3d"
	"github.com/taigrr/lodviz/pkg/models"
	"github.com/taigrr/lodviz/pkg/render"
	"github.com/taigrr/lodviz/pkg/scene"
)

const (
	demoSpacing = 5.0
	demoRadius  = 1.0
	demoTwist   = 0.4 // Yaw step between prefabs, radians
)

// demoThresholds are the screen-relative heights of the three demo bands.
var demoThresholds = []float64{0.3, 0.1, 0}

// Demo is a grid of identical LOD prefabs.
type Demo struct {
	scene   *scene.Scene
	chain   []*models.Mesh
	spawned []uuid.UUID // Group ids, oldest first
	next    int
}

// NewDemo creates a demo that places its groups in s.
func NewDemo(s *scene.Scene) *Demo {
	return &Demo{scene: s, chain: models.LODChain(demoRadius, len(demoThresholds))}
}

// BuildGrid places n*n*n groups spaced demoSpacing apart and centered on
// the origin, as a single structural change.
func (d *Demo) BuildGrid(n int) {
	offset := float64(n-1) * demoSpacing / 2
	d.scene.Batch(func() {
		for x := range n {
			for y := range n {
				for z := range n {
					pos := math3d.V3(float64(x), float64(y), float64(z)).Scale(demoSpacing).Sub(math3d.V3(offset, offset, offset))
					d.Spawn(pos)
				}
			}
		}
	})
}

// Spawn adds one prefab at pos.
func (d *Demo) Spawn(pos math3d.Vec3) *scene.LODGroup {
	name := fmt.Sprintf("prefab_%d", d.next)
	d.next++

	var g *scene.LODGroup
	d.scene.Batch(func() {
		root := d.scene.NewTransform(name)
		root.SetLocalPosition(pos)
		root.SetLocalRotation(math3d.QuatEuler(0, float64(d.next)*demoTwist, 0))

		bands := make([]scene.Band, len(d.chain))
		for i, mesh := range d.chain {
			child := d.scene.NewTransform(fmt.Sprintf("%s_LOD%d", name, i))
			if err := child.SetParent(root); err != nil {
				panic(err) // fresh transforms cannot form a cycle
			}
			r := d.scene.NewRenderer(child.Name(), child, mesh, render.ColorGray)
			bands[i] = scene.Band{ScreenRelativeHeight: demoThresholds[i], Renderers: []*scene.Renderer{r}}
		}
		g = d.scene.NewLODGroup(name, root, 2*demoRadius, bands...)
	})
	d.spawned = append(d.spawned, g.ID())
	return g
}

// AddMesh places mesh at the origin as a group with a single band, the
// way a model without LOD metadata is shown.
func (d *Demo) AddMesh(name string, mesh *models.Mesh) *scene.LODGroup {
	var g *scene.LODGroup
	d.scene.Batch(func() {
		root := d.scene.NewTransform(name)
		r := d.scene.NewRenderer(name, root, mesh, render.ColorGray)
		g = d.scene.NewLODGroup(name, root, mesh.Extent(), scene.Band{Renderers: []*scene.Renderer{r}})
		g.SetLocalReferencePoint(mesh.Center())
	})
	d.spawned = append(d.spawned, g.ID())
	return g
}

// DestroyLast removes the most recently spawned prefab that is still alive.
func (d *Demo) DestroyLast() bool {
	for len(d.spawned) > 0 {
		id := d.spawned[len(d.spawned)-1]
		d.spawned = d.spawned[:len(d.spawned)-1]
		obj, _ := d.scene.Find(id)
		if g, ok := obj.(*scene.LODGroup); ok {
			d.scene.Destroy(g.Transform())
			return true
		}
	}
	return false
}

// Len returns the number of spawned prefabs still tracked.
func (d *Demo) Len() int { return len(d.spawned) }
