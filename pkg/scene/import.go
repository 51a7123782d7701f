package scene

import (
	"fmt"

	"github.com/taigrr/lodviz/pkg/models"
	"github.com/taigrr/lodviz/pkg/render"
)

// ImportGLTF instantiates every group of doc under parent (nil for the
// root). Each band gets one renderer on a child transform of the group.
// Listeners are notified once. On error nothing is left in the scene.
func (s *Scene) ImportGLTF(doc *models.LODDocument, parent *Transform, color render.Color) ([]*LODGroup, error) {
	var (
		groups []*LODGroup
		roots  []*Transform
		err    error
	)
	s.Batch(func() {
		defer func() {
			if err != nil {
				for _, r := range roots {
					s.Destroy(r)
				}
			}
		}()
		for _, n := range doc.Nodes {
			if len(n.Bands) == 0 {
				err = fmt.Errorf("import %s: no bands", n.Name)
				return
			}

			root := s.NewTransform(n.Name)
			roots = append(roots, root)
			if err = root.SetParent(parent); err != nil {
				err = fmt.Errorf("import %s: %w", n.Name, err)
				return
			}
			root.SetLocalPosition(n.Translation)
			root.SetLocalRotation(n.Rotation)
			root.SetLocalScale(n.Scale)

			bands := make([]Band, len(n.Bands))
			for i, b := range n.Bands {
				t := s.NewTransform(fmt.Sprintf("%s_LOD%d", n.Name, i))
				if err = t.SetParent(root); err != nil {
					return
				}
				r := s.NewRenderer(t.Name(), t, b.Mesh, color)
				bands[i] = Band{ScreenRelativeHeight: b.Threshold, Renderers: []*Renderer{r}}
			}
			g := s.NewLODGroup(n.Name, root, n.Size, bands...)
			g.SetLocalReferencePoint(n.Bands[0].Mesh.Center())
			groups = append(groups, g)
		}
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}
