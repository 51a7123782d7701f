package models

import (
	"encoding/json"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/lodviz/pkg/math3d"
)

const (
	extLOD          = "MSFT_lod"
	extraCoverage   = "MSFT_screencoverage"
	defaultLODGroup = "lod_group"
)

// LODDocument is the LOD content of a glTF file.
type LODDocument struct {
	Nodes []LODNode
}

// LODNode describes one LOD group: its transform, its size and its bands
// from highest to lowest detail.
type LODNode struct {
	Name        string
	Translation math3d.Vec3
	Rotation    math3d.Quat
	Scale       math3d.Vec3
	Size        float64 // Largest extent of the band 0 mesh
	Bands       []LODBand
}

// LODBand is a mesh and the screen-relative height at which it is used.
type LODBand struct {
	Threshold float64
	Mesh      *Mesh
}

type lodExtension struct {
	IDs []int `json:"ids"`
}

type coverageExtras struct {
	Coverage []float64 `json:"MSFT_screencoverage"`
}

// LoadLOD opens a glTF or GLB file and reads its LOD groups.
func LoadLOD(path string) (*LODDocument, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	out, err := ReadLOD(doc)
	if err != nil {
		return nil, fmt.Errorf("read lod %s: %w", path, err)
	}
	return out, nil
}

// ReadLOD extracts LOD groups from a decoded document. A node carrying
// MSFT_lod becomes a group whose band 0 is its own mesh followed by the
// meshes of the referenced nodes; thresholds come from the
// MSFT_screencoverage extras. Any other mesh node not referenced by a chain
// becomes a single band group.
func ReadLOD(doc *gltf.Document) (*LODDocument, error) {
	chains := make(map[int][]int)
	referenced := make(map[int]bool)
	for i, n := range doc.Nodes {
		ids, err := nodeLODIDs(n)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		if ids == nil {
			continue
		}
		chains[i] = ids
		for _, id := range ids {
			if id < 0 || id >= len(doc.Nodes) {
				return nil, fmt.Errorf("node %d: %s references missing node %d", i, extLOD, id)
			}
			referenced[id] = true
		}
	}

	out := &LODDocument{}
	meshes := make(map[int]*Mesh)
	for i, n := range doc.Nodes {
		if referenced[i] || n.Mesh == nil {
			continue
		}

		chain := append([]int{i}, chains[i]...)
		var bands []LODBand
		for _, ni := range chain {
			src := doc.Nodes[ni]
			if src.Mesh == nil {
				return nil, fmt.Errorf("node %d: lod level %d has no mesh", i, ni)
			}
			m, ok := meshes[*src.Mesh]
			if !ok {
				var err error
				if m, err = readMesh(doc, *src.Mesh); err != nil {
					return nil, fmt.Errorf("node %d: %w", ni, err)
				}
				meshes[*src.Mesh] = m
			}
			bands = append(bands, LODBand{Mesh: m})
		}

		coverage, err := nodeCoverage(n)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		thresholds := coverage
		if len(thresholds) != len(bands) {
			thresholds = Ramp(len(bands))
		}
		for b := range bands {
			bands[b].Threshold = thresholds[b]
		}

		t := n.TranslationOrDefault()
		r := n.RotationOrDefault()
		s := n.ScaleOrDefault()
		name := n.Name
		if name == "" {
			name = fmt.Sprintf("%s_%d", defaultLODGroup, i)
		}
		out.Nodes = append(out.Nodes, LODNode{
			Name:        name,
			Translation: math3d.V3(t[0], t[1], t[2]),
			Rotation:    math3d.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}.Normalize(),
			Scale:       math3d.V3(s[0], s[1], s[2]),
			Size:        bands[0].Mesh.Extent(),
			Bands:       bands,
		})
	}
	return out, nil
}

// Ramp returns n thresholds evenly descending from (n-1)/n to 0.
func Ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(n-1-i) / float64(n)
	}
	return out
}

// nodeLODIDs returns the MSFT_lod ids of n, or nil when absent. Extension
// values may be decoded maps or raw JSON, so they are re-encoded first.
func nodeLODIDs(n *gltf.Node) ([]int, error) {
	raw, ok := n.Extensions[extLOD]
	if !ok {
		return nil, nil
	}
	var ext lodExtension
	if err := reencode(raw, &ext); err != nil {
		return nil, fmt.Errorf("decode %s: %w", extLOD, err)
	}
	if ext.IDs == nil {
		ext.IDs = []int{}
	}
	return ext.IDs, nil
}

func nodeCoverage(n *gltf.Node) ([]float64, error) {
	if n.Extras == nil {
		return nil, nil
	}
	var extras coverageExtras
	if err := reencode(n.Extras, &extras); err != nil {
		// Extras that are not an object carry no coverage.
		return nil, nil
	}
	for i := 1; i < len(extras.Coverage); i++ {
		if extras.Coverage[i] > extras.Coverage[i-1] {
			return nil, fmt.Errorf("%s not descending at %d", extraCoverage, i)
		}
	}
	return extras.Coverage, nil
}

func reencode(v any, dst any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
