package scene

import (
	"github.com/google/uuid"
	"github.com/taigrr/lodviz/pkg/models"
	"github.com/taigrr/lodviz/pkg/render"
)

// Renderer draws a mesh at a transform.
type Renderer struct {
	base

	transform *Transform
	mesh      *models.Mesh
	color     render.Color
	block     render.PropertyBlock
}

// ID returns the renderer's identity.
func (r *Renderer) ID() uuid.UUID { return r.id }

// Alive reports whether the renderer exists.
func (r *Renderer) Alive() bool { return r != nil && !r.destroyed }

// Name returns the renderer's name.
func (r *Renderer) Name() string { return r.name }

// Transform returns the transform the renderer draws at.
func (r *Renderer) Transform() *Transform { return r.transform }

// Mesh returns the mesh, or nil when the renderer has no mesh source.
func (r *Renderer) Mesh() *models.Mesh { return r.mesh }

// SetMesh replaces the mesh.
func (r *Renderer) SetMesh(m *models.Mesh) { r.mesh = m }

// BaseColor returns the color of the renderer's own material.
func (r *Renderer) BaseColor() render.Color { return r.color }

// SetBaseColor changes the material color.
func (r *Renderer) SetBaseColor(c render.Color) { r.color = c }

// PropertyBlock returns a copy of the per-instance overrides. The result is
// never nil.
func (r *Renderer) PropertyBlock() render.PropertyBlock {
	return r.block.Clone()
}

// SetPropertyBlock stores a copy of b as the per-instance overrides.
func (r *Renderer) SetPropertyBlock(b render.PropertyBlock) {
	if len(b) == 0 {
		r.block = nil
		return
	}
	r.block = b.Clone()
}

// HasPropertyBlock reports whether any override is set.
func (r *Renderer) HasPropertyBlock() bool {
	return len(r.block) > 0
}

// SetOverride sets a single override color.
func (r *Renderer) SetOverride(name string, c render.Color) {
	if r.block == nil {
		r.block = make(render.PropertyBlock)
	}
	r.block.Set(name, c)
}

// Override returns a single override color.
func (r *Renderer) Override(name string) (render.Color, bool) {
	return r.block.Get(name)
}
