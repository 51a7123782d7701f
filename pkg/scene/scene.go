package scene

import (
	"slices"

	"github.com/google/uuid"
	"github.com/taigrr/lodviz/pkg/math3d"
	"github.com/taigrr/lodviz/pkg/models"
	"github.com/taigrr/lodviz/pkg/render"
)

// Scene owns every object and delivers hierarchy change notifications
// synchronously. It is not safe for concurrent use.
type Scene struct {
	transforms []*Transform
	renderers  []*Renderer
	groups     []*LODGroup

	lodBias float64
	playing bool

	listeners    map[int]func()
	nextListener int
	batchDepth   int
	batchDirty   bool
}

// New creates an empty scene with an LOD bias of 1.
func New() *Scene {
	return &Scene{
		lodBias:   1,
		listeners: make(map[int]func()),
	}
}

// NewTransform creates a root transform at the origin.
func (s *Scene) NewTransform(name string) *Transform {
	t := &Transform{
		base:          newBase(s, name),
		localRotation: math3d.IdentityQuat(),
		localScale:    math3d.One3(),
	}
	s.transforms = append(s.transforms, t)
	s.notify()
	return t
}

// NewRenderer creates a renderer drawing mesh at t. mesh may be nil.
func (s *Scene) NewRenderer(name string, t *Transform, mesh *models.Mesh, color render.Color) *Renderer {
	r := &Renderer{
		base:      newBase(s, name),
		transform: t,
		mesh:      mesh,
		color:     color,
	}
	s.renderers = append(s.renderers, r)
	s.notify()
	return r
}

// NewLODGroup creates a group on t with the given local size and bands.
func (s *Scene) NewLODGroup(name string, t *Transform, size float64, bands ...Band) *LODGroup {
	g := &LODGroup{
		base:      newBase(s, name),
		transform: t,
		size:      size,
	}
	s.groups = append(s.groups, g)
	s.Batch(func() { g.SetBands(bands) })
	return g
}

// Destroy removes an object. Destroying a transform also destroys its
// descendants and every renderer and group attached to them. Renderers
// referenced by groups are not unlinked; the references go stale.
func (s *Scene) Destroy(o Object) {
	if !Live(o) {
		return
	}
	s.Batch(func() {
		switch v := o.(type) {
		case *Transform:
			s.destroyTransform(v)
		case *Renderer:
			v.destroyed = true
		case *LODGroup:
			v.destroyed = true
		}
		s.compact()
		s.batchDirty = true
	})
}

func (s *Scene) destroyTransform(t *Transform) {
	// Children see a destroyed parent and skip detaching themselves.
	t.destroyed = true
	for _, c := range t.children {
		s.destroyTransform(c)
	}
	for _, r := range s.renderers {
		if r.transform == t {
			r.destroyed = true
		}
	}
	for _, g := range s.groups {
		if g.transform == t {
			g.destroyed = true
		}
	}
	if t.parent != nil && !t.parent.destroyed {
		t.detach()
	}
}

func (s *Scene) compact() {
	s.transforms = slices.DeleteFunc(s.transforms, func(t *Transform) bool { return t.destroyed })
	s.renderers = slices.DeleteFunc(s.renderers, func(r *Renderer) bool { return r.destroyed })
	s.groups = slices.DeleteFunc(s.groups, func(g *LODGroup) bool { return g.destroyed })
}

// Find returns the live object with the given id.
func (s *Scene) Find(id uuid.UUID) (Object, bool) {
	for _, t := range s.transforms {
		if t.id == id {
			return t, true
		}
	}
	for _, r := range s.renderers {
		if r.id == id {
			return r, true
		}
	}
	for _, g := range s.groups {
		if g.id == id {
			return g, true
		}
	}
	return nil, false
}

// FindGroups returns the live groups in creation order.
func (s *Scene) FindGroups() []*LODGroup {
	return slices.Clone(s.groups)
}

// Renderers returns the live renderers in creation order.
func (s *Scene) Renderers() []*Renderer {
	return slices.Clone(s.renderers)
}

// Transforms returns the live transforms in creation order.
func (s *Scene) Transforms() []*Transform {
	return slices.Clone(s.transforms)
}

// LODBias returns the global LOD quality multiplier.
func (s *Scene) LODBias() float64 { return s.lodBias }

// SetLODBias changes the global LOD quality multiplier.
func (s *Scene) SetLODBias(b float64) { s.lodBias = b }

// Playing reports whether the host is in play mode.
func (s *Scene) Playing() bool { return s.playing }

// SetPlaying enters or leaves play mode.
func (s *Scene) SetPlaying(p bool) { s.playing = p }

// OnHierarchyChanged registers fn to run after every structural change.
// The returned function unregisters it.
func (s *Scene) OnHierarchyChanged(fn func()) (cancel func()) {
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

// Batch runs fn and delivers at most one notification for the structural
// changes it makes.
func (s *Scene) Batch(fn func()) {
	s.batchDepth++
	defer func() {
		s.batchDepth--
		if s.batchDepth == 0 && s.batchDirty {
			s.batchDirty = false
			s.notify()
		}
	}()
	fn()
}

func (s *Scene) notify() {
	if s == nil {
		return
	}
	if s.batchDepth > 0 {
		s.batchDirty = true
		return
	}
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := s.listeners[id]; ok {
			fn()
		}
	}
}
