package scene

import (
	"errors"

	"github.com/google/uuid"
	"github.com/taigrr/lodviz/pkg/math3d"
)

// ErrCycle is returned when reparenting would make a transform its own
// ancestor.
var ErrCycle = errors.New("scene: parent cycle")

// Transform positions an object in the scene hierarchy.
type Transform struct {
	base

	localPosition math3d.Vec3
	localRotation math3d.Quat
	localScale    math3d.Vec3

	parent   *Transform
	children []*Transform

	hasChanged bool
}

// ID returns the transform's identity.
func (t *Transform) ID() uuid.UUID { return t.id }

// Alive reports whether the transform exists.
func (t *Transform) Alive() bool { return t != nil && !t.destroyed }

// Name returns the transform's name.
func (t *Transform) Name() string { return t.name }

// LocalPosition returns the position relative to the parent.
func (t *Transform) LocalPosition() math3d.Vec3 { return t.localPosition }

// LocalRotation returns the rotation relative to the parent.
func (t *Transform) LocalRotation() math3d.Quat { return t.localRotation }

// LocalScale returns the scale relative to the parent.
func (t *Transform) LocalScale() math3d.Vec3 { return t.localScale }

// SetLocalPosition moves the transform and flags it and its descendants as
// changed.
func (t *Transform) SetLocalPosition(p math3d.Vec3) {
	t.localPosition = p
	t.markChanged()
}

// SetLocalRotation rotates the transform and flags it as changed.
func (t *Transform) SetLocalRotation(r math3d.Quat) {
	t.localRotation = r.Normalize()
	t.markChanged()
}

// SetLocalScale scales the transform and flags it as changed.
func (t *Transform) SetLocalScale(s math3d.Vec3) {
	t.localScale = s
	t.markChanged()
}

// SetPosition moves the transform so its world position is p.
func (t *Transform) SetPosition(p math3d.Vec3) {
	if t.parent != nil {
		p = t.parent.LocalToWorld().Inverse().MulVec3(p)
	}
	t.SetLocalPosition(p)
}

// Parent returns the parent transform, or nil at the root.
func (t *Transform) Parent() *Transform { return t.parent }

// Children returns a copy of the child list.
func (t *Transform) Children() []*Transform {
	return append([]*Transform(nil), t.children...)
}

// SetParent reparents the transform, keeping its local values. It is a
// structural change. A nil parent moves it to the root.
func (t *Transform) SetParent(parent *Transform) error {
	for p := parent; p != nil; p = p.parent {
		if p == t {
			return ErrCycle
		}
	}
	if t.parent == parent {
		return nil
	}
	t.detach()
	t.parent = parent
	if parent != nil {
		parent.children = append(parent.children, t)
	}
	t.markChanged()
	t.scene.notify()
	return nil
}

func (t *Transform) detach() {
	if t.parent == nil {
		return
	}
	siblings := t.parent.children
	for i, c := range siblings {
		if c == t {
			t.parent.children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	t.parent = nil
}

// HasChanged reports whether the transform moved since the flag was last
// consumed.
func (t *Transform) HasChanged() bool { return t.hasChanged }

// ConsumeChanged returns the changed flag and clears it.
func (t *Transform) ConsumeChanged() bool {
	changed := t.hasChanged
	t.hasChanged = false
	return changed
}

func (t *Transform) markChanged() {
	t.hasChanged = true
	for _, c := range t.children {
		c.markChanged()
	}
}

// LocalMatrix returns translation * rotation * scale.
func (t *Transform) LocalMatrix() math3d.Mat4 {
	return math3d.TRS(t.localPosition, t.localRotation, t.localScale)
}

// LocalToWorld returns the matrix from local to world space.
func (t *Transform) LocalToWorld() math3d.Mat4 {
	m := t.LocalMatrix()
	for p := t.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// Position returns the world position.
func (t *Transform) Position() math3d.Vec3 {
	return t.LocalToWorld().Translation()
}

// Rotation returns the world rotation.
func (t *Transform) Rotation() math3d.Quat {
	r := t.localRotation
	for p := t.parent; p != nil; p = p.parent {
		r = p.localRotation.Mul(r)
	}
	return r
}

// LossyScale returns the accumulated scale, ignoring any skew introduced by
// rotated non-uniform parents.
func (t *Transform) LossyScale() math3d.Vec3 {
	s := t.localScale
	for p := t.parent; p != nil; p = p.parent {
		s = s.Mul(p.localScale)
	}
	return s
}

// TransformPoint maps a local point to world space.
func (t *Transform) TransformPoint(p math3d.Vec3) math3d.Vec3 {
	return t.LocalToWorld().MulVec3(p)
}
