// Package scene is the in-memory host scene that LOD coloration runs
// against: transforms with change tracking, renderers with per-instance
// property blocks, LOD groups, and hierarchy change notifications.
//
// Objects may be destroyed at any time. Holders of a reference must check
// Live before each use.
package scene

import (
	"github.com/google/uuid"
)

// Object is anything in the scene that can be destroyed.
type Object interface {
	ID() uuid.UUID
	// Alive reports whether the object still exists. It is safe to call on a
	// nil pointer.
	Alive() bool
}

// Live reports whether o refers to an existing object. It accepts nil
// interfaces and typed nil pointers.
func Live(o Object) bool {
	return o != nil && o.Alive()
}

// base carries identity and lifetime shared by every scene object.
type base struct {
	id        uuid.UUID
	name      string
	scene     *Scene
	destroyed bool
}

func newBase(s *Scene, name string) base {
	return base{id: uuid.New(), name: name, scene: s}
}
