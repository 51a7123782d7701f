package math3d

// Vec2 represents a 2D vector, used for texture coordinates and screen-space
// edges.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}
