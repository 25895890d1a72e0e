package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

// Mat4 is a 4x4 matrix stored column-major, typically used to represent
// object transformations.
type Mat4 struct {
	Data [16]float32
}

// Vertex is a single vertex in 3D space. Both demo scenes share the one
// layout; the colored-shape scene ignores Normal/Texcoord and the
// textured scene ignores Colour.
type Vertex struct {
	Position Vec3
	Colour   Vec4
	Normal   Vec3
	Texcoord Vec2
}
