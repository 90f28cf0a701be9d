package math3d

// Vec2 holds a texture coordinate.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Scale returns a * s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Clamp limits both components to [lo, hi].
func (a Vec2) Clamp(lo, hi float64) Vec2 {
	return Vec2{clamp(a.X, lo, hi), clamp(a.Y, lo, hi)}
}

// Weighted2 interpolates three texture coordinates with barycentric weights.
func Weighted2(a, b, c Vec2, w Vec3) Vec2 {
	return Vec2{
		a.X*w.X + b.X*w.Y + c.X*w.Z,
		a.Y*w.X + b.Y*w.Y + c.Y*w.Z,
	}
}
