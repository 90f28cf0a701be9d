package render

import "github.com/taigrr/umbra/pkg/math3d"

// Box is the x/y extent of an orthographic projection in view space.
type Box struct {
	Left, Right, Bottom, Top float64
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Expand grows the box by pad on every side.
func (b AABB) Expand(pad float64) AABB {
	p := math3d.Splat3(pad)
	return AABB{Min: b.Min.Sub(p), Max: b.Max.Add(p)}
}

// Transform returns an AABB that bounds the original AABB after transformation.
// This computes a new AABB that contains all 8 transformed corners.
func (b AABB) Transform(m math3d.Mat4) AABB {
	out := AABB{Min: m.MulVec3(b.Min), Max: m.MulVec3(b.Min)}
	for i := 1; i < 8; i++ {
		corner := b.Min
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		p := m.MulVec3(corner)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// FitOrtho returns the tightest orthographic box and signed near/far planes
// that contain b (given in world space) as seen through view, grown by pad.
func (b AABB) FitOrtho(view math3d.Mat4, pad float64) (box Box, near, far float64) {
	v := b.Transform(view).Expand(pad)
	box = Box{Left: v.Min.X, Right: v.Max.X, Bottom: v.Min.Y, Top: v.Max.Y}
	return box, v.Max.Z, v.Min.Z
}
