package render

import "github.com/taigrr/umbra/pkg/math3d"

// Vertex is what a shader's vertex stage hands to the rasterizer.
type Vertex struct {
	Raster math3d.Vec3 // Target pixel space; Z is kept for the depth test
	UV     math3d.Vec2
	Normal math3d.Vec3
	Local  math3d.Vec3 // Position before any transform, for lighting
}

// Triangle is the unit the rasterizer draws.
type Triangle [3]Vertex

// Depth interpolates raster z at the barycentric weights bc.
func (t *Triangle) Depth(bc math3d.Vec3) float64 {
	return t[0].Raster.Z*bc.X + t[1].Raster.Z*bc.Y + t[2].Raster.Z*bc.Z
}

// UV interpolates the texture coordinate.
func (t *Triangle) UV(bc math3d.Vec3) math3d.Vec2 {
	return math3d.Weighted2(t[0].UV, t[1].UV, t[2].UV, bc)
}

// Normal interpolates the vertex normals. The result is not normalized.
func (t *Triangle) Normal(bc math3d.Vec3) math3d.Vec3 {
	return math3d.Weighted(t[0].Normal, t[1].Normal, t[2].Normal, bc)
}

// Local interpolates the untransformed position.
func (t *Triangle) Local(bc math3d.Vec3) math3d.Vec3 {
	return math3d.Weighted(t[0].Local, t[1].Local, t[2].Local, bc)
}
