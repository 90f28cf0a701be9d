package render

import (
	"math"

	"github.com/taigrr/umbra/pkg/math3d"
)

// DrawWireframe outlines a raster-space triangle. Lines ignore and do not
// update the depth buffer, so the outline is an overlay.
func (r *Rasterizer) DrawWireframe(tri *Triangle, c math3d.Vec3) {
	for k := range 3 {
		p0, p1 := tri[k].Raster, tri[(k+1)%3].Raster
		if !finite(p0) || !finite(p1) {
			continue
		}
		r.target.DrawLine(int(p0.X), int(p0.Y), int(p1.X), int(p1.Y), c)
	}
}

// DrawMeshWireframe outlines every face of mesh as projected by shader.
// Faces whose bounding box misses the target are skipped.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, shader Shader, c math3d.Vec3) {
	for i := range mesh.TriangleCount() {
		tri := ShadeFace(mesh, i, shader)
		if _, _, _, _, ok := r.bounds(&tri); !ok {
			continue
		}
		r.DrawWireframe(&tri, c)
	}
}

func finite(v math3d.Vec3) bool {
	const limit = 1 << 20
	return math.Abs(v.X) < limit && math.Abs(v.Y) < limit
}
