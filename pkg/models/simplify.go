package models

import (
	"github.com/fogleman/simplify"

	"github.com/taigrr/umbra/pkg/math3d"
)

// Simplify returns a decimated copy of the mesh keeping roughly factor of
// its triangles. The proxy carries positions and flat normals only, which
// is all a depth pass needs. A factor outside (0,1) returns a clone.
func Simplify(m *Mesh, factor float64) *Mesh {
	if factor <= 0 || factor >= 1 || len(m.Faces) == 0 {
		return m.Clone()
	}

	tris := make([]*simplify.Triangle, len(m.Faces))
	for i, f := range m.Faces {
		tris[i] = simplify.NewTriangle(
			toSimplify(m.Positions[f.V[0]]),
			toSimplify(m.Positions[f.V[1]]),
			toSimplify(m.Positions[f.V[2]]),
		)
	}
	decimated := simplify.NewMesh(tris).Simplify(factor)

	proxy := NewMesh(m.Name + " (proxy)")
	index := make(map[simplify.Vector]int)
	vertex := func(v simplify.Vector) int {
		if i, ok := index[v]; ok {
			return i
		}
		i := len(proxy.Positions)
		index[v] = i
		proxy.Positions = append(proxy.Positions, math3d.V3(v.X, v.Y, v.Z))
		return i
	}
	for _, t := range decimated.Triangles {
		proxy.Faces = append(proxy.Faces, Face{
			V: [3]int{vertex(t.V1), vertex(t.V2), vertex(t.V3)},
			T: [3]int{-1, -1, -1},
		})
	}

	proxy.CalculateNormals()
	proxy.EnsureAttributes()
	proxy.CalculateBounds()
	return proxy
}

func toSimplify(v math3d.Vec3) simplify.Vector {
	return simplify.Vector{X: v.X, Y: v.Y, Z: v.Z}
}
