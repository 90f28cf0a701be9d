package models

import (
	"math"
	"testing"

	"github.com/taigrr/umbra/pkg/math3d"
)

// grid returns an n x n flat grid of quads in the z=0 plane.
func grid(n int) *Mesh {
	m := NewMesh("grid")
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			m.Positions = append(m.Positions, math3d.V3(float64(x), float64(y), 0))
		}
	}
	at := func(x, y int) int { return y*(n+1) + x }
	missing := [3]int{-1, -1, -1}
	for y := range n {
		for x := range n {
			m.Faces = append(m.Faces,
				Face{V: [3]int{at(x, y), at(x+1, y), at(x+1, y+1)}, T: missing, N: missing},
				Face{V: [3]int{at(x, y), at(x+1, y+1), at(x, y+1)}, T: missing, N: missing},
			)
		}
	}
	m.EnsureAttributes()
	m.CalculateBounds()
	return m
}

func TestSimplify(t *testing.T) {
	m := grid(8)
	proxy := Simplify(m, 0.25)

	if proxy.TriangleCount() == 0 || proxy.TriangleCount() >= m.TriangleCount() {
		t.Errorf("proxy has %d triangles, original %d", proxy.TriangleCount(), m.TriangleCount())
	}
	if err := proxy.Validate(); err != nil {
		t.Fatalf("proxy invalid: %v", err)
	}
	for i := range proxy.TriangleCount() {
		pos, _, uv := proxy.Corner(i, 0)
		if math.Abs(pos.Z) > 1e-9 || uv != (math3d.Vec2{}) {
			t.Fatalf("face %d corner = %v %v, want the grid plane and zero uv", i, pos, uv)
		}
	}

	lo, hi := proxy.Bounds()
	const tol = 1e-9
	if math.Abs(lo.Z) > tol || math.Abs(hi.Z) > tol || hi.X > 8+tol || hi.Y > 8+tol || lo.X < -tol || lo.Y < -tol {
		t.Errorf("proxy bounds %v, %v escape the grid", lo, hi)
	}
}

func TestSimplifyPassThrough(t *testing.T) {
	m := grid(2)
	for _, factor := range []float64{0, 1, 1.5, -1} {
		proxy := Simplify(m, factor)
		if proxy.TriangleCount() != m.TriangleCount() {
			t.Errorf("Simplify(%v) changed the triangle count to %d", factor, proxy.TriangleCount())
		}
		proxy.Positions[0] = math3d.V3(5, 5, 5)
		if m.Positions[0] == proxy.Positions[0] {
			t.Errorf("Simplify(%v) shares storage with the original", factor)
		}
	}
}
