package render

import (
	"log/slog"
	"math"

	"github.com/taigrr/umbra/pkg/math3d"
)

// degenerateArea is the smallest |cross.z| (twice the screen-space area)
// a triangle may have before it is treated as having no area at all.
const degenerateArea = 1e-2

// degenerate is returned by Barycentric for zero-area triangles. Its first
// weight is negative, so no pixel ever passes the inside test.
var degenerate = math3d.V3(-1, 1, 1)

// Rasterizer draws triangles into one Target, depth testing against the
// target's own depth buffer.
type Rasterizer struct {
	target *Target
	Stats  RasterStats // Counters for the current pass
}

// RasterStats counts what happened during a pass.
type RasterStats struct {
	Triangles        int // Triangles submitted
	Degenerate       int // Rejected for having no area
	OffTarget        int // Bounding box entirely outside the target
	FragmentsTested  int // Pixels inside a triangle
	FragmentsPassed  int // Pixels that won the depth test
	FragmentsWritten int // Pixels the shader coloured
	Discarded        int // Pixels the shader discarded
}

// Add accumulates o into s.
func (s *RasterStats) Add(o RasterStats) {
	s.Triangles += o.Triangles
	s.Degenerate += o.Degenerate
	s.OffTarget += o.OffTarget
	s.FragmentsTested += o.FragmentsTested
	s.FragmentsPassed += o.FragmentsPassed
	s.FragmentsWritten += o.FragmentsWritten
	s.Discarded += o.Discarded
}

// LogValue implements slog.LogValuer.
func (s RasterStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("triangles", s.Triangles),
		slog.Int("degenerate", s.Degenerate),
		slog.Int("off_target", s.OffTarget),
		slog.Int("tested", s.FragmentsTested),
		slog.Int("passed", s.FragmentsPassed),
		slog.Int("written", s.FragmentsWritten),
		slog.Int("discarded", s.Discarded),
	)
}

// NewRasterizer creates a rasterizer drawing into target.
func NewRasterizer(target *Target) *Rasterizer {
	return &Rasterizer{target: target}
}

// ResetStats zeroes the counters (call once per pass).
func (r *Rasterizer) ResetStats() {
	r.Stats = RasterStats{}
}

// Barycentric returns the weights of p with respect to triangle abc using
// only x and y. Zero-area triangles yield (-1, 1, 1).
func Barycentric(a, b, c, p math3d.Vec3) math3d.Vec3 {
	cx := math3d.V3(b.X-a.X, c.X-a.X, a.X-p.X)
	cy := math3d.V3(b.Y-a.Y, c.Y-a.Y, a.Y-p.Y)
	uv := cx.Cross(cy)
	if math.Abs(uv.Z) < degenerateArea {
		return degenerate
	}
	u, v := uv.X/uv.Z, uv.Y/uv.Z
	return math3d.V3(1-u-v, u, v)
}

// bounds returns the pixel box covered by the triangle, clamped to the
// target. ok is false when the box lies wholly outside it.
func (r *Rasterizer) bounds(tri *Triangle) (minX, minY, maxX, maxY int, ok bool) {
	w, h := float64(r.target.Width-1), float64(r.target.Height-1)
	a, b, c := tri[0].Raster, tri[1].Raster, tri[2].Raster

	x0, x1 := min(a.X, b.X, c.X), max(a.X, b.X, c.X)
	y0, y1 := min(a.Y, b.Y, c.Y), max(a.Y, b.Y, c.Y)
	if x1 < 0 || y1 < 0 || x0 > w || y0 > h || w < 0 || h < 0 {
		return 0, 0, 0, 0, false
	}
	// NaN from a w=0 divide fails every comparison above; reject it too.
	if math.IsNaN(x0 + x1 + y0 + y1) {
		return 0, 0, 0, 0, false
	}

	minX = int(math.Max(0, x0))
	minY = int(math.Max(0, y0))
	maxX = int(math.Min(w, x1))
	maxY = int(math.Min(h, y1))
	return minX, minY, maxX, maxY, true
}

// DrawTriangle rasterizes one triangle whose vertices are already in raster
// space.
//
// Every integer pixel in the clamped bounding box is tested; a pixel is
// covered when all three weights are >= 0, so shared edges are drawn by
// both neighbours. A covered pixel is shaded only if its interpolated z is
// strictly greater than the stored depth, and colour and depth are written
// only if the fragment stage does not discard.
func (r *Rasterizer) DrawTriangle(shader Shader, tri *Triangle) {
	r.Stats.Triangles++
	a, b, c := tri[0].Raster, tri[1].Raster, tri[2].Raster

	minX, minY, maxX, maxY, ok := r.bounds(tri)
	if !ok {
		r.Stats.OffTarget++
		return
	}
	if Barycentric(a, b, c, a) == degenerate {
		r.Stats.Degenerate++
		return
	}

	t := r.target
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bc := Barycentric(a, b, c, math3d.V3(float64(x), float64(y), 0))
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}
			r.Stats.FragmentsTested++

			i := y*t.Width + x
			z := tri.Depth(bc)
			if !(z > t.Depth[i]) {
				continue
			}
			r.Stats.FragmentsPassed++

			col, keep := shader.Fragment(tri, bc)
			if !keep {
				r.Stats.Discarded++
				continue
			}
			t.Color[i] = col
			t.Depth[i] = z
			r.Stats.FragmentsWritten++
		}
	}
}

// MeshRenderer is the read-only view of a mesh the rasterizer needs. It is
// declared here so render does not import the models package.
type MeshRenderer interface {
	TriangleCount() int
	Corner(face, corner int) (pos, normal math3d.Vec3, uv math3d.Vec2)
}

// ShadeFace runs the vertex stage on the three corners of a face.
func ShadeFace(mesh MeshRenderer, face int, shader Shader) Triangle {
	var tri Triangle
	for k := range 3 {
		pos, n, uv := mesh.Corner(face, k)
		tri[k] = shader.Vertex(pos, uv, n)
	}
	return tri
}

// DrawFace vertex-shades and rasterizes one face of mesh.
func (r *Rasterizer) DrawFace(mesh MeshRenderer, face int, shader Shader) {
	tri := ShadeFace(mesh, face, shader)
	r.DrawTriangle(shader, &tri)
}

// DrawMesh draws every face of mesh in order.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, shader Shader) {
	for i := range mesh.TriangleCount() {
		r.DrawFace(mesh, i, shader)
	}
}
