package render

import "github.com/taigrr/umbra/pkg/math3d"

// Shader is the programmable part of the pipeline.
//
// Vertex turns model attributes into a raster-space Vertex. Fragment shades
// one covered pixel given the triangle and barycentric weights; returning
// false discards the pixel, leaving both colour and depth untouched.
type Shader interface {
	Vertex(local math3d.Vec3, uv math3d.Vec2, normal math3d.Vec3) Vertex
	Fragment(tri *Triangle, bc math3d.Vec3) (math3d.Vec3, bool)
}

// Transform holds the model, view and projection matrices of one pass and
// implements the vertex stage shared by every built-in shader.
type Transform struct {
	Model      math3d.Mat4
	View       math3d.Mat4
	Projection math3d.Mat4

	mvp    math3d.Mat4
	normal math3d.Mat4
}

// NewTransform composes projection * view * model once for the pass.
func NewTransform(model, view, projection math3d.Mat4) Transform {
	return Transform{
		Model:      model,
		View:       view,
		Projection: projection,
		mvp:        projection.Mul(view).Mul(model),
		normal:     model.NormalMatrix(),
	}
}

// MVP returns the composed local-to-raster matrix.
func (t *Transform) MVP() math3d.Mat4 {
	return t.mvp
}

// Vertex projects local into raster space. The homogeneous divide is done
// here, after the matrix product, for both projection kinds.
func (t *Transform) Vertex(local math3d.Vec3, uv math3d.Vec2, normal math3d.Vec3) Vertex {
	return Vertex{
		Raster: t.mvp.MulVec4(math3d.Point(local)).PerspectiveDivide(),
		UV:     uv,
		Normal: normal,
		Local:  local,
	}
}

// WorldNormal carries a model-space normal into world space and normalizes
// it.
func (t *Transform) WorldNormal(n math3d.Vec3) math3d.Vec3 {
	return t.normal.MulVec3Dir(n).Normalize()
}

// WorldPosition carries a model-space point into world space.
func (t *Transform) WorldPosition(p math3d.Vec3) math3d.Vec3 {
	return t.Model.MulVec3(p)
}
