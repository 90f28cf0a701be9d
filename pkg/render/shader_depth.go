package render

import (
	"math"

	"github.com/taigrr/umbra/pkg/math3d"
)

// DepthShader writes the interpolated raster depth as grey. Rendered from a
// light, its target becomes a shadow map: the red channel of each pixel is
// the depth of the nearest occluder.
type DepthShader struct {
	Transform
}

// NewDepthShader creates a depth-only shader.
func NewDepthShader(model, view, projection math3d.Mat4) *DepthShader {
	return &DepthShader{Transform: NewTransform(model, view, projection)}
}

// Fragment implements Shader.
func (s *DepthShader) Fragment(tri *Triangle, bc math3d.Vec3) (math3d.Vec3, bool) {
	return math3d.Splat3(math.Abs(tri.Depth(bc))), true
}
