package render

import (
	"math"

	"github.com/taigrr/umbra/pkg/math3d"
)

// UnlitShader modulates a texture by a single Lambert term toward a fixed
// light direction. There is no specular and no shadowing.
type UnlitShader struct {
	Transform
	Texture  *Texture
	LightDir math3d.Vec3 // World-space direction toward the light
}

// NewUnlitShader creates a textured Lambert shader. lightDir is normalized.
func NewUnlitShader(model, view, projection math3d.Mat4, tex *Texture, lightDir math3d.Vec3) *UnlitShader {
	return &UnlitShader{
		Transform: NewTransform(model, view, projection),
		Texture:   tex,
		LightDir:  lightDir.Normalize(),
	}
}

// Fragment implements Shader.
func (s *UnlitShader) Fragment(tri *Triangle, bc math3d.Vec3) (math3d.Vec3, bool) {
	n := s.WorldNormal(tri.Normal(bc))
	lambert := math.Max(0, n.Dot(s.LightDir))
	return s.Texture.Sample(tri.UV(bc)).Scale(lambert), true
}
