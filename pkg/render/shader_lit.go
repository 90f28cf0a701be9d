package render

import (
	"math"

	"github.com/taigrr/umbra/pkg/math3d"
)

// Stock lighting and shadow parameters.
const (
	DefaultAmbient           = 0.05
	DefaultSpecular          = 0.1
	DefaultShininess         = 100
	DefaultShadowBias        = 0.01
	DefaultShadowAttenuation = 0.3
)

// PointLight describes the single light of a lit render.
type PointLight struct {
	Position  math3d.Vec3
	Color     math3d.Vec3 // Specular intensity per channel
	Ambient   float64
	Specular  float64
	Shininess float64
}

// ShadowMap is a depth render from the light plus the matrix that takes
// world space into its raster space.
type ShadowMap struct {
	Target        *Target
	WorldToShadow math3d.Mat4
	Bias          float64
	Attenuation   float64 // Intensity factor applied to shadowed fragments
}

// LitShader does Lambert diffuse, a fixed ambient term and Blinn-Phong
// specular toward one point light, optionally shadowed by a ShadowMap.
type LitShader struct {
	Transform
	Diffuse   *Texture
	NormalMap *Texture // Optional model-space normal map
	CameraPos math3d.Vec3
	Light     PointLight
	Shadow    *ShadowMap // Optional

	modelToShadow math3d.Mat4
}

// NewLitShader creates a lit shader. Light and shadow parameters are used
// as given, zero included; shadow may be nil.
func NewLitShader(tr Transform, diffuse, normalMap *Texture, cameraPos math3d.Vec3, light PointLight, shadow *ShadowMap) *LitShader {
	s := &LitShader{
		Transform: tr,
		Diffuse:   diffuse,
		NormalMap: normalMap,
		CameraPos: cameraPos,
		Light:     light,
	}
	if shadow != nil && shadow.Target != nil {
		s.Shadow = shadow
		s.modelToShadow = shadow.WorldToShadow.Mul(tr.Model)
	}
	return s
}

// Fragment implements Shader.
func (s *LitShader) Fragment(tri *Triangle, bc math3d.Vec3) (math3d.Vec3, bool) {
	uv := tri.UV(bc)
	local := tri.Local(bc)
	albedo := s.Diffuse.Sample(uv)

	n := tri.Normal(bc)
	if s.NormalMap != nil {
		n = s.NormalMap.Sample(uv).Scale(2).Sub(math3d.Splat3(1))
	}
	n = s.WorldNormal(n)

	world := s.WorldPosition(local)
	l := s.Light.Position.Sub(world).Normalize()
	v := s.CameraPos.Sub(world).Normalize()
	h := l.Add(v).Scale(0.5).Normalize()

	diffuse := albedo.Scale(math.Max(0, n.Dot(l)))
	spec := s.Light.Color.Scale(s.Light.Specular * math.Pow(math.Max(0, h.Dot(n)), s.Light.Shininess))
	intensity := diffuse.Add(spec).Add(math3d.Splat3(s.Light.Ambient))

	return intensity.Clamp(0, 1).Scale(s.visibility(local)), true
}

// visibility returns 1 for a lit fragment and the shadow attenuation for
// one hidden from the light.
func (s *LitShader) visibility(local math3d.Vec3) float64 {
	if s.Shadow == nil {
		return 1
	}
	sm := s.Shadow.Target
	p := s.modelToShadow.MulVec3(local)
	x := clampInt(int(p.X), 0, sm.Width-1)
	y := clampInt(int(p.Y), 0, sm.Height-1)

	// Nearer is larger: the fragment is hidden when the stored occluder is
	// nearer to the light than the fragment by more than the bias.
	if sm.At(x, y).X > math.Abs(p.Z)+s.Shadow.Bias {
		return s.Shadow.Attenuation
	}
	return 1
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
