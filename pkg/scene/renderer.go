package scene

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/taigrr/umbra/pkg/math3d"
	"github.com/taigrr/umbra/pkg/models"
	"github.com/taigrr/umbra/pkg/render"
)

// ErrNoMesh is returned when a render is started without geometry.
var ErrNoMesh = errors.New("no mesh to render")

// fitPadding grows a fitted shadow volume by this fraction of the mesh
// diagonal so silhouettes do not touch the edge of the shadow map.
const fitPadding = 0.05

// wireColor is the overlay colour for debug wireframes.
var wireColor = math3d.V3(0, 1, 0)

// Progress receives per-face progress for each pass.
type Progress interface {
	Begin(pass string, faces int)
	Step()
	End()
}

type nopProgress struct{}

func (nopProgress) Begin(string, int) {}
func (nopProgress) Step()             {}
func (nopProgress) End()              {}

// Assets is the loaded input of a render. Textures may be nil; a nil
// texture samples as white.
type Assets struct {
	Mesh      *models.Mesh
	Diffuse   *render.Texture
	NormalMap *render.Texture
}

// Result holds the output of a render.
type Result struct {
	Final         *render.Target
	ShadowMap     *render.Target // nil when no shadow pass ran
	WorldToShadow math3d.Mat4
	ShadowStats   render.RasterStats
	FinalStats    render.RasterStats
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger for pass statistics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// WithProgress reports per-face progress of every pass to p.
func WithProgress(p Progress) Option {
	return func(r *Renderer) {
		if p != nil {
			r.progress = p
		}
	}
}

// Renderer runs the two passes of a shadowed render: a depth pass from
// the light, then the shaded pass from the camera.
type Renderer struct {
	cfg      Config
	assets   Assets
	log      *slog.Logger
	progress Progress

	prepared bool
	err      error
	model    math3d.Mat4
	occluder *models.Mesh // Mesh drawn into the shadow map
}

// NewRenderer creates a renderer. Nothing is checked until the first pass.
func NewRenderer(cfg Config, assets Assets, opts ...Option) *Renderer {
	r := &Renderer{
		cfg:      cfg,
		assets:   assets,
		log:      slog.Default(),
		progress: nopProgress{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the configuration the renderer was created with.
func (r *Renderer) Config() Config {
	return r.cfg
}

// prepare validates the inputs and builds what every pass shares. It runs
// once; later calls return the first result.
func (r *Renderer) prepare() error {
	if r.prepared {
		return r.err
	}
	r.prepared = true
	r.err = r.setup()
	return r.err
}

func (r *Renderer) setup() error {
	if err := r.cfg.Validate(); err != nil {
		return err
	}
	mesh := r.assets.Mesh
	if mesh == nil || mesh.TriangleCount() == 0 {
		return ErrNoMesh
	}
	if err := mesh.Validate(); err != nil {
		return fmt.Errorf("mesh %q: %w", mesh.Name, err)
	}
	mesh.CalculateBounds()

	r.model = r.cfg.ModelMatrix()
	r.occluder = mesh
	if f := r.cfg.Shadow.Simplify; r.shadowed() && f > 0 && f < 1 {
		r.occluder = models.Simplify(mesh, f)
		r.log.Debug("shadow proxy",
			"triangles", r.occluder.TriangleCount(),
			"of", mesh.TriangleCount())
	}
	return nil
}

func (r *Renderer) shadowed() bool {
	return r.cfg.Shading == ShadingLit && r.cfg.Shadow.Enabled
}

// Render runs the shadow pass when lit shading has shadows enabled, then
// the final pass from the configured camera.
func (r *Renderer) Render() (*Result, error) {
	if err := r.prepare(); err != nil {
		return nil, err
	}

	res := &Result{}
	var shadow *render.ShadowMap
	if r.shadowed() {
		var err error
		shadow, res.ShadowStats, err = r.ShadowPass()
		if err != nil {
			return nil, err
		}
		res.ShadowMap = shadow.Target
		res.WorldToShadow = shadow.WorldToShadow
	}

	var err error
	res.Final, res.FinalStats, err = r.FinalPass(r.cfg.NewCamera(), shadow)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ShadowPass renders the depth of the scene as seen from the light with an
// orthographic projection.
func (r *Renderer) ShadowPass() (*render.ShadowMap, render.RasterStats, error) {
	if err := r.prepare(); err != nil {
		return nil, render.RasterStats{}, err
	}
	sc := r.cfg.Shadow

	light := r.cfg.NewLightCamera()
	view := light.ViewMatrix()
	box := render.Box{Left: sc.Box.Left, Right: sc.Box.Right, Bottom: sc.Box.Bottom, Top: sc.Box.Top}
	if sc.Fit {
		lo, hi := r.assets.Mesh.Bounds()
		world := render.AABB{Min: lo, Max: hi}.Transform(r.model)
		box, light.Near, light.Far = world.FitOrtho(view, world.Size().Len()*fitPadding)
		r.log.Debug("fitted shadow volume", "box", box, "near", light.Near, "far", light.Far)
	}
	proj := light.Ortho(box, sc.Width, sc.Height)

	target := render.NewTarget(sc.Width, sc.Height)
	rast := render.NewRasterizer(target)
	r.draw("shadow", rast, r.occluder, render.NewDepthShader(r.model, view, proj))

	return &render.ShadowMap{
		Target:        target,
		WorldToShadow: proj.Mul(view),
		Bias:          sc.Bias,
		Attenuation:   sc.Attenuation,
	}, rast.Stats, nil
}

// FinalPass renders the mesh from cam with the configured shading. shadow
// may be nil, in which case nothing is shadowed.
func (r *Renderer) FinalPass(cam *render.Camera, shadow *render.ShadowMap) (*render.Target, render.RasterStats, error) {
	if err := r.prepare(); err != nil {
		return nil, render.RasterStats{}, err
	}
	out := r.cfg.Output

	view := cam.ViewMatrix()
	proj := cam.Perspective(out.Width, out.Height)

	var shader render.Shader
	switch r.cfg.Shading {
	case ShadingLit:
		lc := r.cfg.Light
		light := render.PointLight{
			Position:  vec(lc.Position),
			Color:     vec(lc.Color),
			Ambient:   lc.Ambient,
			Specular:  lc.Specular,
			Shininess: lc.Shininess,
		}
		tr := render.NewTransform(r.model, view, proj)
		shader = render.NewLitShader(tr, r.assets.Diffuse, r.assets.NormalMap, cam.Position, light, shadow)
	case ShadingUnlit:
		shader = render.NewUnlitShader(r.model, view, proj, r.assets.Diffuse, vec(r.cfg.Light.Direction))
	default:
		shader = render.NewDepthShader(r.model, view, proj)
	}

	target := render.NewTarget(out.Width, out.Height)
	rast := render.NewRasterizer(target)
	r.draw("final", rast, r.assets.Mesh, shader)

	if r.cfg.Shading == ShadingDepth {
		normalizeDepth(target, cam.Near, cam.Far)
	}
	if r.cfg.Debug.Wireframe {
		rast.DrawMeshWireframe(r.assets.Mesh, shader, wireColor)
	}
	return target, rast.Stats, nil
}

func (r *Renderer) draw(pass string, rast *render.Rasterizer, mesh *models.Mesh, shader render.Shader) {
	n := mesh.TriangleCount()
	r.progress.Begin(pass, n)
	for i := range n {
		rast.DrawFace(mesh, i, shader)
		r.progress.Step()
	}
	r.progress.End()
	r.log.Debug("pass complete", "pass", pass, "stats", rast.Stats)
}

// normalizeDepth replaces the colour of every covered pixel with its raster
// depth mapped onto [0,1] between the far and near planes, nearer brighter.
func normalizeDepth(t *render.Target, near, far float64) {
	span := near - far
	for i, d := range t.Depth {
		if d == render.EmptyDepth {
			continue
		}
		t.Color[i] = math3d.Splat3((d-far)/span).Clamp(0, 1)
	}
}
