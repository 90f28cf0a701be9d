// Package scene drives a complete render: configuration, the shadow pass
// from the light, the final pass from the camera and turntable sequences.
package scene

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/umbra/pkg/math3d"
	"github.com/taigrr/umbra/pkg/render"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Shading modes.
const (
	ShadingLit   = "lit"
	ShadingUnlit = "unlit"
	ShadingDepth = "depth"
)

// Config describes one render. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	Output  OutputConfig `yaml:"output"`
	Shading string       `yaml:"shading"`
	Model   ModelConfig  `yaml:"model"`
	Camera  CameraConfig `yaml:"camera"`
	Light   LightConfig  `yaml:"light"`
	Shadow  ShadowConfig `yaml:"shadow"`
	Assets  AssetsConfig `yaml:"assets"`
	Debug   DebugConfig  `yaml:"debug"`
}

// OutputConfig is the size of the final image in pixels.
type OutputConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ModelConfig places the mesh in the world: scale first, then translate.
type ModelConfig struct {
	Translate [3]float64 `yaml:"translate"`
	Scale     [3]float64 `yaml:"scale"`
}

// CameraConfig is the viewing camera.
type CameraConfig struct {
	Position [3]float64 `yaml:"position"`
	Focus    [3]float64 `yaml:"focus"`
	Up       [3]float64 `yaml:"up"`
	FOV      float64    `yaml:"fov"`  // Degrees
	Near     float64    `yaml:"near"` // Signed view-space z, negative
	Far      float64    `yaml:"far"`
}

// LightConfig is the point light and the shading terms of lit renders.
type LightConfig struct {
	Position  [3]float64 `yaml:"position"`
	Color     [3]float64 `yaml:"color"`
	Direction [3]float64 `yaml:"direction"` // Toward the light, unlit shading only
	Ambient   float64    `yaml:"ambient"`
	Specular  float64    `yaml:"specular"`
	Shininess float64    `yaml:"shininess"`
}

// ShadowConfig controls the depth render from the light.
type ShadowConfig struct {
	Enabled     bool      `yaml:"enabled"`
	Width       int       `yaml:"width"`
	Height      int       `yaml:"height"`
	Box         BoxConfig `yaml:"box"`
	Fit         bool      `yaml:"fit"` // Derive box and planes from the mesh bounds
	Bias        float64   `yaml:"bias"`
	Attenuation float64   `yaml:"attenuation"`
	Simplify    float64   `yaml:"simplify"` // Proxy triangle ratio; 0 draws the full mesh
}

// BoxConfig is the light-space extent of an orthographic shadow map.
type BoxConfig struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Top    float64 `yaml:"top"`
}

// AssetsConfig names the files to load. Empty paths are skipped.
type AssetsConfig struct {
	Mesh      string `yaml:"mesh"`
	Diffuse   string `yaml:"diffuse"`
	NormalMap string `yaml:"normal_map"`
}

// DebugConfig holds diagnostic overlays.
type DebugConfig struct {
	Wireframe bool `yaml:"wireframe"`
}

// DefaultConfig returns the stock scene: an 800x800 image of a mesh scaled
// by 10 and pushed 30 units down -z, lit from the upper right with a
// 2000x2000 shadow map.
func DefaultConfig() Config {
	return Config{
		Output:  OutputConfig{Width: 800, Height: 800},
		Shading: ShadingLit,
		Model: ModelConfig{
			Translate: [3]float64{0, 0, -30},
			Scale:     [3]float64{10, 10, 10},
		},
		Camera: CameraConfig{
			Position: [3]float64{0, 0, 0},
			Focus:    [3]float64{0, 0, -30},
			Up:       [3]float64{0, 1, 0},
			FOV:      45,
			Near:     -1,
			Far:      -60,
		},
		Light: LightConfig{
			Position:  [3]float64{10, 10, 0},
			Color:     [3]float64{5, 5, 5},
			Direction: [3]float64{0, 0, 1},
			Ambient:   render.DefaultAmbient,
			Specular:  render.DefaultSpecular,
			Shininess: render.DefaultShininess,
		},
		Shadow: ShadowConfig{
			Enabled:     true,
			Width:       2000,
			Height:      2000,
			Box:         BoxConfig{Left: -50, Right: 50, Bottom: -50, Top: 50},
			Bias:        render.DefaultShadowBias,
			Attenuation: render.DefaultShadowAttenuation,
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig, so a file only needs
// the keys it changes.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first problem with the configuration.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return invalid("output size %dx%d", c.Output.Width, c.Output.Height)
	}
	switch c.Shading {
	case ShadingLit, ShadingUnlit, ShadingDepth:
	default:
		return invalid("unknown shading %q", c.Shading)
	}
	if !(c.Camera.Near > c.Camera.Far) {
		return invalid("camera near %v must be greater than far %v", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Near >= 0 {
		return invalid("camera near %v must be negative", c.Camera.Near)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return invalid("camera fov %v", c.Camera.FOV)
	}
	if vec(c.Camera.Position) == vec(c.Camera.Focus) {
		return invalid("camera position equals focus")
	}
	l := c.Light
	if l.Ambient < 0 || l.Specular < 0 || l.Shininess < 0 {
		return invalid("light ambient %v, specular %v and shininess %v must not be negative", l.Ambient, l.Specular, l.Shininess)
	}
	if c.Shadow.Bias < 0 {
		return invalid("shadow bias %v is negative", c.Shadow.Bias)
	}
	if c.Shadow.Attenuation < 0 || c.Shadow.Attenuation > 1 {
		return invalid("shadow attenuation %v outside [0,1]", c.Shadow.Attenuation)
	}
	if c.Shadow.Enabled && c.Shading == ShadingLit {
		if c.Shadow.Width <= 0 || c.Shadow.Height <= 0 {
			return invalid("shadow map size %dx%d", c.Shadow.Width, c.Shadow.Height)
		}
		b := c.Shadow.Box
		if !c.Shadow.Fit && (b.Left >= b.Right || b.Bottom >= b.Top) {
			return invalid("shadow box %+v", b)
		}
		if vec(c.Light.Position) == vec(c.Camera.Focus) {
			return invalid("light position equals focus")
		}
	}
	if c.Shadow.Simplify < 0 || c.Shadow.Simplify > 1 {
		return invalid("shadow simplify %v outside [0,1]", c.Shadow.Simplify)
	}
	return nil
}

// FOVRadians returns the camera field of view in radians.
func (c *Config) FOVRadians() float64 {
	return c.Camera.FOV * math.Pi / 180
}

// ModelMatrix returns the model-to-world transform.
func (c *Config) ModelMatrix() math3d.Mat4 {
	return math3d.Model(vec(c.Model.Translate), vec(c.Model.Scale))
}

// NewCamera returns the viewing camera.
func (c *Config) NewCamera() *render.Camera {
	cam := render.NewCamera(vec(c.Camera.Position), vec(c.Camera.Focus), vec(c.Camera.Up))
	cam.FOV = c.FOVRadians()
	cam.Near, cam.Far = c.Camera.Near, c.Camera.Far
	return cam
}

// NewLightCamera returns the camera the shadow map is rendered from: it
// sits at the light and looks at the scene focus.
func (c *Config) NewLightCamera() *render.Camera {
	cam := render.NewCamera(vec(c.Light.Position), vec(c.Camera.Focus), vec(c.Camera.Up))
	cam.Near, cam.Far = c.Camera.Near, c.Camera.Far
	return cam
}

func vec(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}
