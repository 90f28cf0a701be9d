package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Output.Width != 800 || cfg.Output.Height != 800 {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Shadow.Width != 2000 || cfg.Shadow.Box.Left != -50 || cfg.Shadow.Box.Top != 50 {
		t.Errorf("shadow = %+v", cfg.Shadow)
	}
	if math.Abs(cfg.FOVRadians()-math.Pi/4) > 1e-12 {
		t.Errorf("FOVRadians = %v, want pi/4", cfg.FOVRadians())
	}

	// The mesh origin lands on the focus.
	origin := cfg.ModelMatrix().MulVec3(vec([3]float64{}))
	if origin != vec(cfg.Camera.Focus) {
		t.Errorf("model origin = %v, want the focus", origin)
	}

	cam := cfg.NewCamera()
	if cam.Near != -1 || cam.Far != -60 || math.Abs(cam.FOV-math.Pi/4) > 1e-12 {
		t.Errorf("camera = %+v", cam)
	}
	if light := cfg.NewLightCamera(); light.Position != vec(cfg.Light.Position) || light.Focus != cam.Focus {
		t.Errorf("light camera = %+v", light)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := []byte(`
output: {width: 320, height: 200}
shading: unlit
camera:
  position: [0, 5, 10]
shadow:
  enabled: false
assets:
  mesh: head.obj
  normal_map: nm.tga
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Output.Width != 320 || cfg.Output.Height != 200 || cfg.Shading != ShadingUnlit {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Camera.Position != [3]float64{0, 5, 10} || cfg.Shadow.Enabled {
		t.Errorf("nested overrides not applied: %+v %+v", cfg.Camera, cfg.Shadow)
	}
	if cfg.Assets.Mesh != "head.obj" || cfg.Assets.NormalMap != "nm.tga" {
		t.Errorf("assets = %+v", cfg.Assets)
	}
	// Keys the file leaves out keep their defaults.
	if cfg.Camera.Focus != [3]float64{0, 0, -30} || cfg.Camera.Far != -60 || cfg.Light.Color != [3]float64{5, 5, 5} {
		t.Errorf("defaults lost: %+v %+v", cfg.Camera, cfg.Light)
	}
}

func TestLoadConfigKeepsZeroTerms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dark.yaml")
	data := []byte(`
light: {ambient: 0, specular: 0}
shadow: {bias: 0, attenuation: 0}
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Light.Ambient != 0 || cfg.Light.Specular != 0 || cfg.Shadow.Bias != 0 || cfg.Shadow.Attenuation != 0 {
		t.Errorf("zero terms replaced: %+v %+v", cfg.Light, cfg.Shadow)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadConfig on a missing file succeeded")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("output: [1, 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("LoadConfig on malformed YAML succeeded")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Output.Width = 0 }},
		{"negative height", func(c *Config) { c.Output.Height = -4 }},
		{"unknown shading", func(c *Config) { c.Shading = "toon" }},
		{"near behind far", func(c *Config) { c.Camera.Near, c.Camera.Far = -60, -1 }},
		{"near equals far", func(c *Config) { c.Camera.Far = c.Camera.Near }},
		{"positive near", func(c *Config) { c.Camera.Near, c.Camera.Far = 1, -60 }},
		{"zero fov", func(c *Config) { c.Camera.FOV = 0 }},
		{"camera on focus", func(c *Config) { c.Camera.Position = c.Camera.Focus }},
		{"empty shadow map", func(c *Config) { c.Shadow.Height = 0 }},
		{"inverted shadow box", func(c *Config) { c.Shadow.Box.Left, c.Shadow.Box.Right = 5, -5 }},
		{"light on focus", func(c *Config) { c.Light.Position = c.Camera.Focus }},
		{"simplify above one", func(c *Config) { c.Shadow.Simplify = 1.5 }},
		{"negative simplify", func(c *Config) { c.Shadow.Simplify = -0.1 }},
		{"negative ambient", func(c *Config) { c.Light.Ambient = -0.1 }},
		{"negative specular", func(c *Config) { c.Light.Specular = -1 }},
		{"negative shininess", func(c *Config) { c.Light.Shininess = -2 }},
		{"negative bias", func(c *Config) { c.Shadow.Bias = -0.01 }},
		{"attenuation above one", func(c *Config) { c.Shadow.Attenuation = 1.5 }},
		{"negative attenuation", func(c *Config) { c.Shadow.Attenuation = -0.2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}

	// Shadow settings only matter when a shadow pass will run.
	cfg := DefaultConfig()
	cfg.Shading = ShadingDepth
	cfg.Shadow.Width = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("depth shading rejected for its unused shadow map: %v", err)
	}
	cfg = DefaultConfig()
	cfg.Shadow.Fit = true
	cfg.Shadow.Box = BoxConfig{}
	if err := cfg.Validate(); err != nil {
		t.Errorf("fitted shadow rejected for its unused box: %v", err)
	}
}
