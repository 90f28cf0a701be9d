// umbra - Shadow-mapped software renderer
// Render OBJ and glTF meshes to PNG with a CPU rasterizer: a depth pass
// from the light, then a lit, textured pass from the camera.
//
// Examples:
//
//	umbra -texture diffuse.tga -normal-map nm.tga head.obj
//	umbra -config scene.yaml -o head.png -shadow-out depth.png
//	umbra -frames 90 -fps 30 -o spin.png head.glb
//	umbra -shading depth -preview 100 head.obj
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/taigrr/umbra/pkg/math3d"
	"github.com/taigrr/umbra/pkg/models"
	"github.com/taigrr/umbra/pkg/render"
	"github.com/taigrr/umbra/pkg/scene"
)

var (
	configPath    = flag.String("config", "", "Path to YAML scene config")
	outputPath    = flag.String("o", "output.png", "Output PNG path")
	shadowOutPath = flag.String("shadow-out", "", "Also write the shadow map to this PNG")
	texturePath   = flag.String("texture", "", "Path to diffuse texture (PNG/JPG/TGA/BMP/TIFF/WebP)")
	normalMapPath = flag.String("normal-map", "", "Path to model-space normal map")
	shading       = flag.String("shading", "", "Shading mode: lit, unlit or depth")
	width         = flag.Int("width", 0, "Output width (overrides config)")
	height        = flag.Int("height", 0, "Output height (overrides config)")
	smSize        = flag.Int("sm-size", 0, "Shadow map size in pixels (square)")
	fitShadow     = flag.Bool("fit", false, "Fit the shadow volume to the mesh bounds")
	simplify      = flag.Float64("simplify", 0, "Draw a decimated proxy into the shadow map (0-1)")
	previewCols   = flag.Int("preview", 0, "Print a terminal preview this many columns wide (-1 fits the terminal)")
	frames        = flag.Int("frames", 0, "Render a turntable of N frames")
	fps           = flag.Int("fps", 30, "Turntable frame rate")
	wireframe     = flag.Bool("wireframe", false, "Overlay a wireframe")
	verbose       = flag.Bool("v", false, "Verbose logging (pass statistics)")
	quiet         = flag.Bool("q", false, "Quiet: no progress bars, warnings only")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "umbra - Shadow-mapped software renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: umbra [options] <mesh.obj|mesh.gltf|mesh.glb>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nThe mesh may also be named in the config under assets.mesh.\n")
	}
	flag.Parse()

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Fallback diffuse texture for meshes rendered without one.
var (
	checkerLight = math3d.V3(0.8, 0.8, 0.8)
	checkerDark  = math3d.V3(0.45, 0.45, 0.45)
)

func newLogger() *slog.Logger {
	level := log.InfoLevel
	switch {
	case *verbose:
		level = log.DebugLevel
	case *quiet:
		level = log.WarnLevel
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "umbra",
	})
	return slog.New(handler)
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(meshPath string) (scene.Config, error) {
	cfg := scene.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = scene.LoadConfig(*configPath); err != nil {
			return cfg, err
		}
	}

	if meshPath != "" {
		cfg.Assets.Mesh = meshPath
	}
	if *texturePath != "" {
		cfg.Assets.Diffuse = *texturePath
	}
	if *normalMapPath != "" {
		cfg.Assets.NormalMap = *normalMapPath
	}
	if *shading != "" {
		cfg.Shading = *shading
	}
	if *width > 0 {
		cfg.Output.Width = *width
	}
	if *height > 0 {
		cfg.Output.Height = *height
	}
	if *smSize > 0 {
		cfg.Shadow.Width, cfg.Shadow.Height = *smSize, *smSize
	}
	if *fitShadow {
		cfg.Shadow.Fit = true
	}
	if *simplify > 0 {
		cfg.Shadow.Simplify = *simplify
	}
	if *wireframe {
		cfg.Debug.Wireframe = true
	}
	return cfg, cfg.Validate()
}

func loadAssets(cfg scene.Config, logger *slog.Logger) (scene.Assets, error) {
	var assets scene.Assets
	if cfg.Assets.Mesh == "" {
		return assets, fmt.Errorf("no mesh given: %w", scene.ErrNoMesh)
	}

	mesh, err := models.Load(cfg.Assets.Mesh)
	if err != nil {
		return assets, err
	}
	assets.Mesh = mesh
	logger.Info("loaded mesh",
		"name", mesh.Name,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount())

	if assets.Diffuse, err = loadDiffuse(cfg.Assets.Diffuse); err != nil {
		return assets, err
	}
	logger.Debug("diffuse texture", "path", cfg.Assets.Diffuse,
		"size", fmt.Sprintf("%dx%d", assets.Diffuse.Width, assets.Diffuse.Height))
	if cfg.Assets.NormalMap != "" {
		if assets.NormalMap, err = render.LoadTexture(cfg.Assets.NormalMap); err != nil {
			return assets, err
		}
		logger.Debug("loaded normal map", "path", cfg.Assets.NormalMap)
	}
	return assets, nil
}

// loadDiffuse loads the diffuse texture, or a checkerboard when path is
// empty so untextured meshes still show their texture coordinates.
func loadDiffuse(path string) (*render.Texture, error) {
	if path == "" {
		return render.NewCheckerTexture(64, 64, 8, checkerLight, checkerDark), nil
	}
	return render.LoadTexture(path)
}

func run(meshPath string) error {
	logger := newLogger()
	slog.SetDefault(logger)

	cfg, err := loadConfig(meshPath)
	if err != nil {
		return err
	}
	assets, err := loadAssets(cfg, logger)
	if err != nil {
		return err
	}

	opts := []scene.Option{scene.WithLogger(logger)}
	if !*quiet {
		opts = append(opts, scene.WithProgress(&barProgress{}))
	}
	r := scene.NewRenderer(cfg, assets, opts...)

	if *frames > 0 {
		return r.Turntable(*frames, *fps, saveFrames(*frames, logger, os.Stdout))
	}

	start := time.Now()
	res, err := r.Render()
	if err != nil {
		return err
	}
	logger.Debug("render complete", "elapsed", time.Since(start))

	if err := res.Final.SavePNG(*outputPath); err != nil {
		return err
	}
	logger.Info("wrote image", "path", *outputPath,
		"size", fmt.Sprintf("%dx%d", res.Final.Width, res.Final.Height))

	if err := writeShadowMap(res, logger); err != nil {
		return err
	}
	writePreview(os.Stdout, res.Final)
	return nil
}

// saveFrames writes each turntable frame next to the output path. The
// shadow map is written with the first frame and the preview shows the
// last.
func saveFrames(total int, logger *slog.Logger, preview io.Writer) scene.FrameFunc {
	return func(frame int, res *scene.Result) error {
		path := framePath(*outputPath, frame)
		if err := res.Final.SavePNG(path); err != nil {
			return err
		}
		logger.Info("wrote frame", "frame", frame, "path", path)
		if frame == 0 {
			if err := writeShadowMap(res, logger); err != nil {
				return err
			}
		}
		if frame == total-1 {
			writePreview(preview, res.Final)
		}
		return nil
	}
}

func writePreview(w io.Writer, t *render.Target) {
	if cols := previewWidth(*previewCols); cols > 0 {
		fmt.Fprintln(w, t.Preview(cols))
	}
}

// previewWidth resolves the -preview flag; negative means the width of the
// terminal on stdout, or 80 columns when stdout is not a terminal.
func previewWidth(cols int) int {
	if cols >= 0 {
		return cols
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func writeShadowMap(res *scene.Result, logger *slog.Logger) error {
	if *shadowOutPath == "" {
		return nil
	}
	if res.ShadowMap == nil {
		logger.Warn("no shadow map to write; shadows need lit shading with shadow.enabled")
		return nil
	}
	if err := res.ShadowMap.SavePNG(*shadowOutPath); err != nil {
		return err
	}
	logger.Info("wrote shadow map", "path", *shadowOutPath)
	return nil
}

// framePath turns out.png into out_007.png for frame 7.
func framePath(out string, frame int) string {
	ext := filepath.Ext(out)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(out, ext), frame, ext)
}

// barProgress shows one progress bar per render pass.
type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p *barProgress) Begin(pass string, faces int) {
	p.bar = progressbar.Default(int64(faces), pass)
}

func (p *barProgress) Step() {
	_ = p.bar.Add(1)
}

func (p *barProgress) End() {
	_ = p.bar.Finish()
}
