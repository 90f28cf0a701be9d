// Package render implements the CPU rasterization pipeline: render targets,
// textures, the vertex/fragment shader contract, the three built-in shaders
// and the triangle rasterizer.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/taigrr/umbra/pkg/math3d"
)

// EmptyDepth is the value every depth cell starts at. Any finite fragment
// depth compares strictly greater.
const EmptyDepth = -math.MaxFloat64

// Target is a colour buffer with a parallel depth buffer.
//
// Colour is linear RGB in [0,1]; values outside that range are kept and only
// clamped when the target is converted to an image. Row 0 is the bottom of
// the picture.
type Target struct {
	Width  int
	Height int
	Color  []math3d.Vec3 // Row-major, bottom row first
	Depth  []float64
}

// NewTarget creates a black target with an empty depth buffer.
func NewTarget(width, height int) *Target {
	t := &Target{
		Width:  width,
		Height: height,
		Color:  make([]math3d.Vec3, width*height),
		Depth:  make([]float64, width*height),
	}
	t.ClearDepth()
	return t
}

func (t *Target) index(x, y int) (int, bool) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return 0, false
	}
	return y*t.Width + x, true
}

// Clear fills the colour buffer. Depth is left alone.
func (t *Target) Clear(c math3d.Vec3) {
	for i := range t.Color {
		t.Color[i] = c
	}
}

// ClearDepth resets every depth cell to EmptyDepth.
func (t *Target) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(t.Depth)
	if n == 0 {
		return
	}
	t.Depth[0] = EmptyDepth
	for i := 1; i < n; i *= 2 {
		copy(t.Depth[i:], t.Depth[:i])
	}
}

// Set writes a colour at (x, y). Out of range writes are dropped.
func (t *Target) Set(x, y int, c math3d.Vec3) {
	if i, ok := t.index(x, y); ok {
		t.Color[i] = c
	}
}

// At returns the colour at (x, y), or black when out of range.
func (t *Target) At(x, y int) math3d.Vec3 {
	if i, ok := t.index(x, y); ok {
		return t.Color[i]
	}
	return math3d.Vec3{}
}

// SetDepth writes a depth value at (x, y).
func (t *Target) SetDepth(x, y int, z float64) {
	if i, ok := t.index(x, y); ok {
		t.Depth[i] = z
	}
}

// DepthAt returns the stored depth, or EmptyDepth when out of range.
func (t *Target) DepthAt(x, y int) float64 {
	if i, ok := t.index(x, y); ok {
		return t.Depth[i]
	}
	return EmptyDepth
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (t *Target) DrawLine(x0, y0, x1, y1 int, c math3d.Vec3) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		t.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToRGBA converts a linear colour to 8-bit, clamping each channel first.
func ToRGBA(c math3d.Vec3) color.RGBA {
	c = c.Clamp(0, 1)
	return color.RGBA{
		R: uint8(c.X * 255),
		G: uint8(c.Y * 255),
		B: uint8(c.Z * 255),
		A: 255,
	}
}

// ToImage converts the target to an image with the usual top-left origin,
// so logical row y becomes image row Height-1-y.
func (t *Target) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := range t.Height {
		row := t.Height - 1 - y
		for x := range t.Width {
			img.SetRGBA(x, row, ToRGBA(t.Color[y*t.Width+x]))
		}
	}
	return img
}

// EncodePNG writes the target as a PNG.
func (t *Target) EncodePNG(w io.Writer) error {
	return png.Encode(w, t.ToImage())
}

// SavePNG saves the target as a PNG file.
func (t *Target) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	if err := t.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
