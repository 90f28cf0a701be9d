package render

import (
	"bytes"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/taigrr/umbra/pkg/math3d"
)

func TestNewTarget(t *testing.T) {
	target := NewTarget(7, 5)
	if len(target.Color) != 35 || len(target.Depth) != 35 {
		t.Fatalf("buffer sizes = %d, %d, want 35", len(target.Color), len(target.Depth))
	}
	for i, d := range target.Depth {
		if d != EmptyDepth {
			t.Fatalf("depth[%d] = %v, want EmptyDepth", i, d)
		}
	}
	// Any finite depth must win the first comparison.
	for _, z := range []float64{-1e300, -60, 0, 1} {
		if !(z > EmptyDepth) {
			t.Errorf("%v does not beat the empty depth", z)
		}
	}
}

func TestTargetBounds(t *testing.T) {
	target := NewTarget(4, 4)
	red := math3d.V3(1, 0, 0)

	target.Set(-1, 0, red)
	target.Set(0, 4, red)
	target.SetDepth(4, 0, 3)
	for _, c := range target.Color {
		if c != (math3d.Vec3{}) {
			t.Fatal("out of range Set wrote into the buffer")
		}
	}
	if got := target.At(10, 10); got != (math3d.Vec3{}) {
		t.Errorf("At out of range = %v, want black", got)
	}
	if got := target.DepthAt(-3, 1); got != EmptyDepth {
		t.Errorf("DepthAt out of range = %v, want EmptyDepth", got)
	}

	target.Set(3, 2, red)
	if got := target.At(3, 2); got != red {
		t.Errorf("At(3, 2) = %v, want red", got)
	}
}

func TestTargetClear(t *testing.T) {
	target := NewTarget(9, 3)
	target.SetDepth(1, 1, 4)
	target.Clear(math3d.V3(0.5, 0.5, 0.5))
	target.ClearDepth()

	for i := range target.Color {
		if target.Color[i] != math3d.V3(0.5, 0.5, 0.5) || target.Depth[i] != EmptyDepth {
			t.Fatalf("cell %d not cleared", i)
		}
	}
}

func TestToRGBA(t *testing.T) {
	tests := []struct {
		name string
		in   math3d.Vec3
		want color.RGBA
	}{
		{"black", math3d.V3(0, 0, 0), color.RGBA{0, 0, 0, 255}},
		{"white", math3d.V3(1, 1, 1), color.RGBA{255, 255, 255, 255}},
		{"clamped", math3d.V3(-2, 7, 0.5), color.RGBA{0, 255, 127, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGBA(tt.in); got != tt.want {
				t.Errorf("ToRGBA(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestToImageFlipsRows(t *testing.T) {
	target := NewTarget(3, 4)
	target.Set(0, 0, math3d.V3(1, 0, 0)) // bottom left
	target.Set(2, 3, math3d.V3(0, 0, 1)) // top right

	img := target.ToImage()
	if got := img.RGBAAt(0, 3); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("logical (0,0) landed as %v at image bottom left", got)
	}
	if got := img.RGBAAt(2, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("logical (2,3) landed as %v at image top right", got)
	}
}

func TestSavePNG(t *testing.T) {
	target := NewTarget(5, 5)
	target.Set(1, 0, math3d.V3(0, 1, 0))

	path := filepath.Join(t.TempDir(), "out.png")
	if err := target.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	var buf bytes.Buffer
	if err := target.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := img.At(1, 4).RGBA()
	if r != 0 || g != 0xffff || b != 0 {
		t.Errorf("pixel = %v %v %v, want green", r, g, b)
	}

	if err := target.SavePNG(filepath.Join(t.TempDir(), "missing", "out.png")); err == nil {
		t.Error("SavePNG into a missing directory succeeded")
	}
}
