package render

import (
	"math"
	"testing"

	"github.com/taigrr/umbra/pkg/math3d"
)

func TestCameraViewMatrix(t *testing.T) {
	cam := NewCamera(math3d.V3(0, 0, 0), math3d.V3(0, 0, -30), math3d.V3(0, 1, 0))
	view := cam.ViewMatrix()

	if got := view.MulVec3(cam.Position); !approx(got, math3d.Vec3{}) {
		t.Errorf("eye in view space = %v, want origin", got)
	}
	if got := view.MulVec3(cam.Focus); !approx(got, math3d.V3(0, 0, -30)) {
		t.Errorf("focus in view space = %v, want (0, 0, -30)", got)
	}

	// Moving the eye invalidates the cached matrix.
	cam.SetPosition(math3d.V3(0, 0, 10))
	if got := cam.ViewMatrix().MulVec3(math3d.V3(0, 0, 10)); !approx(got, math3d.Vec3{}) {
		t.Errorf("stale view matrix: eye maps to %v", got)
	}

	// So does moving the focus.
	cam.SetFocus(math3d.V3(10, 0, 10))
	if got := cam.ViewMatrix().MulVec3(math3d.V3(10, 0, 10)); !approx(got, math3d.V3(0, 0, -10)) {
		t.Errorf("stale view matrix: focus maps to %v, want (0, 0, -10)", got)
	}
}

func TestCameraOrbit(t *testing.T) {
	cam := NewCamera(math3d.V3(0, 0, 0), math3d.V3(0, 0, -30), math3d.V3(0, 1, 0))

	tests := []struct {
		name  string
		angle float64
		want  math3d.Vec3
	}{
		{"none", 0, math3d.V3(0, 0, 0)},
		{"half turn", math.Pi, math3d.V3(0, 0, -60)},
		{"quarter turn", math.Pi / 2, math3d.V3(30, 0, -30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := cam.Orbit(tt.angle)
			d := o.Position.Sub(tt.want).Abs()
			if d.X > 1e-9 || d.Y > 1e-9 || d.Z > 1e-9 {
				t.Errorf("Orbit(%v) eye = %v, want %v", tt.angle, o.Position, tt.want)
			}
			if math.Abs(o.Distance()-30) > 1e-9 {
				t.Errorf("Orbit(%v) distance = %v, want 30", tt.angle, o.Distance())
			}
			if got := o.ViewMatrix().MulVec3(o.Focus); math.Abs(got.Z+30) > 1e-9 {
				t.Errorf("orbited camera does not look at the focus: %v", got)
			}
		})
	}

	if cam.Position != (math3d.Vec3{}) {
		t.Errorf("Orbit moved the original camera to %v", cam.Position)
	}
}

func TestCameraWorldToScreen(t *testing.T) {
	cam := NewCamera(math3d.V3(0, 0, 0), math3d.V3(0, 0, -30), math3d.V3(0, 1, 0))

	x, y, z, ok := cam.WorldToScreen(math3d.V3(0, 0, -30), 800, 600)
	if !ok {
		t.Fatal("focus reported off screen")
	}
	// Raster z for view z=-30 between planes -1 and -60: -61 + 60/30.
	if math.Abs(x-400) > 1e-9 || math.Abs(y-300) > 1e-9 || math.Abs(z+59) > 1e-9 {
		t.Errorf("focus = (%v, %v, %v), want (400, 300, -59)", x, y, z)
	}

	if _, _, _, ok := cam.WorldToScreen(math3d.V3(0, 0, 5), 800, 600); ok {
		t.Error("point behind the eye reported visible")
	}
	if _, _, _, ok := cam.WorldToScreen(math3d.V3(500, 0, -30), 800, 600); ok {
		t.Error("point far to the side reported visible")
	}
}
