package render

import (
	"math"

	"github.com/taigrr/umbra/pkg/math3d"
)

// Camera is an eye looking at a focus point. Both the viewer and the
// shadow-casting light are Cameras.
type Camera struct {
	Position math3d.Vec3
	Focus    math3d.Vec3
	Up       math3d.Vec3

	FOV  float64 // Vertical field of view in radians (perspective only)
	Near float64 // Signed view-space z of the near plane, e.g. -1
	Far  float64 // Signed view-space z of the far plane, e.g. -60

	// Cached view matrix (computed on demand)
	viewMatrix math3d.Mat4
	viewDirty  bool
}

// NewCamera creates a camera with a 45 degree field of view and planes at
// z=-1 and z=-60.
func NewCamera(position, focus, up math3d.Vec3) *Camera {
	return &Camera{
		Position:  position,
		Focus:     focus,
		Up:        up,
		FOV:       math.Pi / 4,
		Near:      -1,
		Far:       -60,
		viewDirty: true,
	}
}

// SetPosition moves the eye.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetFocus changes the point looked at.
func (c *Camera) SetFocus(focus math3d.Vec3) {
	c.Focus = focus
	c.viewDirty = true
}

// Basis returns the camera-to-world matrix.
func (c *Camera) Basis() math3d.Mat4 {
	return math3d.LookAt(c.Position, c.Focus, c.Up)
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = c.Basis().Inverse()
		c.viewDirty = false
	}
	return c.viewMatrix
}

// Perspective returns the raster projection for a width x height target.
func (c *Camera) Perspective(width, height int) math3d.Mat4 {
	return math3d.Perspective(c.FOV, c.Near, c.Far, width, height)
}

// Ortho returns the raster projection of box for a width x height target.
func (c *Camera) Ortho(box Box, width, height int) math3d.Mat4 {
	return math3d.Ortho(box.Left, box.Right, box.Bottom, box.Top, c.Near, c.Far, width, height)
}

// Distance returns the distance from the eye to the focus.
func (c *Camera) Distance() float64 {
	return c.Position.Distance(c.Focus)
}

// Orbit returns a copy of the camera with its eye rotated by angle radians
// about the vertical axis through the focus.
func (c *Camera) Orbit(angle float64) *Camera {
	offset := math3d.RotateY(angle).MulVec3Dir(c.Position.Sub(c.Focus))
	o := *c
	o.SetPosition(c.Focus.Add(offset))
	return &o
}

// WorldToScreen projects a world point to raster space with a perspective
// projection. visible is false for points behind the eye or off target.
func (c *Camera) WorldToScreen(p math3d.Vec3, width, height int) (x, y, z float64, visible bool) {
	viewPos := c.ViewMatrix().MulVec3(p)
	if viewPos.Z >= 0 {
		return 0, 0, 0, false
	}
	r := c.Perspective(width, height).MulVec4(math3d.Point(viewPos)).PerspectiveDivide()
	visible = r.X >= 0 && r.X < float64(width) && r.Y >= 0 && r.Y < float64(height)
	return r.X, r.Y, r.Z, visible
}
