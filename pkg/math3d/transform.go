package math3d

import "math"

// Depth convention
//
// The camera looks down -Z, so near and far are signed view-space z values
// with near > far (for example -1 and -60). Both Perspective and Ortho keep
// that ordering through to raster space: a point nearer the camera always
// ends up with a larger z. The rasterizer's depth buffer starts at the most
// negative float and keeps a fragment only when its z is strictly greater,
// so the three pieces must agree. TestDepthNearerIsLarger checks it.

// Model scales by scale, then translates by translate.
func Model(translate, scale Vec3) Mat4 {
	return Translate(translate).Mul(Scale(scale))
}

// LookAt returns the camera-to-world basis for a camera at eye looking at
// target. Columns are u (right), v (up), w (backward) and eye.
//
// The result is not a view matrix. Invert it to get world to camera space.
// up must not be parallel to eye-target.
func LookAt(eye, target, up Vec3) Mat4 {
	w := eye.Sub(target).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)
	return Mat4{
		u.X, u.Y, u.Z, 0,
		v.X, v.Y, v.Z, 0,
		w.X, w.Y, w.Z, 0,
		eye.X, eye.Y, eye.Z, 1,
	}
}

// Perspective maps view space to raster space for a width x height target.
// fov is the vertical field of view in radians.
//
// The result is homogeneous: callers must PerspectiveDivide after
// multiplying. x and y then land in pixels with the origin at the bottom
// left. z keeps the order of view-space depth and its endpoints: near maps
// to near and far to far.
func Perspective(fov, near, far float64, width, height int) Mat4 {
	planeH := math.Tan(fov/2) * math.Abs(near) * 2
	planeW := planeH * float64(width) / float64(height)

	foreshorten := Mat4{
		near, 0, 0, 0,
		0, near, 0, 0,
		0, 0, near + far, 1,
		0, 0, -near * far, 0,
	}
	viewport := Mat4{
		float64(width) / planeW, 0, 0, 0,
		0, float64(height) / planeH, 0, 0,
		0, 0, 1, 0,
		float64(width) / 2, float64(height) / 2, 0, 1,
	}
	return viewport.Mul(foreshorten)
}

// Orthographic maps the box [left,right]x[bottom,top]x[-near,-far] to the
// [-1,1] cube, GL style. near and far are positive distances here.
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	rl := 1.0 / (right - left)
	tb := 1.0 / (top - bottom)
	fn := 1.0 / (far - near)

	return Mat4{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(right + left) * rl, -(top + bottom) * tb, -(far + near) * fn, 1,
	}
}

// Ortho maps a view-space box straight to raster space for a width x height
// target. near and far are signed z values as in Perspective.
//
// The mapping is affine, so w stays 1. Depth lands in [0,1] with the near
// plane at 1 and the far plane at 0.
func Ortho(left, right, bottom, top, near, far float64, width, height int) Mat4 {
	w, h := float64(width), float64(height)
	viewport := Mat4{
		w / 2, 0, 0, 0,
		0, h / 2, 0, 0,
		0, 0, -0.5, 0,
		w / 2, h / 2, 0.5, 1,
	}
	return viewport.Mul(Orthographic(left, right, bottom, top, -near, -far))
}
