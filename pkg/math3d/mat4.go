package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order, so element (row, col)
// lives at index row+col*4 and the last column holds the translation.
//
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// Vectors are columns: m.Mul(n).MulVec4(v) applies n first, then m.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale creates a non-uniform scaling matrix.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = v.X, v.Y, v.Z
	return m
}

// RotateY rotates counter-clockwise about +Y when looking down the axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Mul returns a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			m[row+col*4] = a[row]*b[col*4] +
				a[row+4]*b[1+col*4] +
				a[row+8]*b[2+col*4] +
				a[row+12]*b[3+col*4]
		}
	}
	return m
}

// MulVec4 transforms a homogeneous vector. No divide is performed.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulVec3 transforms v as a point and divides by the resulting w.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(Point(v)).PerspectiveDivide()
}

// MulVec3Dir transforms v as a direction (w=0).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(Dir(v)).Vec3()
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for col := range 4 {
		for row := range 4 {
			t[col+row*4] = m[row+col*4]
		}
	}
	return t
}

// minors holds the twelve 2x2 sub-determinants shared by Determinant and
// Inverse. s* come from the top two rows, c* from the bottom two.
type minors struct {
	s0, s1, s2, s3, s4, s5 float64
	c0, c1, c2, c3, c4, c5 float64
}

func (m Mat4) minors() minors {
	return minors{
		s0: m[0]*m[5] - m[1]*m[4],
		s1: m[0]*m[9] - m[1]*m[8],
		s2: m[0]*m[13] - m[1]*m[12],
		s3: m[4]*m[9] - m[5]*m[8],
		s4: m[4]*m[13] - m[5]*m[12],
		s5: m[8]*m[13] - m[9]*m[12],

		c5: m[10]*m[15] - m[11]*m[14],
		c4: m[6]*m[15] - m[7]*m[14],
		c3: m[6]*m[11] - m[7]*m[10],
		c2: m[2]*m[15] - m[3]*m[14],
		c1: m[2]*m[11] - m[3]*m[10],
		c0: m[2]*m[7] - m[3]*m[6],
	}
}

func (k minors) det() float64 {
	return k.s0*k.c5 - k.s1*k.c4 + k.s2*k.c3 + k.s3*k.c2 - k.s4*k.c1 + k.s5*k.c0
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	return m.minors().det()
}

// Inverse returns the inverse of the matrix, or identity when m is singular.
func (m Mat4) Inverse() Mat4 {
	k := m.minors()
	det := k.det()
	if det == 0 {
		return Identity()
	}
	d := 1 / det

	var inv Mat4
	inv[0] = (m[5]*k.c5 - m[9]*k.c4 + m[13]*k.c3) * d
	inv[4] = (-m[4]*k.c5 + m[8]*k.c4 - m[12]*k.c3) * d
	inv[8] = (m[7]*k.s5 - m[11]*k.s4 + m[15]*k.s3) * d
	inv[12] = (-m[6]*k.s5 + m[10]*k.s4 - m[14]*k.s3) * d

	inv[1] = (-m[1]*k.c5 + m[9]*k.c2 - m[13]*k.c1) * d
	inv[5] = (m[0]*k.c5 - m[8]*k.c2 + m[12]*k.c1) * d
	inv[9] = (-m[3]*k.s5 + m[11]*k.s2 - m[15]*k.s1) * d
	inv[13] = (m[2]*k.s5 - m[10]*k.s2 + m[14]*k.s1) * d

	inv[2] = (m[1]*k.c4 - m[5]*k.c2 + m[13]*k.c0) * d
	inv[6] = (-m[0]*k.c4 + m[4]*k.c2 - m[12]*k.c0) * d
	inv[10] = (m[3]*k.s4 - m[7]*k.s2 + m[15]*k.s0) * d
	inv[14] = (-m[2]*k.s4 + m[6]*k.s2 - m[14]*k.s0) * d

	inv[3] = (-m[1]*k.c3 + m[5]*k.c1 - m[9]*k.c0) * d
	inv[7] = (m[0]*k.c3 - m[4]*k.c1 + m[8]*k.c0) * d
	inv[11] = (-m[3]*k.s3 + m[7]*k.s1 - m[11]*k.s0) * d
	inv[15] = (m[2]*k.s3 - m[6]*k.s1 + m[10]*k.s0) * d
	return inv
}

// NormalMatrix returns the inverse-transpose of m, which carries surface
// normals into the same space m carries points.
func (m Mat4) NormalMatrix() Mat4 {
	return m.Inverse().Transpose()
}
